package server

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/farellandr/fastfriends/config"
	"github.com/farellandr/fastfriends/internal/handlers"
	"github.com/farellandr/fastfriends/internal/middleware"
	"github.com/farellandr/fastfriends/internal/notify"
	"github.com/farellandr/fastfriends/internal/repository"
	"github.com/farellandr/fastfriends/internal/services"
	"github.com/farellandr/fastfriends/internal/worker"
)

// Start wires the whole application together and blocks serving HTTP until
// the listener fails or the context is canceled.
func Start(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}
	cache := config.InitRedis(&cfg.Redis)

	var dispatcher notify.Dispatcher
	if cfg.AMQP.URL != "" {
		amqpDispatcher, err := notify.NewAMQPDispatcher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			return fmt.Errorf("failed to connect notification broker: %v", err)
		}
		defer amqpDispatcher.Close()
		dispatcher = amqpDispatcher
	} else {
		logrus.Warn("AMQP url not configured, notifications will be dropped")
		dispatcher = notify.NewLogDispatcher()
	}

	events := repository.NewEventRepository(db)
	members := repository.NewMemberRepository(db)
	invites := repository.NewInviteRepository(db)
	friends := repository.NewFriendRepository(db)
	plans := repository.NewPlanRepository(db)
	users := repository.NewUserRepository(db)
	comments := repository.NewCommentRepository(db)
	messages := repository.NewMessageRepository(db)
	rates := repository.NewRateRepository(db)
	search := repository.NewSearchRepository(db)
	tags := repository.NewTagRepository(db)

	tagService := services.NewTagService(tags)
	currencyService := services.NewCurrencyService(
		services.NewHTTPRateProvider(cfg.Currency.BaseURL, cfg.Currency.APIKey, cfg.Currency.Timeout), rates, cache)
	userService := services.NewUserService(users, tagService)
	membershipService := services.NewMembershipService(
		cfg.Settings, events, members, invites, friends, users, dispatcher)
	eventService := services.NewEventService(
		cfg.Settings, events, members, users, comments, tagService, currencyService, dispatcher)
	planService := services.NewPlanService(plans, users, comments, tagService, dispatcher)
	discoveryService := services.NewDiscoveryService(cfg.Settings, events, plans, friends, users)
	friendService := services.NewFriendService(friends, members, events, users)
	messageService := services.NewMessageService(messages, users, dispatcher)
	searchService := services.NewSearchService(search, events, plans, users)

	go worker.NewReminderWorker(cfg.Settings, events, members, dispatcher).Start(ctx)
	go worker.NewFriendsWorker(cfg.Settings, events, friendService).Start(ctx)
	go worker.NewIndexWorker(cfg.Settings, searchService).Start(ctx)
	go worker.NewImportWorker(cfg.Settings, events).Start(ctx)

	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()
	r.Use(middleware.MetricsMiddleware())

	setupRoutes(r, cfg,
		handlers.NewAuthHandler(userService, cfg.JWT),
		handlers.NewEventHandler(eventService, membershipService),
		handlers.NewMemberHandler(membershipService),
		handlers.NewPlanHandler(planService),
		handlers.NewFeedHandler(discoveryService),
		handlers.NewFriendHandler(friendService),
		handlers.NewMessageHandler(messageService),
		handlers.NewSearchHandler(searchService),
		handlers.NewProfileHandler(userService),
	)

	return r.Run(":" + cfg.Server.Port)
}

func setupRoutes(r *gin.Engine, cfg *config.Config,
	auth *handlers.AuthHandler,
	event *handlers.EventHandler,
	member *handlers.MemberHandler,
	plan *handlers.PlanHandler,
	feed *handlers.FeedHandler,
	friend *handlers.FriendHandler,
	message *handlers.MessageHandler,
	search *handlers.SearchHandler,
	profile *handlers.ProfileHandler,
) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := r.Group("/v1")
	{
		public.POST("/register", auth.Register)
		public.POST("/login", auth.Login)
		public.GET("/display-name", auth.CheckDisplayName)
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg.JWT.Secret))
	{
		eventRoutes := protected.Group("/events")
		{
			eventRoutes.GET("", feed.Events)
			eventRoutes.POST("", event.Create)
			eventRoutes.GET("/:id", event.Get)
			eventRoutes.PUT("/:id", event.Update)
			eventRoutes.DELETE("/:id", event.Cancel)
			eventRoutes.GET("/:id/comments", event.ListComments)
			eventRoutes.POST("/:id/comments", event.CreateComment)

			eventRoutes.GET("/:id/members", member.List)
			eventRoutes.POST("/:id/members", member.Join)
			eventRoutes.DELETE("/:id/members", member.Leave)
			eventRoutes.POST("/:id/invites", member.Invite)
			eventRoutes.POST("/:id/checkin", member.CheckIn)
		}

		memberRoutes := protected.Group("/members")
		{
			memberRoutes.POST("/:memberId/respond", member.RespondInvite)
			memberRoutes.POST("/:memberId/approve", member.Approve)
		}

		planRoutes := protected.Group("/plans")
		{
			planRoutes.GET("", feed.Plans)
			planRoutes.POST("", plan.Create)
			planRoutes.GET("/:id", plan.Get)
			planRoutes.PUT("/:id", plan.Update)
			planRoutes.DELETE("/:id", plan.Delete)
			planRoutes.GET("/:id/comments", plan.ListComments)
			planRoutes.POST("/:id/comments", plan.CreateComment)
		}

		friendRoutes := protected.Group("/friends")
		{
			friendRoutes.GET("", friend.List)
			friendRoutes.PUT("/:id/close", friend.MarkClose)
			friendRoutes.GET("/mutual/:userId", friend.Mutual)
			friendRoutes.POST("/contacts/find", friend.FindContacts)
			friendRoutes.POST("/contacts/import", friend.ImportContacts)
		}

		messageRoutes := protected.Group("/messages")
		{
			messageRoutes.GET("", message.Inbox)
			messageRoutes.POST("", message.Send)
			messageRoutes.GET("/thread/:userId", message.Thread)
			messageRoutes.DELETE("/:id", message.Delete)
		}

		protected.GET("/history", feed.History)
		protected.GET("/search", search.Search)

		profileRoutes := protected.Group("/profile")
		{
			profileRoutes.GET("", profile.Me)
			profileRoutes.PUT("", profile.Update)
			profileRoutes.GET("/settings", profile.Settings)
			profileRoutes.PUT("/settings", profile.UpdateSettings)
		}
	}
}
