package config

import (
	"fmt"
	"time"

	"github.com/farellandr/fastfriends/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	AMQP     AMQPConfig     `mapstructure:"amqp"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Currency CurrencyConfig `mapstructure:"currency"`
	Settings Settings       `mapstructure:"settings"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AMQPConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type CurrencyConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Settings are the immutable domain constants handed to the state machine,
// discovery engine and workers at construction.
type Settings struct {
	MinMembers        int           `mapstructure:"min_members"`
	MaxMembers        int           `mapstructure:"max_members"`
	CheckinDistance   float64       `mapstructure:"checkin_distance"` // meters
	CheckinPeriod     time.Duration `mapstructure:"checkin_period"`
	CheckinLeadTime   time.Duration `mapstructure:"checkin_lead_time"`
	MinStartLeadTime  time.Duration `mapstructure:"min_start_lead_time"`
	NearbyRadiusMiles float64       `mapstructure:"nearby_radius_miles"`
	AvailableLookback time.Duration `mapstructure:"available_lookback"`

	ReminderInterval time.Duration `mapstructure:"reminder_interval"`
	FriendsInterval  time.Duration `mapstructure:"friends_interval"`
	IndexInterval    time.Duration `mapstructure:"index_interval"`
	ImportInterval   time.Duration `mapstructure:"import_interval"`
}

func LoadConfig() (*Config, error) {
	v := viper.New()

	v.AddConfigPath("./config")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional; defaults plus env cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "fastfriends")
	v.SetDefault("database.password", "fastfriends")
	v.SetDefault("database.name", "fastfriends")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("amqp.url", "")
	v.SetDefault("amqp.exchange", "fastfriends.notifications")

	v.SetDefault("jwt.secret", "change-me")
	v.SetDefault("jwt.expiration", 24*time.Hour)

	v.SetDefault("currency.base_url", "https://currency-api.appspot.com/api")
	v.SetDefault("currency.api_key", "")
	v.SetDefault("currency.timeout", 5*time.Second)

	v.SetDefault("settings.min_members", 2)
	v.SetDefault("settings.max_members", 2147483647)
	v.SetDefault("settings.checkin_distance", 200.0)
	v.SetDefault("settings.checkin_period", 4*time.Hour)
	v.SetDefault("settings.checkin_lead_time", 30*time.Minute)
	v.SetDefault("settings.min_start_lead_time", 30*time.Minute)
	v.SetDefault("settings.nearby_radius_miles", 50.0)
	v.SetDefault("settings.available_lookback", 4*time.Hour)

	v.SetDefault("settings.reminder_interval", 5*time.Minute)
	v.SetDefault("settings.friends_interval", time.Hour)
	v.SetDefault("settings.index_interval", 10*time.Minute)
	v.SetDefault("settings.import_interval", 7*24*time.Hour)
}

func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
}

func InitDatabase(cfg *DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode,
	)

	// TranslateError turns postgres unique violations into
	// gorm.ErrDuplicatedKey, which the repositories rely on.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := enableUUIDExtension(db); err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.User{}, &models.Profile{}, &models.UserSettings{},
		&models.HashTag{}, &models.Location{}, &models.Price{},
		&models.Event{}, &models.EventImport{}, &models.EventMember{},
		&models.EventInvite{}, &models.Plan{}, &models.Comment{},
		&models.Friend{}, &models.Message{}, &models.CurrencyRate{},
		&models.SearchDocument{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func InitRedis(cfg *RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
