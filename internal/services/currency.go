package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/farellandr/fastfriends/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Converter turns an amount in an arbitrary ISO 4217 currency into USD.
type Converter interface {
	ToUSD(ctx context.Context, code string, amount float64) (float64, error)
}

// RateProvider fetches a live conversion rate from an external source.
type RateProvider interface {
	Rate(ctx context.Context, source, target string) (float64, error)
}

// CurrencyService resolves conversion rates with a same-day redis cache in
// front of the live provider, falling back to the last persisted rate when
// the provider is unreachable. Rates are cached until midnight UTC, the
// provider's publication boundary.
type CurrencyService struct {
	provider RateProvider
	rates    RateStore
	cache    *redis.Client
}

func NewCurrencyService(provider RateProvider, rates RateStore, cache *redis.Client) *CurrencyService {
	return &CurrencyService{provider: provider, rates: rates, cache: cache}
}

func (s *CurrencyService) ToUSD(ctx context.Context, code string, amount float64) (float64, error) {
	code = strings.ToUpper(code)
	if code == "USD" || amount == 0 {
		return amount, nil
	}
	rate, err := s.rate(ctx, code, "USD")
	if err != nil {
		return 0, err
	}
	return amount * rate, nil
}

func (s *CurrencyService) rate(ctx context.Context, source, target string) (float64, error) {
	key := fmt.Sprintf("rate:%s:%s", source, target)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Float64(); err == nil {
			return cached, nil
		} else if !errors.Is(err, redis.Nil) {
			logrus.Warnf("rate cache read failed: %v", err)
		}
	}

	live, liveErr := s.provider.Rate(ctx, source, target)
	if liveErr == nil {
		s.remember(ctx, key, source, target, live)
		return live, nil
	}
	logrus.WithFields(logrus.Fields{"source": source, "target": target}).
		Warnf("live rate fetch failed, trying last known: %v", liveErr)

	stored, err := s.rates.Pair(source, target)
	if errors.Is(err, models.ErrNotFound) {
		return 0, models.ErrNoConversionRate
	}
	if err != nil {
		return 0, err
	}
	if stored.Source == source {
		return stored.Rate, nil
	}
	if stored.Rate == 0 {
		return 0, models.ErrNoConversionRate
	}
	return 1 / stored.Rate, nil
}

func (s *CurrencyService) remember(ctx context.Context, key, source, target string, rate float64) {
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, rate, untilMidnightUTC(time.Now().UTC())).Err(); err != nil {
			logrus.Warnf("rate cache write failed: %v", err)
		}
	}

	stored, err := s.rates.Pair(source, target)
	if errors.Is(err, models.ErrNotFound) {
		stored = &models.CurrencyRate{Source: source, Target: target}
	} else if err != nil {
		logrus.Warnf("rate lookup failed: %v", err)
		return
	}
	if stored.Source != source {
		if rate == 0 {
			return
		}
		rate = 1 / rate
	}
	stored.Rate = rate
	if err := s.rates.Save(stored); err != nil {
		logrus.Warnf("rate save failed: %v", err)
	}
}

func untilMidnightUTC(now time.Time) time.Duration {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
	return midnight.Sub(now)
}

// HTTPRateProvider queries a frankfurter-compatible exchange rate API.
type HTTPRateProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewHTTPRateProvider(baseURL, apiKey string, timeout time.Duration) *HTTPRateProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPRateProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: timeout},
	}
}

func (p *HTTPRateProvider) Rate(ctx context.Context, source, target string) (float64, error) {
	endpoint := fmt.Sprintf("%s/latest?base=%s&symbols=%s",
		strings.TrimRight(p.BaseURL, "/"), url.QueryEscape(source), url.QueryEscape(target))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	if p.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.APIKey)
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate api returned status %d", resp.StatusCode)
	}

	var body struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, err
	}
	rate, ok := body.Rates[target]
	if !ok || rate == 0 {
		return 0, models.ErrNoConversionRate
	}
	return rate, nil
}
