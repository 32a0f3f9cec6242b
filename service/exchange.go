package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fintrack/config"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

// ExchangeService looks up currency rates from an external provider and
// caches them. Conversions use decimal arithmetic so amounts round the way
// money should.
type ExchangeService struct {
	baseURL string
	client  *http.Client
	cache   *gocache.Cache
}

// NewExchangeService creates the exchange-rate service.
func NewExchangeService(cfg *config.ExchangeConfig) *ExchangeService {
	ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ExchangeService{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		cache:   gocache.New(ttl, 2*ttl),
	}
}

// ratesResponse is the provider payload (open.er-api.com compatible).
type ratesResponse struct {
	Result string             `json:"result"`
	Base   string             `json:"base_code"`
	Rates  map[string]float64 `json:"rates"`
}

// GetRate returns how many units of `to` one unit of `from` buys.
func (s *ExchangeService) GetRate(from, to string) (decimal.Decimal, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == "" || to == "" {
		return decimal.Zero, fmt.Errorf("currency codes required")
	}
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	rates, err := s.ratesFor(from)
	if err != nil {
		return decimal.Zero, err
	}
	rate, ok := rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown currency %q", to)
	}
	return decimal.NewFromFloat(rate), nil
}

// Convert converts an amount between currencies, rounded to 2 decimals.
func (s *ExchangeService) Convert(amount float64, from, to string) (decimal.Decimal, error) {
	rate, err := s.GetRate(from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(amount).Mul(rate).Round(2), nil
}

// ratesFor fetches (or serves from cache) the rate table for a base
// currency.
func (s *ExchangeService) ratesFor(base string) (map[string]float64, error) {
	if cached, found := s.cache.Get(base); found {
		return cached.(map[string]float64), nil
	}

	resp, err := s.client.Get(fmt.Sprintf("%s/latest/%s", s.baseURL, base))
	if err != nil {
		return nil, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate provider returned status %d", resp.StatusCode)
	}

	var payload ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode rates: %w", err)
	}
	if payload.Result != "" && payload.Result != "success" {
		return nil, fmt.Errorf("rate provider result: %s", payload.Result)
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("rate provider returned no rates for %s", base)
	}

	s.cache.Set(base, payload.Rates, gocache.DefaultExpiration)
	return payload.Rates, nil
}
