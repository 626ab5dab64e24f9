package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Client converts amounts using the frankfurter.app exchange rate API,
// bridging off-feed currencies through USD.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a rate client. An empty baseURL selects the public
// frankfurter.app endpoint.
func NewClient(baseURL string, timeout time.Duration) *Client {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		trimmed = "https://api.frankfurter.app"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Convert converts amount from one currency to another using the latest
// rates. Shilling legs use the static USD pegs; everything else is
// priced live.
func (c *Client) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (Conversion, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == "" || to == "" {
		return Conversion{}, errors.New("from and to currencies are required")
	}
	if !amount.IsPositive() {
		return Conversion{}, errors.New("amount must be positive")
	}
	if from == to {
		return Conversion{Amount: amount, Rate: decimal.New(1, 0), AsOf: time.Now().UTC()}, nil
	}

	rate, asOf, err := c.rate(ctx, from, to)
	if err != nil {
		return Conversion{}, err
	}
	return Conversion{Amount: amount.Mul(rate).Round(2), Rate: rate, AsOf: asOf}, nil
}

// rate resolves the from->to rate, splitting off static shilling legs.
func (c *Client) rate(ctx context.Context, from, to string) (decimal.Decimal, time.Time, error) {
	fromUSD, fromStatic := staticUSDRate(from)
	toUSD, toStatic := staticUSDRate(to)

	switch {
	case fromStatic && toStatic:
		return fromUSD.Div(toUSD), time.Now().UTC(), nil
	case fromStatic:
		// shilling -> USD -> target
		usdRate := fromUSD
		if to == "USD" {
			return usdRate, time.Now().UTC(), nil
		}
		live, asOf, err := c.fetchRate(ctx, "USD", to)
		if err != nil {
			return decimal.Zero, time.Time{}, err
		}
		return usdRate.Mul(live), asOf, nil
	case toStatic:
		// source -> USD -> shilling
		usdLeg := decimal.New(1, 0)
		asOf := time.Now().UTC()
		if from != "USD" {
			var err error
			usdLeg, asOf, err = c.fetchRate(ctx, from, "USD")
			if err != nil {
				return decimal.Zero, time.Time{}, err
			}
		}
		return usdLeg.Div(toUSD), asOf, nil
	default:
		return c.fetchRate(ctx, from, to)
	}
}

type ratesResponse struct {
	Date  string                 `json:"date"`
	Rates map[string]json.Number `json:"rates"`
}

func (c *Client) fetchRate(ctx context.Context, from, to string) (decimal.Decimal, time.Time, error) {
	endpoint := fmt.Sprintf("%s/latest?from=%s&to=%s",
		c.baseURL, url.QueryEscape(from), url.QueryEscape(to))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, time.Time{}, fmt.Errorf("failed to create rate request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, time.Time{}, fmt.Errorf("failed to fetch rate: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return decimal.Zero, time.Time{}, fmt.Errorf("%w: %s or %s", ErrUnknownCurrency, from, to)
	}
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, time.Time{}, fmt.Errorf("rate API returned status %d", resp.StatusCode)
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	var payload ratesResponse
	if err := decoder.Decode(&payload); err != nil {
		return decimal.Zero, time.Time{}, fmt.Errorf("failed to decode rate response: %w", err)
	}

	raw, ok := payload.Rates[to]
	if !ok {
		return decimal.Zero, time.Time{}, fmt.Errorf("%w: %s", ErrUnknownCurrency, to)
	}
	rate, err := decimal.NewFromString(raw.String())
	if err != nil {
		return decimal.Zero, time.Time{}, fmt.Errorf("failed to parse rate: %w", err)
	}
	if !rate.IsPositive() {
		return decimal.Zero, time.Time{}, errors.New("rate must be positive")
	}

	asOf, err := time.Parse("2006-01-02", payload.Date)
	if err != nil {
		return decimal.Zero, time.Time{}, fmt.Errorf("failed to parse rate date: %w", err)
	}
	return rate, asOf, nil
}
