package exchange

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// countingConverter serves a fixed rate and counts upstream calls.
type countingConverter struct {
	calls atomic.Int64
	rate  decimal.Decimal
	err   error
}

func (c *countingConverter) Convert(_ context.Context, amount decimal.Decimal, _, _ string) (Conversion, error) {
	c.calls.Add(1)
	if c.err != nil {
		return Conversion{}, c.err
	}
	return Conversion{Amount: amount.Mul(c.rate), Rate: c.rate, AsOf: time.Now()}, nil
}

func TestCacheReusesRates(t *testing.T) {
	ctx := context.Background()
	inner := &countingConverter{rate: decimal.NewFromFloat(0.5)}
	cache := NewCache(inner, time.Hour)

	for range 5 {
		got, err := cache.Convert(ctx, decimal.NewFromInt(10), "USD", "EUR")
		require.NoError(t, err)
		require.True(t, got.Amount.Equal(decimal.NewFromInt(5)))
	}
	require.EqualValues(t, 1, inner.calls.Load())

	// A different pair is a separate entry.
	_, err := cache.Convert(ctx, decimal.NewFromInt(10), "EUR", "USD")
	require.NoError(t, err)
	require.EqualValues(t, 2, inner.calls.Load())
}

func TestCacheAmountIndependence(t *testing.T) {
	ctx := context.Background()
	inner := &countingConverter{rate: decimal.NewFromInt(2)}
	cache := NewCache(inner, time.Hour)

	first, err := cache.Convert(ctx, decimal.NewFromInt(3), "USD", "EUR")
	require.NoError(t, err)
	require.True(t, first.Amount.Equal(decimal.NewFromInt(6)))

	second, err := cache.Convert(ctx, decimal.NewFromInt(50), "USD", "EUR")
	require.NoError(t, err)
	require.True(t, second.Amount.Equal(decimal.NewFromInt(100)))
	require.EqualValues(t, 1, inner.calls.Load())
}

func TestCacheSharesConcurrentFetch(t *testing.T) {
	ctx := context.Background()
	inner := &countingConverter{rate: decimal.NewFromInt(3)}
	cache := NewCache(inner, time.Hour)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := cache.Convert(ctx, decimal.NewFromInt(2), "USD", "KES")
			require.NoError(t, err)
			require.True(t, got.Amount.Equal(decimal.NewFromInt(6)))
		}()
	}
	wg.Wait()
	require.EqualValues(t, 1, inner.calls.Load())
}

func TestCacheDoesNotCacheFailures(t *testing.T) {
	ctx := context.Background()
	inner := &countingConverter{err: context.DeadlineExceeded}
	cache := NewCache(inner, time.Hour)

	_, err := cache.Convert(ctx, decimal.NewFromInt(1), "USD", "EUR")
	require.Error(t, err)
	_, err = cache.Convert(ctx, decimal.NewFromInt(1), "USD", "EUR")
	require.Error(t, err)
	require.EqualValues(t, 2, inner.calls.Load())
}
