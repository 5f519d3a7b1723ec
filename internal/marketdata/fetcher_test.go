package marketdata

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/wonny/dailypicks/internal/contracts"
	"github.com/wonny/dailypicks/pkg/config"
	"github.com/wonny/dailypicks/pkg/logger"
	"github.com/wonny/dailypicks/pkg/redis"
)

// fakeQuotes fails for symbols in fail and records peak concurrency
type fakeQuotes struct {
	fail     map[string]bool
	delay    time.Duration
	inFlight int32
	peak     int32
}

func (f *fakeQuotes) Fetch(ctx context.Context, symbol string) (*contracts.MarketData, error) {
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		p := atomic.LoadInt32(&f.peak)
		if n <= p || atomic.CompareAndSwapInt32(&f.peak, p, n) {
			break
		}
	}

	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}

	if f.fail[symbol] {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, contracts.ErrNoData)
	}
	return &contracts.MarketData{
		Symbol: symbol,
		Quote:  contracts.Quote{Price: decimal.NewFromInt(10)},
		Fundamentals: contracts.Fundamentals{
			EPSTrailing: 1.5,
		},
	}, nil
}

type fakeFundamentals struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeFundamentals) Fundamentals(ctx context.Context, symbol string) (contracts.Fundamentals, error) {
	f.mu.Lock()
	f.calls = append(f.calls, symbol)
	f.mu.Unlock()

	if f.err != nil {
		return contracts.Fundamentals{}, f.err
	}
	growth, inst := 30.0, 55.0
	return contracts.Fundamentals{EPSGrowthQoQ: &growth, InstOwnership: &inst}, nil
}

type failingLimiter struct{ err error }

func (l failingLimiter) Wait(context.Context) error { return l.err }

func symbols(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("S%02d", i)
	}
	return out
}

func TestFetch_PreservesOrderAndDropsFailures(t *testing.T) {
	quotes := &fakeQuotes{
		fail:  map[string]bool{"S03": true, "S01": true},
		delay: time.Millisecond,
	}
	f := NewFetcher(quotes, 4, logger.Nop())

	batch, err := f.Fetch(context.Background(), symbols(10))
	require.NoError(t, err)

	require.Len(t, batch.Records, 8)
	var got []string
	for _, md := range batch.Records {
		got = append(got, md.Symbol)
	}
	assert.Equal(t, []string{"S00", "S02", "S04", "S05", "S06", "S07", "S08", "S09"}, got)
	assert.Equal(t, []string{"S01", "S03"}, batch.Dropped)
	assert.LessOrEqual(t, atomic.LoadInt32(&quotes.peak), int32(4))
}

func TestFetch_AllFailIsNotAnError(t *testing.T) {
	quotes := &fakeQuotes{fail: map[string]bool{"S00": true, "S01": true}}

	records, err := NewFetcher(quotes, 2, logger.Nop()).FetchMultiple(context.Background(), symbols(2))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFetch_Empty(t *testing.T) {
	batch, err := NewFetcher(&fakeQuotes{}, 2, logger.Nop()).Fetch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, batch.Records)
	assert.Empty(t, batch.Dropped)
}

func TestFetch_LimiterFailureAbortsBatch(t *testing.T) {
	boom := errors.New("redis down")
	f := NewFetcher(&fakeQuotes{}, 2, logger.Nop()).
		WithLimiter(rate.NewLimiter(rate.Inf, 1)).
		WithLimiter(failingLimiter{err: boom})

	_, err := f.Fetch(context.Background(), symbols(3))
	assert.ErrorIs(t, err, boom)
}

func TestFetch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFetcher(&fakeQuotes{delay: time.Second}, 2, logger.Nop()).
		WithLimiter(rate.NewLimiter(rate.Every(time.Hour), 1))

	_, err := f.Fetch(ctx, symbols(3))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetch_FundamentalsEnrichment(t *testing.T) {
	client, err := redis.New(context.Background(), config.RedisConfig{Enabled: false})
	require.NoError(t, err)

	src := &fakeFundamentals{}
	f := NewFetcher(&fakeQuotes{}, 2, logger.Nop()).
		WithFundamentals(src, redis.NewCache(client, "test"))

	records, err := f.FetchMultiple(context.Background(), []string{"AAPL", "MSFT"})
	require.NoError(t, err)
	require.Len(t, records, 2)

	for _, md := range records {
		require.NotNil(t, md.Fundamentals.EPSGrowthQoQ)
		assert.Equal(t, 30.0, *md.Fundamentals.EPSGrowthQoQ)
		assert.Equal(t, 1.5, md.Fundamentals.EPSTrailing, "quote source value kept")
	}
	assert.ElementsMatch(t, []string{"AAPL", "MSFT"}, src.calls)
}

func TestFetch_FundamentalsFailureKeepsRecord(t *testing.T) {
	f := NewFetcher(&fakeQuotes{}, 1, logger.Nop()).
		WithFundamentals(&fakeFundamentals{err: errors.New("403")}, nil)

	records, err := f.FetchMultiple(context.Background(), []string{"GME"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Fundamentals.InstOwnership)
}

func TestOverlay(t *testing.T) {
	growth := 12.0
	base := contracts.Fundamentals{EPSTrailing: 2, TrailingPE: 20, EPSGrowthQoQ: &growth}

	inst := 70.0
	Overlay(&base, contracts.Fundamentals{TrailingPE: 25, InstOwnership: &inst})

	assert.Equal(t, 2.0, base.EPSTrailing)
	assert.Equal(t, 25.0, base.TrailingPE)
	assert.Equal(t, 12.0, *base.EPSGrowthQoQ)
	assert.Equal(t, 70.0, *base.InstOwnership)
}
