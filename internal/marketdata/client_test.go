package marketdata

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"meanrev/internal/config"
)

func TestClientEnsureMarketsLoaded_ConcurrentCalls(t *testing.T) {
	client, err := NewClient(testClientConfig(), nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	// 取消的 context 让重试循环在发起网络请求前返回；
	// 多个协程并发进入时对加载标志的访问必须全程持锁（-race 验证）。
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = client.ensureMarketsLoaded(ctx)
		}()
	}
	wg.Wait()

	for i, gotErr := range errs {
		if !errors.Is(gotErr, context.Canceled) {
			t.Errorf("call %d: expected context.Canceled, got %v", i, gotErr)
		}
	}
}

func TestClientFetchBars_CanceledContext(t *testing.T) {
	client, err := NewClient(testClientConfig(), nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.FetchBars(ctx, SeriesRequest{Symbol: "BTC/USDT", Timeframe: "1d", Limit: 10}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func testClientConfig() config.MarketDataConfig {
	return config.MarketDataConfig{
		Exchange:  "binance",
		Symbols:   []string{"BTC/USDT"},
		Timeframe: "1d",
		Retry: config.RetryConfig{
			MaxAttempts: 1,
			MinDelay:    time.Millisecond,
			MaxDelay:    time.Millisecond,
		},
	}
}
