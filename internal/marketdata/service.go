package marketdata

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BarFetcher 抽象数据源，便于在测试中注入假实现。
type BarFetcher interface {
	FetchBars(ctx context.Context, req SeriesRequest) ([]Bar, error)
}

// Service 聚合K线获取与本地缓存。
type Service struct {
	fetcher BarFetcher
	cache   *Cache
	logger  *zap.Logger
}

// NewService 创建行情数据服务，cache 可为 nil 表示不启用缓存。
func NewService(fetcher BarFetcher, cache *Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fetcher: fetcher,
		cache:   cache,
		logger:  logger,
	}
}

// GetSeries 返回单个交易对的价格序列，优先读取缓存。
func (s *Service) GetSeries(ctx context.Context, req SeriesRequest) ([]Bar, error) {
	if s.cache != nil {
		cached, err := s.cache.Load(ctx, req)
		if err != nil {
			s.logger.Warn("读取K线缓存失败", zap.String("symbol", req.Symbol), zap.Error(err))
		} else if len(cached) > 0 {
			s.logger.Debug("命中K线缓存",
				zap.String("symbol", req.Symbol),
				zap.Int("bars", len(cached)),
			)
			return cached, nil
		}
	}

	bars, err := s.fetcher.FetchBars(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Save(ctx, req, bars)
	}

	s.logger.Debug("价格序列获取完成",
		zap.String("symbol", req.Symbol),
		zap.String("timeframe", req.Timeframe),
		zap.Int("bars", len(bars)),
	)

	return bars, nil
}

// GetSeriesBatch 并发拉取多个交易对的价格序列，任一失败则整体失败。
func (s *Service) GetSeriesBatch(ctx context.Context, reqs []SeriesRequest) (map[string][]Bar, error) {
	results := make([][]Bar, len(reqs))

	group, groupCtx := errgroup.WithContext(ctx)
	for i := range reqs {
		group.Go(func() error {
			bars, err := s.GetSeries(groupCtx, reqs[i])
			if err != nil {
				return err
			}
			results[i] = bars
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string][]Bar, len(reqs))
	for i, req := range reqs {
		out[req.Symbol] = results[i]
	}
	return out, nil
}
