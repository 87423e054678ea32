package marketdata

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"meanrev/internal/store"
)

// Cache 将拉取到的K线落盘，避免重复请求数据源。
type Cache struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCache 初始化K线缓存，创建所需表结构。
func NewCache(store *store.Store, logger *zap.Logger) (*Cache, error) {
	if store == nil {
		return nil, fmt.Errorf("marketdata: store 不能为空")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Cache{
		db:     store.DB(),
		logger: logger,
	}

	if err := c.initSchema(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Cache) initSchema() error {
	stmt := `
CREATE TABLE IF NOT EXISTS bars (
	symbol TEXT NOT NULL,
	timeframe TEXT NOT NULL,
	ts TEXT NOT NULL,
	open REAL NOT NULL,
	high REAL NOT NULL,
	low REAL NOT NULL,
	close REAL NOT NULL,
	volume REAL NOT NULL,
	PRIMARY KEY (symbol, timeframe, ts)
);
`
	if _, err := c.db.Exec(stmt); err != nil {
		return fmt.Errorf("marketdata: 初始化缓存表失败: %w", err)
	}
	return nil
}

// Load 按请求读取缓存K线，按时间升序返回；缓存数量不足时返回空。
func (c *Cache) Load(ctx context.Context, req SeriesRequest) ([]Bar, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT ts, open, high, low, close, volume FROM bars
		 WHERE symbol = ? AND timeframe = ? ORDER BY ts ASC`,
		req.Symbol, req.Timeframe,
	)
	if err != nil {
		return nil, fmt.Errorf("marketdata: 查询缓存失败: %w", err)
	}
	defer rows.Close()

	bars := make([]Bar, 0, req.Limit)
	for rows.Next() {
		var (
			ts  string
			bar Bar
		)
		if scanErr := rows.Scan(&ts, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); scanErr != nil {
			return nil, fmt.Errorf("marketdata: 解析缓存行失败: %w", scanErr)
		}
		parsed, parseErr := time.Parse(time.RFC3339, ts)
		if parseErr != nil {
			return nil, fmt.Errorf("marketdata: 解析缓存时间戳失败: %w", parseErr)
		}
		bar.Timestamp = parsed.UTC()
		bars = append(bars, bar)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("marketdata: 读取缓存失败: %w", err)
	}

	if len(bars) < req.Limit {
		return nil, nil
	}

	return bars[len(bars)-req.Limit:], nil
}

// Save 写入K线，主键冲突时覆盖旧值。写入失败只记日志，不影响主流程。
func (c *Cache) Save(ctx context.Context, req SeriesRequest, bars []Bar) {
	if len(bars) == 0 {
		return
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		c.logger.Warn("开启缓存事务失败", zap.Error(err))
		return
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO bars (symbol, timeframe, ts, open, high, low, close, volume)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		c.logger.Warn("准备缓存写入语句失败", zap.Error(err))
		_ = tx.Rollback()
		return
	}
	defer stmt.Close()

	for _, bar := range bars {
		if _, err := stmt.ExecContext(ctx,
			req.Symbol, req.Timeframe, bar.Timestamp.UTC().Format(time.RFC3339),
			bar.Open, bar.High, bar.Low, bar.Close, bar.Volume,
		); err != nil {
			c.logger.Warn("写入缓存K线失败", zap.Error(err))
			_ = tx.Rollback()
			return
		}
	}

	if err := tx.Commit(); err != nil {
		c.logger.Warn("提交缓存事务失败", zap.Error(err))
	}
}
