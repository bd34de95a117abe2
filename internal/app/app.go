package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"dca-trader/internal/config"
)

// runner 抽象单轮策略执行，方便在测试中替换。
type runner interface {
	Tick(ctx context.Context) error
}

// App 聚合核心依赖并驱动定投调度循环。
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	runner runner
	now    func() time.Time
}

// New 创建 App 实例。
func New(cfg *config.Config, logger *zap.Logger, r runner) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
		runner: r,
		now:    time.Now,
	}
}

// Run 启动调度循环：启动时立即执行一轮，不受触发时刻限制；
// 此后按固定间隔轮询，到达每日触发点时执行。单轮的任何错误都
// 只记录日志，循环仅在收到退出信号时结束。
func (a *App) Run(ctx context.Context) error {
	hour, minute, err := config.ParseDailyTime(a.cfg.Scheduler.DailyAt)
	if err != nil {
		return err
	}
	loc, err := a.cfg.Scheduler.Location()
	if err != nil {
		return err
	}

	pollInterval := a.cfg.Scheduler.PollInterval
	if pollInterval <= 0 {
		pollInterval = time.Minute
	}

	if a.cfg.Monitor.Enabled {
		if err := startMonitorServer(ctx, a.cfg.Monitor.Port, a.logger); err != nil {
			return err
		}
	}

	a.logger.Info("定投调度已启动",
		zap.String("environment", a.cfg.App.Environment),
		zap.String("symbol", a.cfg.Strategy.Symbol),
		zap.String("daily_at", a.cfg.Scheduler.DailyAt),
		zap.String("timezone", loc.String()),
		zap.Duration("poll_interval", pollInterval),
		zap.Bool("paper", a.cfg.Alpaca.IsPaper()),
	)

	trigger := newDailyTrigger(hour, minute, loc, a.now())

	// 启动时先执行一次
	a.tick(ctx)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("调度循环异常退出: %w", err)
			}
			a.logger.Info("收到退出信号，调度循环停止")
			return nil
		case <-ticker.C:
			now := a.now()
			if !trigger.due(now) {
				continue
			}
			a.tick(ctx)
			trigger.advance(now)
		}
	}
}

// tick 执行一轮策略，错误只记录，保证调度循环不中断。
func (a *App) tick(ctx context.Context) {
	if err := a.runner.Tick(ctx); err != nil {
		a.logger.Error("定投执行失败", zap.Error(err))
	}
}
