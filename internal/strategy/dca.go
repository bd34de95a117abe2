package strategy

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"dca-trader/internal/broker"
	"dca-trader/internal/config"
	"dca-trader/internal/monitor"
)

// Runner 按固定金额执行每日定投：市场闸门 → 资金闸门 → 下单。
// 除静态配置外不持有任何状态，时钟与账户信息每轮重新拉取。
type Runner struct {
	broker broker.Client
	cfg    config.StrategyConfig
	amount decimal.Decimal
	logger *zap.Logger
}

// NewRunner 创建定投执行器。
func NewRunner(client broker.Client, cfg config.StrategyConfig, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		broker: client,
		cfg:    cfg,
		amount: decimal.NewFromFloat(cfg.DailyAmount),
		logger: logger,
	}
}

// Tick 执行一轮定投流程。闸门查询失败会向上返回，由调度循环记录
// 日志后继续运行；下单失败在本层记录并吞掉，等待下一轮调度。
func (r *Runner) Tick(ctx context.Context) error {
	r.logger.Info("开始执行定投",
		zap.String("symbol", r.cfg.Symbol),
		zap.String("amount", r.amount.StringFixed(2)),
	)
	monitor.CyclesTotal.Inc()

	open, err := r.marketOpen(ctx)
	if err != nil {
		return err
	}
	if !open {
		r.logger.Info("市场休市，跳过本轮定投")
		monitor.CyclesSkipped.WithLabelValues(monitor.ReasonMarketClosed).Inc()
		return nil
	}

	cash, err := r.accountCash(ctx)
	if err != nil {
		return err
	}

	if cash.LessThan(r.amount) {
		r.logger.Warn("账户资金不足，跳过本轮定投",
			zap.String("cash", cash.StringFixed(2)),
			zap.String("required", r.amount.StringFixed(2)),
		)
		monitor.CyclesSkipped.WithLabelValues(monitor.ReasonInsufficientCash).Inc()
		return nil
	}

	r.submitOrder(ctx)
	r.logger.Info("定投执行完成")
	return nil
}

// marketOpen 查询市场时钟，休市时记录下一次开盘时间。
func (r *Runner) marketOpen(ctx context.Context) (bool, error) {
	clock, err := r.broker.GetClock(ctx)
	if err != nil {
		return false, fmt.Errorf("查询市场时钟失败: %w", err)
	}

	if !clock.IsOpen {
		r.logger.Info("市场休市",
			zap.Time("next_open", clock.NextOpen),
		)
		return false, nil
	}

	return true, nil
}

// accountCash 拉取账户快照，记录后返回现金余额。
func (r *Runner) accountCash(ctx context.Context) (decimal.Decimal, error) {
	account, err := r.broker.GetAccount(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("查询账户信息失败: %w", err)
	}

	r.logger.Info("账户快照",
		zap.String("account_id", account.ID),
		zap.String("cash", account.Cash.StringFixed(2)),
		zap.String("portfolio_value", account.PortfolioValue.StringFixed(2)),
	)

	return account.Cash, nil
}

// submitOrder 提交按金额计价的市价买单。失败只记录日志，不向上
// 传递，保证调度循环不会因单轮下单失败而中断。
func (r *Runner) submitOrder(ctx context.Context) {
	order, err := r.broker.SubmitOrder(ctx, broker.OrderRequest{
		Symbol:      r.cfg.Symbol,
		Notional:    r.amount,
		Side:        broker.SideBuy,
		TimeInForce: broker.TimeInForce(r.cfg.TimeInForce),
	})
	if err != nil {
		r.logger.Error("提交订单失败",
			zap.String("symbol", r.cfg.Symbol),
			zap.Error(err),
		)
		monitor.OrderFailures.WithLabelValues(r.cfg.Symbol).Inc()
		return
	}

	r.logger.Info("订单提交成功",
		zap.String("order_id", order.ID),
		zap.String("symbol", order.Symbol),
		zap.String("amount", r.amount.StringFixed(2)),
	)
	monitor.OrdersSubmitted.WithLabelValues(r.cfg.Symbol).Inc()
}
