package broker

import (
	"context"
	"fmt"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"go.uber.org/zap"

	"dca-trader/internal/config"
)

const (
	paperBaseURL = "https://paper-api.alpaca.markets"
	liveBaseURL  = "https://api.alpaca.markets"
)

// AlpacaClient 基于 Alpaca 官方 SDK 实现 Client。
// 所有调用均为同步阻塞，失败不重试，由上层决定如何处理。
type AlpacaClient struct {
	api    *alpaca.Client
	logger *zap.Logger
}

var _ Client = (*AlpacaClient)(nil)

// NewAlpacaClient 构造 Alpaca 客户端，base_url 未显式配置时按
// paper 标志选择模拟盘或实盘接入点。
func NewAlpacaClient(cfg config.AlpacaConfig, logger *zap.Logger) *AlpacaClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	api := alpaca.NewClient(alpaca.ClientOpts{
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
		BaseURL:   resolveBaseURL(cfg),
	})

	return &AlpacaClient{
		api:    api,
		logger: logger,
	}
}

func resolveBaseURL(cfg config.AlpacaConfig) string {
	if cfg.BaseURL != "" {
		return cfg.BaseURL
	}
	if cfg.IsPaper() {
		return paperBaseURL
	}
	return liveBaseURL
}

// GetClock 拉取市场时钟。
func (c *AlpacaClient) GetClock(ctx context.Context) (Clock, error) {
	if err := ctx.Err(); err != nil {
		return Clock{}, err
	}

	clock, err := c.api.GetClock()
	if err != nil {
		return Clock{}, fmt.Errorf("获取市场时钟失败: %w", err)
	}

	return Clock{
		Timestamp: clock.Timestamp,
		IsOpen:    clock.IsOpen,
		NextOpen:  clock.NextOpen,
		NextClose: clock.NextClose,
	}, nil
}

// GetAccount 拉取账户资金快照。
func (c *AlpacaClient) GetAccount(ctx context.Context) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}

	account, err := c.api.GetAccount()
	if err != nil {
		return Account{}, fmt.Errorf("获取账户信息失败: %w", err)
	}

	return Account{
		ID:             account.ID,
		Cash:           account.Cash,
		PortfolioValue: account.PortfolioValue,
	}, nil
}

// SubmitOrder 提交按金额计价的市价委托。
func (c *AlpacaClient) SubmitOrder(ctx context.Context, req OrderRequest) (Order, error) {
	if err := ctx.Err(); err != nil {
		return Order{}, err
	}

	notional := req.Notional
	placed, err := c.api.PlaceOrder(alpaca.PlaceOrderRequest{
		Symbol:      req.Symbol,
		Notional:    &notional,
		Side:        alpaca.Side(req.Side),
		Type:        alpaca.Market,
		TimeInForce: alpaca.TimeInForce(req.TimeInForce),
	})
	if err != nil {
		return Order{}, fmt.Errorf("提交订单失败: %w", err)
	}

	c.logger.Debug("券商已受理订单",
		zap.String("order_id", placed.ID),
		zap.String("symbol", placed.Symbol),
		zap.String("status", string(placed.Status)),
	)

	return Order{
		ID:          placed.ID,
		Symbol:      placed.Symbol,
		Status:      string(placed.Status),
		SubmittedAt: placed.SubmittedAt,
	}, nil
}
