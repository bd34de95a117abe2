package broker

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Side 表示下单方向。
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// TimeInForce 表示订单有效期。
type TimeInForce string

const (
	// TimeInForceDay 表示订单仅在当日交易时段内有效。
	TimeInForceDay TimeInForce = "day"
	TimeInForceGTC TimeInForce = "gtc"
)

// Clock 为市场时钟快照，每次调用都从券商重新拉取。
type Clock struct {
	Timestamp time.Time
	IsOpen    bool
	NextOpen  time.Time
	NextClose time.Time
}

// Account 为账户资金快照。
type Account struct {
	ID             string
	Cash           decimal.Decimal
	PortfolioValue decimal.Decimal
}

// OrderRequest 描述一笔按金额计价的市价委托。
type OrderRequest struct {
	Symbol      string
	Notional    decimal.Decimal
	Side        Side
	TimeInForce TimeInForce
}

// Order 为券商返回的委托回执。
type Order struct {
	ID          string
	Symbol      string
	Status      string
	SubmittedAt time.Time
}

// Client 抽象券商接口，方便在测试中注入模拟实现。
type Client interface {
	GetClock(ctx context.Context) (Clock, error)
	GetAccount(ctx context.Context) (Account, error)
	SubmitOrder(ctx context.Context, req OrderRequest) (Order, error)
}
