package monitor

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 跳过原因标签值。
const (
	ReasonMarketClosed     = "market_closed"
	ReasonInsufficientCash = "insufficient_cash"
)

var (
	// CyclesTotal 统计调度器触发的定投轮次。
	CyclesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "dca_cycles_total", Help: "Count of DCA cycles executed"},
	)
	// CyclesSkipped 统计因闸门拦截而跳过的轮次。
	CyclesSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "dca_cycles_skipped_total", Help: "Cycles skipped by gate checks"},
		[]string{"reason"},
	)
	// OrdersSubmitted 统计成功提交的订单。
	OrdersSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "dca_orders_submitted_total", Help: "Orders accepted by the broker"},
		[]string{"symbol"},
	)
	// OrderFailures 统计提交失败的订单。
	OrderFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "dca_order_failures_total", Help: "Order submissions rejected or failed"},
		[]string{"symbol"},
	)
)

func init() {
	prometheus.MustRegister(CyclesTotal, CyclesSkipped, OrdersSubmitted, OrderFailures)
}

// Handler 返回 /metrics 的 HTTP 处理器。
func Handler() http.Handler {
	return promhttp.Handler()
}
