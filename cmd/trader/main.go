package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"dca-trader/internal/app"
	"dca-trader/internal/broker"
	"dca-trader/internal/config"
	"dca-trader/internal/log"
	"dca-trader/internal/strategy"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "配置文件路径，默认使用 configs/config.yaml")
	flag.Parse()

	// .env 不存在时忽略，与直接导出环境变量等价
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := log.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	if !cfg.Alpaca.IsPaper() {
		logger.Warn("IS_PAPER 未设置为 true，将以实盘模式交易",
			zap.String("is_paper", cfg.Alpaca.Paper),
		)
	}

	client := broker.NewAlpacaClient(cfg.Alpaca, logger)
	runner := strategy.NewRunner(client, cfg.Strategy, logger)
	dcaApp := app.New(cfg, logger, runner)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := dcaApp.Run(ctx); err != nil {
		logger.Error("系统运行异常", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("系统已安全退出")
}
