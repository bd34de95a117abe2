package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
)

// Config 聚合了系统运行所需的全部配置项。
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Alpaca    AlpacaConfig    `mapstructure:"alpaca"`
	Strategy  StrategyConfig  `mapstructure:"strategy"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Monitor   MonitorConfig   `mapstructure:"monitor"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// AppConfig 控制应用级参数。
type AppConfig struct {
	Environment string `mapstructure:"environment"`
}

// AlpacaConfig 描述券商连接信息。
// Paper 保留环境变量的原始字符串：只有（忽略大小写的）"true" 才启用
// 模拟盘，其余任何取值都会落到实盘，调用方需要对此显式告警。
type AlpacaConfig struct {
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
	Paper     string `mapstructure:"paper"`
	BaseURL   string `mapstructure:"base_url"`
}

// IsPaper 返回是否处于模拟盘模式。
func (c AlpacaConfig) IsPaper() bool {
	return strings.EqualFold(c.Paper, "true")
}

// StrategyConfig 描述定投标的与金额。
type StrategyConfig struct {
	Symbol      string  `mapstructure:"symbol"`
	DailyAmount float64 `mapstructure:"daily_amount"`
	TimeInForce string  `mapstructure:"time_in_force"`
}

// SchedulerConfig 控制每日触发时刻与轮询节奏。
type SchedulerConfig struct {
	DailyAt      string        `mapstructure:"daily_at"`
	Timezone     string        `mapstructure:"timezone"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// MonitorConfig 控制监控接口。
type MonitorConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// LoggingConfig 控制日志输出。
type LoggingConfig struct {
	Level            string   `mapstructure:"level"`
	Encoding         string   `mapstructure:"encoding"`
	Development      bool     `mapstructure:"development"`
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// ParseDailyTime 解析 "HH:MM" 形式的每日触发时刻。
func ParseDailyTime(value string) (hour, minute int, err error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("触发时刻 %q 不符合 HH:MM 格式", value)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("触发时刻 %q 的小时无效", value)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("触发时刻 %q 的分钟无效", value)
	}
	return hour, minute, nil
}

// Location 按配置解析时区，空值与 "Local" 均指本地时区。
func (c SchedulerConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "Local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("解析时区 %q 失败: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate 对配置进行基本校验。
func (c *Config) Validate() error {
	var err error

	if c.App.Environment == "" {
		err = multierr.Append(err, errors.New("app.environment 不能为空"))
	}
	if c.Alpaca.APIKey == "" {
		err = multierr.Append(err, errors.New("缺少 ALPACA_API_KEY"))
	}
	if c.Alpaca.APISecret == "" {
		err = multierr.Append(err, errors.New("缺少 ALPACA_API_SECRET"))
	}
	if c.Strategy.Symbol == "" {
		err = multierr.Append(err, errors.New("strategy.symbol 不能为空"))
	}
	if c.Strategy.DailyAmount <= 0 {
		err = multierr.Append(err, errors.New("strategy.daily_amount 必须大于0"))
	}
	if c.Strategy.TimeInForce == "" {
		err = multierr.Append(err, errors.New("strategy.time_in_force 不能为空"))
	}
	if _, _, parseErr := ParseDailyTime(c.Scheduler.DailyAt); parseErr != nil {
		err = multierr.Append(err, parseErr)
	}
	if _, locErr := c.Scheduler.Location(); locErr != nil {
		err = multierr.Append(err, locErr)
	}
	if c.Scheduler.PollInterval <= 0 {
		err = multierr.Append(err, errors.New("scheduler.poll_interval 必须大于0"))
	}
	if c.Monitor.Enabled && (c.Monitor.Port <= 0 || c.Monitor.Port > 65535) {
		err = multierr.Append(err, errors.New("monitor.port 必须位于[1,65535]"))
	}
	if c.Logging.Level == "" {
		err = multierr.Append(err, errors.New("logging.level 不能为空"))
	}
	if c.Logging.Encoding == "" {
		err = multierr.Append(err, errors.New("logging.encoding 不能为空"))
	}
	if len(c.Logging.OutputPaths) == 0 {
		err = multierr.Append(err, errors.New("logging.output_paths 至少包含一个输出目标"))
	}
	if len(c.Logging.ErrorOutputPaths) == 0 {
		err = multierr.Append(err, errors.New("logging.error_output_paths 至少包含一个输出目标"))
	}

	if err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}

	return nil
}
