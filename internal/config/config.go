package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	defaultConfigPath = "configs/config.yaml"
	envPrefix         = "dca"
)

// Load 读取配置文件并结合环境变量返回 Config。
// path 为空时使用默认路径；默认路径不存在不算错误，此时仅依赖默认值
// 与环境变量，保证程序可以在没有配置文件的环境下运行。
func Load(path string) (*Config, error) {
	v := viper.New()

	explicit := path != ""
	if path == "" {
		path = defaultConfigPath
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envPrefix)
	replacer := strings.NewReplacer(".", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()
	bindBrokerEnv(v)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		if !missing || explicit {
			return nil, fmt.Errorf("读取配置文件 %q 失败: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// bindBrokerEnv 把券商凭证绑定到约定俗成的环境变量名上，IS_PAPER
// 按原始字符串读取，解析交由 AlpacaConfig.IsPaper。
func bindBrokerEnv(v *viper.Viper) {
	_ = v.BindEnv("alpaca.api_key", "DCA_ALPACA_API_KEY", "ALPACA_API_KEY")
	_ = v.BindEnv("alpaca.api_secret", "DCA_ALPACA_API_SECRET", "ALPACA_API_SECRET")
	_ = v.BindEnv("alpaca.paper", "DCA_ALPACA_PAPER", "IS_PAPER")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.environment", "development")

	v.SetDefault("alpaca.paper", "true")
	v.SetDefault("alpaca.base_url", "")

	v.SetDefault("strategy.symbol", "SPY")
	v.SetDefault("strategy.daily_amount", 100.0)
	v.SetDefault("strategy.time_in_force", "day")

	v.SetDefault("scheduler.daily_at", "09:35")
	v.SetDefault("scheduler.timezone", "Local")
	v.SetDefault("scheduler.poll_interval", "60s")

	v.SetDefault("monitor.enabled", false)
	v.SetDefault("monitor.port", 9246)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.encoding", "console")
	v.SetDefault("logging.development", false)
	v.SetDefault("logging.output_paths", []string{"stdout", "dca_strategy.log"})
	v.SetDefault("logging.error_output_paths", []string{"stderr"})
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}
