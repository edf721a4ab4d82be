// Package conf loads the process configuration from a YAML file plus
// BKN_-prefixed environment overrides.
package conf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/log"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/mail"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/metrics"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/pkg/xcache"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/server"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/server/biz"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/server/db"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/uploads"
)

type Config struct {
	APIServer server.Config `conf:"server" yaml:"server" json:"server"`
	DB        db.Config     `conf:"db" yaml:"db" json:"db"`
	Log       log.Config    `conf:"log" yaml:"log" json:"log"`

	Auth biz.AuthConfig `conf:"auth" yaml:"auth" json:"auth"`
	Mail mail.Config    `conf:"mail" yaml:"mail" json:"mail"`

	Uploads     uploads.Config `conf:"uploads" yaml:"uploads" json:"uploads"`
	TenantCache xcache.Config  `conf:"tenant_cache" yaml:"tenant_cache" json:"tenant_cache"`
	Metrics     metrics.Config `conf:"metrics" yaml:"metrics" json:"metrics"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "bestkitchennet")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.request_timeout", "60s")

	v.SetDefault("db.dialect", "sqlite")
	v.SetDefault("db.dsn", "bestkitchennet.db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("auth.token_ttl", "168h")
	v.SetDefault("auth.telecaller_token_ttl", "720h")
	v.SetDefault("auth.otp_ttl", "5m")

	v.SetDefault("tenant_cache.mode", xcache.ModeMemory)
}

// Load reads bestkitchennet.yml from the working directory or /etc, then
// applies env overrides. The env form flattens the YAML path with
// underscores, e.g. BKN_SERVER_PORT, BKN_DB_DSN, BKN_AUTH_SECRET_KEY.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("bestkitchennet")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./conf")
	v.AddConfigPath("/etc/bestkitchennet")

	v.SetEnvPrefix("BKN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config

	err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "conf"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Module provides the loaded config and unpacks the per-subsystem sections
// for injection.
var Module = fx.Module("conf",
	fx.Provide(Load),
	fx.Provide(
		func(c Config) server.Config { return c.APIServer },
		func(c Config) db.Config { return c.DB },
		func(c Config) log.Config { return c.Log },
		func(c Config) biz.AuthConfig { return c.Auth },
		func(c Config) mail.Config { return c.Mail },
		func(c Config) uploads.Config { return c.Uploads },
		func(c Config) xcache.Config { return c.TenantCache },
		func(c Config) metrics.Config { return c.Metrics },
	),
)
