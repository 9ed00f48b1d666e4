package cmd

import (
	"os"
	"strings"
	"time"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/notify"
	"dispatch/internal/adapters/out/payment"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/redis"
	"dispatch/internal/jobs"
	"dispatch/internal/logger"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// EnvPrefix marks the environment variables that override the config file.
// DISPATCH_POSTGRES_HOST sets postgres.host.
const EnvPrefix = "DISPATCH_"

const defaultConfigPath = "config/config.yaml"

type Config struct {
	HTTP     httpin.Config   `koanf:"http"`
	Postgres postgres.Config `koanf:"postgres"`
	Logger   logger.Config   `koanf:"logger"`
	Payment  payment.Config  `koanf:"payment"`
	Notify   notify.Config   `koanf:"notify"`
	Redis    redis.Config    `koanf:"redis"`
	Jobs     jobs.Config     `koanf:"jobs"`
	Timings  Timings         `koanf:"timings"`
	Migrate  bool            `koanf:"migrate"`
}

// Timings are the fallbacks used when the matching setting is not stored.
type Timings struct {
	Prep           time.Duration `koanf:"prep"`
	DeliveryWindow time.Duration `koanf:"deliveryWindow"`
}

// LoadConfig reads .env if present, then the YAML file at DISPATCH_CONFIG (or
// config/config.yaml), then environment overrides.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, errors.Wrap(err, "load .env")
	}

	path := os.Getenv(EnvPrefix + "CONFIG")
	if path == "" {
		path = defaultConfigPath
	}
	return LoadConfigFile(path)
}

func LoadConfigFile(path string) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}

	known := make(map[string]string, len(k.Keys()))
	for _, key := range k.Keys() {
		known[strings.ToLower(key)] = key
	}
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return envKey(key, known), value
		},
	}), nil); err != nil {
		return Config{}, errors.Wrap(err, "load environment overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "unmarshal config %s", path)
	}
	return cfg, nil
}

// envKey maps DISPATCH_JOBS_ABANDONEDCART_MAXAGE onto the file's jobs.abandonedCart.maxAge
// so both sources land on the same key.
func envKey(raw string, known map[string]string) string {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(raw, EnvPrefix), "_", "."))
	if canonical, ok := known[key]; ok {
		return canonical
	}
	return key
}
