// Package config reads the service configuration from etc/main.toml,
// environment variables and an optional JSON override.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. AUTHDESK_WEBSERVER_PORT.
	EnvPrefix = "AUTHDESK"

	// EnvConfigJSON holds a JSON document merged over the file configuration.
	EnvConfigJSON = "AUTHDESK_CONFIG_JSON"

	defaultShutDownTime   = 5
	defaultPageTitle      = "authdesk"
	defaultSessionExpiry  = 24 * time.Hour
	defaultRequestTimeout = 10 * time.Second

	masked = "******"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var c Config

	if path == "" {
		path = "./etc/"
	}

	// a missing .env is fine, it only feeds the environment
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("main")
	v.SetConfigType("toml")
	v.AddConfigPath(path)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// provider credentials keep their conventional names
	for key, env := range map[string]string{
		"pusher.appid":     "PUSHER_APP_ID",
		"pusher.appkey":    "PUSHER_APP_KEY",
		"pusher.appsecret": "PUSHER_APP_SECRET",
		"pusher.cluster":   "PUSHER_APP_CLUSTER",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, errors.Wrapf(err, "failed to bind %s", env)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	// override it from env
	if configJSON := os.Getenv(EnvConfigJSON); configJSON != "" {
		var err error
		if c, err = decodeAndMergeConfig(c, configJSON); err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	if err := json.Unmarshal([]byte(configAsJSON), &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read json config override")
	}

	return c, nil
}

// DumpConfigJSON config as JSON String. Secrets are masked.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer

	out := *c
	if out.DB.Password != "" {
		out.DB.Password = masked
	}

	if out.Pusher.AppSecret != "" {
		out.Pusher.AppSecret = masked
	}

	if out.Session.Redis.Password != "" {
		out.Session.Redis.Password = masked
	}

	if out.Seed.AdminPassword != "" {
		out.Seed.AdminPassword = masked
	}

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(out); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate minimal config settings and fill defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	switch c.DB.Engine {
	case "":
		c.DB.Engine = EngineSQLite
	case EngineMySQL, EnginePostgres, EngineSQLite:
	default:
		return errors.Wrap(ErrUnknownDBEngine, invalidErrMessage)
	}

	switch c.Session.Storage {
	case "":
		c.Session.Storage = "memory"
	case "memory", "mysql", "postgres", "redis":
	default:
		return errors.Wrap(ErrUnknownSessionStorage, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.RequestTimeout == 0 {
		c.Webserver.RequestTimeout = defaultRequestTimeout
	}

	if c.Session.ExpiryTime == 0 {
		c.Session.ExpiryTime = defaultSessionExpiry
	}

	if c.Title == "" {
		c.Title = defaultPageTitle
	}

	return nil
}
