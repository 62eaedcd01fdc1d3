// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// EnvConfigJSON names the environment variable holding a JSON config override.
const EnvConfigJSON = "HR_PORTAL_CONFIG_JSON"

const (
	defaultShutDownTime   = 5
	defaultSessionExpiry  = 24 * time.Hour
	defaultCookieName     = "hr_session"
	defaultKeyPrefix      = "hr-portal:session:"
	defaultBackendTimeout = 10 * time.Second
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	err = validate(&c)

	return c, err
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode json config override")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the service can not start without
// and fills defaults for the optional ones.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Session.ExpiryTime == 0 {
		c.Session.ExpiryTime = defaultSessionExpiry
	}

	if c.Session.CookieName == "" {
		c.Session.CookieName = defaultCookieName
	}

	if c.Session.KeyPrefix == "" {
		c.Session.KeyPrefix = defaultKeyPrefix
	}

	switch c.Session.Storage.Driver {
	case "":
		c.Session.Storage.Driver = "memory"
	case "memory", "redis", "mysql", "postgres":
	default:
		return errors.Wrap(ErrUnknownSessionDriver, invalidErrMessage)
	}

	switch c.Backend.Mode {
	case "":
		c.Backend.Mode = "local"
	case "local":
	case "http":
		if c.Backend.BaseURL == "" {
			return errors.Wrap(ErrEmptyBackendURL, invalidErrMessage)
		}
	default:
		return errors.Wrap(ErrUnknownBackendMode, invalidErrMessage)
	}

	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = defaultBackendTimeout
	}

	return nil
}
