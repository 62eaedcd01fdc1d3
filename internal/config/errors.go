package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownSessionDriver error if session.storage.driver is not supported.
	ErrUnknownSessionDriver = errors.New("toml config session.storage.driver must be memory, redis, mysql or postgres")

	// ErrUnknownBackendMode error if backend.mode is not supported.
	ErrUnknownBackendMode = errors.New("toml config backend.mode must be local or http")

	// ErrEmptyBackendURL error if backend.mode is http without a base url.
	ErrEmptyBackendURL = errors.New("toml config backend.baseurl can not be empty in http mode")
)
