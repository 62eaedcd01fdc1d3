package config

import (
	"time"

	"github.com/inheritx/hr-portal/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode        bool // enable dev mode for development
	Title          string
	OrganizationID string // organization whose roles drive access decisions
	DB             DB
	Log            logger.Log
	Webserver      Webserver
	Session        Session
	Backend        Backend
	Seed           Seed
}

// Webserver implement webserver settings.
type Webserver struct {
	Domain       string // domain name for the webserver
	Port         int    // listening port for the webserver
	ShutDownTime int    // wait time for shutdown in seconds
	URL          string // base url for the webserver
}

// Session settings.
type Session struct {
	ExpiryTime time.Duration
	CookieName string         // cookie holding the client context id
	KeyPrefix  string         // storage key prefix, the fixed slot is KeyPrefix + client id
	Storage    SessionStorage // durable storage backend
}

// SessionStorage selects the durable storage holding serialized identities.
type SessionStorage struct {
	Driver    string // memory, redis, mysql or postgres
	RedisAddr string
	Table     string // table used by the sql drivers
}

// Backend selects how the role registry reaches the role/permission backend.
type Backend struct {
	Mode    string        // local = in-process store, http = remote api
	BaseURL string        // base url of the remote api, e.g. http://roles.internal/api
	Timeout time.Duration // per request timeout for the remote api
	Token   string        // bearer token; guards the served /api and is sent by the http client
}

// Seed controls the reference data written by the seed command.
type Seed struct {
	Credentials bool // seed demo credentials next to catalog and roles
}
