package config

import (
	"time"

	"github.com/authdesk/authdesk/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Title     string
	DB        DB
	Log       logger.Log
	Webserver Webserver
	Session   Session
	Pusher    Pusher
	Realtime  Realtime
	Events    Events
	Seed      Seed
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool          // disable recover middleware
	Port           int           // listening port for the webserver
	ShutDownTime   int           // seconds to return 503 on /checkalive before shutdown
	URL            string        // base url for the webserver
	RequestTimeout time.Duration // deadline applied to store and provider calls of one request
}

// Session settings.
type Session struct {
	ExpiryTime time.Duration
	Storage    string // memory, mysql, postgres or redis
	Table      string // table name for the sql storages
	Redis      Redis
}

// Redis holds the connection settings of the redis session storage.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Pusher holds the credentials of the realtime signing provider.
// They are normally injected with PUSHER_APP_ID, PUSHER_APP_KEY,
// PUSHER_APP_SECRET and PUSHER_APP_CLUSTER.
type Pusher struct {
	AppID     string
	AppKey    string
	AppSecret string
	Cluster   string
}

// Realtime configures the channel authorization bridge.
type Realtime struct {
	// ChannelPrefix, when set, must equal the scope part of "<scope>.<roomId>".
	ChannelPrefix string
	// PrivilegedUserTypes may join any existing room.
	PrivilegedUserTypes []string
}

// Events configures the optional authority lifecycle event publisher.
type Events struct {
	Enabled  bool
	URL      string // amqp url
	Exchange string
}

// Seed holds the initial data written by "migrate" and "start".
type Seed struct {
	AuthorityTypes []string
	AdminEmail     string
	AdminPassword  string
}
