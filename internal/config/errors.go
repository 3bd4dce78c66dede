package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("config webserver.port listening port can not be 0")

	// ErrUnknownDBEngine error if db.engine is not one of mysql, postgres, sqlite.
	ErrUnknownDBEngine = errors.New("config db.engine must be mysql, postgres or sqlite")

	// ErrUnknownSessionStorage error if session.storage is not supported.
	ErrUnknownSessionStorage = errors.New("config session.storage must be memory, mysql, postgres or redis")
)
