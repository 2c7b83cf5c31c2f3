package container

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	ClickModeDirect = "direct"
	ClickModeStream = "stream"
)

var (
	ErrUnknownStore       = errors.New("unknown store")
	ErrMissingDatabaseURL = errors.New("postgres store requires a database url")
	ErrStreamDependencies = errors.New("stream click mode requires redis and the postgres store")
)

// Options is the CLI and environment configuration. Every field is also read
// from SERVICE_<NAME> environment variables.
type Options struct {
	Port        int    `default:"9000"                  help:"Port to listen on"                                     short:"p" validate:"min=1,max=65535"`
	BaseURL     string `default:"http://localhost:9000" help:"Public base URL of short links"                                 validate:"required,url"`
	Environment string `default:"development"           help:"Deployment environment (development, production, test)"         validate:"oneof=development production test"`
	LogFormat   string `default:"console"               help:"Log encoding (console, json)"                                   validate:"oneof=console json"`
	LogLevel    string `default:"info"                  help:"Minimum log level"                                              validate:"oneof=debug info warn error"`
	Store       string `default:"memory"                help:"Storage backend (memory, postgres)"                             validate:"oneof=memory postgres"`
	DatabaseURL string `default:""                      help:"PostgreSQL connection string"                          short:"d"`
	RedisAddr   string `default:""                      help:"Redis address, empty disables caching and streams"     short:"r" validate:"omitempty,hostname_port"`
	CacheTTL    string `default:"1h"                    help:"Lifetime of cached redirects"                                   validate:"required"`
	ClickMode   string `default:"direct"                help:"Click counting (direct, stream)"                                validate:"oneof=direct stream"`
	JWTSecret   string `default:""                      help:"Secret used to sign session tokens"                             validate:"required,min=16"`
	TokenTTL    string `default:"168h"                  help:"Lifetime of session tokens"                                     validate:"required"`
	CookieTTL   string `default:"24h"                   help:"Lifetime of the session cookie"                                 validate:"required"`
	BcryptCost  int    `default:"10"                    help:"bcrypt cost factor"                                             validate:"min=4,max=31"`
	ClientURL   string `default:"http://localhost:5173" help:"Origin of the browser client allowed by CORS"                   validate:"required,url"`
	CodeLength  int    `default:"8"                     help:"Length of generated short codes"                       short:"c" validate:"min=4,max=20"`
}

// Durations holds the parsed duration options.
type Durations struct {
	CacheTTL  time.Duration
	TokenTTL  time.Duration
	CookieTTL time.Duration
}

// Validate checks the options and parses their durations.
func (o *Options) Validate() (Durations, error) {
	if err := validator.New().Struct(o); err != nil {
		return Durations{}, fmt.Errorf("invalid options: %w", err)
	}

	if o.Store == StorePostgres && o.DatabaseURL == "" {
		return Durations{}, ErrMissingDatabaseURL
	}

	if o.ClickMode == ClickModeStream && (o.RedisAddr == "" || o.Store != StorePostgres) {
		return Durations{}, ErrStreamDependencies
	}

	var (
		d   Durations
		err error
	)

	for _, field := range []struct {
		name  string
		value string
		dest  *time.Duration
	}{
		{"cache-ttl", o.CacheTTL, &d.CacheTTL},
		{"token-ttl", o.TokenTTL, &d.TokenTTL},
		{"cookie-ttl", o.CookieTTL, &d.CookieTTL},
	} {
		if *field.dest, err = time.ParseDuration(field.value); err != nil {
			return Durations{}, fmt.Errorf("invalid %s: %w", field.name, err)
		}

		if *field.dest <= 0 {
			return Durations{}, fmt.Errorf("invalid %s: must be positive", field.name)
		}
	}

	return d, nil
}

// ValidateConsumer checks the options of the click consumer, which always reads
// the Redis stream and writes counts to PostgreSQL.
func (o *Options) ValidateConsumer() (Durations, error) {
	d, err := o.Validate()
	if err != nil {
		return Durations{}, err
	}

	if o.RedisAddr == "" || o.Store != StorePostgres {
		return Durations{}, ErrStreamDependencies
	}

	return d, nil
}
