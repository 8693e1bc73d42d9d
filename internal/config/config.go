// Package config resolves connection parameters for the OBS session.
// Precedence per parameter: explicit flag, then environment variable,
// then built-in default.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Environment variables read by Load.
const (
	EnvHost     = "OBS_WS_HOST"
	EnvPort     = "OBS_WS_PORT"
	EnvPassword = "OBS_WS_PASSWORD"
	EnvTimeout  = "OBS_WS_TIMEOUT"
)

// Built-in defaults. 4455 is the obs-websocket default port.
const (
	DefaultHost    = "localhost"
	DefaultPort    = 4455
	DefaultTimeout = 10 * time.Second
)

// Settings holds the resolved connection parameters.
type Settings struct {
	Host     string
	Port     int
	Password string
	Timeout  time.Duration
}

// Overrides carries explicit caller-supplied values. Zero values mean
// "not supplied" and fall through to environment or default.
type Overrides struct {
	Host     string
	Port     int
	Password string
	Timeout  time.Duration
}

// Load resolves settings from overrides, environment, and defaults.
func Load(o Overrides) Settings {
	v := viper.New()
	v.SetDefault("host", DefaultHost)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("password", "")
	v.SetDefault("timeout", int(DefaultTimeout/time.Second))

	// BindEnv only errors on an empty key list.
	_ = v.BindEnv("host", EnvHost)
	_ = v.BindEnv("port", EnvPort)
	_ = v.BindEnv("password", EnvPassword)
	_ = v.BindEnv("timeout", EnvTimeout)

	if o.Host != "" {
		v.Set("host", o.Host)
	}
	if o.Port != 0 {
		v.Set("port", o.Port)
	}
	if o.Password != "" {
		v.Set("password", o.Password)
	}
	if o.Timeout != 0 {
		v.Set("timeout", int(o.Timeout/time.Second))
	}

	s := Settings{
		Host:     v.GetString("host"),
		Port:     v.GetInt("port"),
		Password: v.GetString("password"),
		Timeout:  time.Duration(v.GetInt("timeout")) * time.Second,
	}
	if s.Port <= 0 {
		s.Port = DefaultPort
	}
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
	return s
}
