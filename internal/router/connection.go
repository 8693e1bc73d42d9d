package router

import (
	"context"
	"fmt"
	"time"

	"github.com/obsctl/obsctl/internal/bridge"
)

// ConnectDefaults supplies connection parameters for connect actions that
// omit them. The caller resolves these from explicit arguments or
// environment, with explicit arguments taking precedence.
type ConnectDefaults struct {
	Host     string
	Port     int
	Password string
	Timeout  time.Duration
}

// NewConnection builds the connection resource router.
func NewConnection(m *bridge.Manager, b *bridge.Bridge, defaults ConnectDefaults) *Router {
	r := newRouter("connection")

	r.handle("connect", func(ctx context.Context, req Request) (string, error) {
		host, err := optStringParam(req, "host", defaults.Host)
		if err != nil {
			return "", err
		}
		port, err := optIntParam(req, "port", defaults.Port)
		if err != nil {
			return "", err
		}
		if port <= 0 || port > 65535 {
			return "", bridge.Validationf("port must be between 1 and 65535, got %d", port)
		}
		password, err := optStringParam(req, "password", defaults.Password)
		if err != nil {
			return "", err
		}
		timeoutSecs, err := optIntParam(req, "timeout", int(defaults.Timeout/time.Second))
		if err != nil {
			return "", err
		}
		if timeoutSecs < 0 {
			return "", bridge.Validationf("timeout must not be negative, got %d", timeoutSecs)
		}

		if err := m.Connect(host, port, password, time.Duration(timeoutSecs)*time.Second); err != nil {
			return "", err
		}

		// Version detail is decoration; the connect already succeeded.
		if v, err := b.Version(ctx); err == nil {
			return fmt.Sprintf("Connected to OBS %s (obs-websocket %s) at %s",
				v.ObsVersion, v.ObsWebSocketVersion, m.Address()), nil
		}
		return fmt.Sprintf("Connected to OBS at %s", m.Address()), nil
	})

	r.handle("disconnect", func(ctx context.Context, req Request) (string, error) {
		m.Disconnect()
		return "Disconnected from OBS", nil
	})

	r.handle("status", func(ctx context.Context, req Request) (string, error) {
		if m.IsConnected() {
			return fmt.Sprintf("Connected to OBS at %s", m.Address()), nil
		}
		if err := m.LastError(); err != nil {
			return fmt.Sprintf("Disconnected (last error: %v)", err), nil
		}
		return "Disconnected", nil
	})

	r.handle("version", func(ctx context.Context, req Request) (string, error) {
		v, err := b.Version(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("OBS %s on %s, obs-websocket %s (RPC %d)",
			v.ObsVersion, v.PlatformDescription, v.ObsWebSocketVersion, v.RPCVersion), nil
	})

	return r
}
