// Package cli implements the obsctl command surface. Each command maps
// onto one resource router action; the routers own validation and
// formatting, the CLI owns flags and session setup.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/obsctl/obsctl/internal/bridge"
	"github.com/obsctl/obsctl/internal/config"
	"github.com/obsctl/obsctl/internal/obsws"
	"github.com/obsctl/obsctl/internal/router"
)

// Version is set at build time.
var Version = "dev"

// Debug enables verbose debug output.
var Debug bool

// NoColor disables color output.
var NoColor bool

// Connection flags, resolved against environment by loadSettings.
var (
	flagHost     string
	flagPort     int
	flagPassword string
	flagTimeout  int
)

var rootCmd = &cobra.Command{
	Use:           "obsctl",
	Short:         "Remote control for OBS Studio",
	Long:          "obsctl remote-controls a running OBS Studio instance over the obs-websocket protocol: recording, streaming, scenes, sources, audio, and media capture.",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagHost, "host", "", "OBS host (default "+config.DefaultHost+", env "+config.EnvHost+")")
	pf.IntVar(&flagPort, "port", 0, "obs-websocket port (default 4455, env "+config.EnvPort+")")
	pf.StringVar(&flagPassword, "password", "", "obs-websocket password (env "+config.EnvPassword+")")
	pf.IntVar(&flagTimeout, "timeout", 0, "Connect timeout in seconds (default 10, env "+config.EnvTimeout+")")
	pf.BoolVar(&Debug, "debug", false, "Enable verbose debug output")
	pf.BoolVar(&NoColor, "no-color", false, "Disable color output")
	rootCmd.SetVersionTemplate("obsctl version {{.Version}}\n")
}

// debugf logs a debug message if debug mode is enabled.
func debugf(format string, args ...any) {
	if Debug {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadSettings resolves connection settings from flags and environment.
func loadSettings() config.Settings {
	return config.Load(config.Overrides{
		Host:     flagHost,
		Port:     flagPort,
		Password: flagPassword,
		Timeout:  time.Duration(flagTimeout) * time.Second,
	})
}

// session bundles the bridge stack behind one connected Session.
type session struct {
	manager  *bridge.Manager
	registry *router.Registry
}

// newRegistry assembles the seven resource routers over a bridge stack.
func newRegistry(m *bridge.Manager, settings config.Settings) *router.Registry {
	b := bridge.NewBridge(m)

	reg := router.NewRegistry()
	reg.Add(router.NewConnection(m, b, router.ConnectDefaults{
		Host:     settings.Host,
		Port:     settings.Port,
		Password: settings.Password,
		Timeout:  settings.Timeout,
	}))
	reg.Add(router.NewRecording(b, bridge.NewWorkflow(b)))
	reg.Add(router.NewStreaming(b))
	reg.Add(router.NewScene(b))
	reg.Add(router.NewSource(b))
	reg.Add(router.NewAudio(b))
	reg.Add(router.NewMedia(b))
	return reg
}

// openSession connects to OBS with the resolved settings and returns the
// router registry plus a teardown func.
func openSession() (*session, func(), error) {
	settings := loadSettings()
	debugf("connecting to %s:%d (timeout %s)", settings.Host, settings.Port, settings.Timeout)

	m := bridge.NewManager()
	if err := m.Connect(settings.Host, settings.Port, settings.Password, settings.Timeout); err != nil {
		return nil, nil, err
	}

	if Debug {
		traceEvents(m)
	}

	s := &session{manager: m, registry: newRegistry(m, settings)}
	return s, m.Disconnect, nil
}

// traceEvents logs state-change events OBS pushes during the session.
// Handlers run on the client's read loop and must not block.
func traceEvents(m *bridge.Manager) {
	c, err := m.Client()
	if err != nil {
		return
	}
	for _, eventType := range []string{
		"RecordStateChanged",
		"StreamStateChanged",
		"CurrentProgramSceneChanged",
		"InputMuteStateChanged",
	} {
		c.Subscribe(eventType, func(e obsws.Event) {
			debugf("event %s: %s", e.Type, string(e.Data))
		})
	}
}

// runAction connects, dispatches one action, prints its text, and
// disconnects. Results beginning with the failure marker exit non-zero.
func runAction(resource, action string, params map[string]any) error {
	s, teardown, err := openSession()
	if err != nil {
		return outputError(err.Error())
	}
	defer teardown()

	text := s.registry.Dispatch(context.Background(), resource, action, params)
	return outputResult(text)
}

// outputResult prints a dispatch result, routing failures to stderr.
func outputResult(text string) error {
	if strings.HasPrefix(text, "Error: ") {
		msg := strings.TrimPrefix(text, "Error: ")
		return outputError(msg)
	}
	fmt.Fprintln(os.Stdout, text)
	return nil
}

// printedError marks an error that has already been reported to stderr,
// so main only sets the exit code.
type printedError struct{ msg string }

func (e *printedError) Error() string { return e.msg }

// IsPrintedError reports whether the error was already printed by a
// command handler.
func IsPrintedError(err error) bool {
	var pe *printedError
	return errors.As(err, &pe)
}

// outputError writes an error response to stderr and returns an error.
func outputError(msg string) error {
	if shouldUseColor() {
		color.New(color.FgRed).Fprint(os.Stderr, "Error:")
		fmt.Fprintf(os.Stderr, " %s\n", msg)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	return &printedError{msg: msg}
}

// shouldUseColor determines if color output should be used.
func shouldUseColor() bool {
	if NoColor {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}
