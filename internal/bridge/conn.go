package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/obsctl/obsctl/internal/obsws"
)

// DefaultConnectTimeout bounds a Connect attempt when the caller passes no
// explicit timeout.
const DefaultConnectTimeout = 10 * time.Second

// State represents the lifecycle state of the managed Session.
type State int

const (
	// StateDisconnected indicates no live Session.
	StateDisconnected State = iota
	// StateConnecting indicates a Connect attempt in flight.
	StateConnecting
	// StateConnected indicates an identified, usable Session.
	StateConnected
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// session is the single live connection handle to OBS. gen identifies the
// connect attempt that produced it, so a stale client's late close
// callback can be told apart from the live Session's.
type session struct {
	client  *obsws.Client
	address string
	gen     uint64
}

// connectResult is the outcome of a pending connect attempt. Whichever
// lifecycle event fires first writes it; the channel is buffered with
// capacity 1 and writes are non-blocking, so a late event is a no-op.
type connectResult struct {
	err error
}

// DialFunc establishes a protocol client for a connect attempt. Tests
// supply dialers that hand out scripted connections.
type DialFunc func(ctx context.Context, wsURL string, opts obsws.Options) (*obsws.Client, error)

// Manager owns the lifecycle of exactly one Session. All other components
// obtain the protocol client exclusively through the guarded Client
// accessor, never by holding a raw reference.
type Manager struct {
	// connectMu serializes Connect and Disconnect end to end, so a
	// concurrent Connect blocks until the winner's teardown and
	// handshake complete.
	connectMu sync.Mutex

	mu        sync.RWMutex
	state     State
	sess      *session
	lastError error
	gen       uint64 // incremented per connect attempt, under connectMu

	dial DialFunc
}

// NewManager creates a connection manager with no live Session.
func NewManager() *Manager {
	return NewManagerWithDial(obsws.Dial)
}

// NewManagerWithDial creates a connection manager that dials through the
// given function.
func NewManagerWithDial(dial DialFunc) *Manager {
	return &Manager{dial: dial}
}

// Connect establishes a Session to the given OBS instance, blocking until
// the handshake succeeds, fails, or the timeout elapses. An existing
// Session is fully torn down first. Failures are never retried; retry is
// an explicit re-Connect by the caller.
func (m *Manager) Connect(host string, port int, password string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	m.connectMu.Lock()
	defer m.connectMu.Unlock()

	// At most one live Session: tear down before dialing.
	m.teardown()

	address := fmt.Sprintf("%s:%d", host, port)
	m.setState(StateConnecting)

	// One-shot completion signal shared by both lifecycle callbacks.
	// First writer wins; the buffered non-blocking send makes any
	// later event from this attempt (or a stale one) harmless.
	pending := make(chan connectResult, 1)
	m.gen++
	gen := m.gen
	opts := obsws.Options{
		Password: password,
		OnIdentified: func() {
			select {
			case pending <- connectResult{}:
			default:
			}
		},
		OnClosed: func(err error) {
			select {
			case pending <- connectResult{err: err}:
			default:
			}
			m.sessionClosed(gen, err)
		},
	}

	dialCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := m.dial(dialCtx, "ws://"+address, opts)
	if err != nil {
		m.fail(err)
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s after %s", ErrConnectTimeout, address, timeout)
		}
		return protocolf("dial "+address, err)
	}

	select {
	case res := <-pending:
		if res.err != nil {
			client.Close()
			m.fail(res.err)
			return protocolf("connect "+address, res.err)
		}
	case <-time.After(timeout):
		client.Close()
		m.fail(context.DeadlineExceeded)
		return fmt.Errorf("%w: %s after %s", ErrConnectTimeout, address, timeout)
	}

	m.mu.Lock()
	m.sess = &session{client: client, address: address, gen: gen}
	m.state = StateConnected
	m.lastError = nil
	m.mu.Unlock()
	return nil
}

// Disconnect tears down the Session. Disconnecting while already
// disconnected is a no-op, never an error.
func (m *Manager) Disconnect() {
	m.connectMu.Lock()
	defer m.connectMu.Unlock()
	m.teardown()
}

// Client returns the live protocol client, or ErrNotConnected.
func (m *Manager) Client() (*obsws.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state != StateConnected || m.sess == nil {
		return nil, ErrNotConnected
	}
	return m.sess.client, nil
}

// IsConnected reports whether a usable Session exists.
func (m *Manager) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StateConnected && m.sess != nil
}

// State returns the current Session state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Address returns the target address of the live Session, or "" when
// disconnected.
func (m *Manager) Address() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.sess == nil {
		return ""
	}
	return m.sess.address
}

// LastError returns the error recorded by the most recent failure or
// remote disconnect, if any.
func (m *Manager) LastError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastError
}

// teardown closes and drops the current Session, if any. Close blocks
// until the client's read loop exits, so no subscription or callback can
// outlive the Session.
func (m *Manager) teardown() {
	m.mu.Lock()
	sess := m.sess
	m.sess = nil
	m.state = StateDisconnected
	m.mu.Unlock()

	if sess != nil {
		sess.client.Close()
	}
}

// sessionClosed handles a remote-initiated close. Only the current
// Session's connect attempt may transition the state; a stale client's
// late callback is ignored.
func (m *Manager) sessionClosed(gen uint64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil || m.sess.gen != gen {
		return
	}
	m.sess = nil
	m.state = StateDisconnected
	m.lastError = err
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

func (m *Manager) fail(err error) {
	m.mu.Lock()
	m.state = StateDisconnected
	m.lastError = err
	m.mu.Unlock()
}
