package obsws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
)

// DefaultTimeout is the default timeout for obs-websocket requests.
const DefaultTimeout = 30 * time.Second

// Options configures a Client.
type Options struct {
	// Password is used to answer the server's authentication challenge.
	// Ignored when the server does not require authentication.
	Password string

	// EventSubscriptions is the event intent bitmask sent in Identify.
	// Zero means SubAll.
	EventSubscriptions int

	// OnIdentified is called once, from the read loop, when the server
	// confirms the handshake with an Identified message.
	OnIdentified func()

	// OnClosed is called once, from the read loop, when the connection
	// fails or is closed by the server. It is not called on a deliberate
	// Close() by the client.
	OnClosed func(err error)
}

// Client is an obs-websocket v5 protocol client.
//
// The client drives the Hello/Identify handshake inside its read loop;
// requests are rejected until the server confirms with Identified.
type Client struct {
	conn    Conn
	opts    Options
	writeMu sync.Mutex
	reqID   atomic.Int64

	// pending maps request IDs to response channels
	pending   sync.Map // map[string]chan *responsePayload
	listeners sync.Map // map[string]*eventHandlers

	identified atomic.Bool

	// closed signals that the client is shutting down
	closed   atomic.Bool
	closedCh chan struct{}
	closeErr error
	closeMu  sync.Mutex

	// done signals that the read loop has exited
	done chan struct{}
}

// NewClient creates a new client over an established connection and
// starts its read loop. The server is expected to send Hello first.
func NewClient(conn Conn, opts Options) *Client {
	if opts.EventSubscriptions == 0 {
		opts.EventSubscriptions = SubAll
	}
	c := &Client{
		conn:     conn,
		opts:     opts,
		closedCh: make(chan struct{}),
		done:     make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// Dial connects to an obs-websocket endpoint and returns a new client.
// The handshake completes asynchronously; observe it via Options.OnIdentified
// and Options.OnClosed.
func Dial(ctx context.Context, wsURL string, opts Options) (*Client, error) {
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to obs-websocket endpoint: %w", err)
	}
	return NewClient(conn, opts), nil
}

// Identified reports whether the handshake has completed.
func (c *Client) Identified() bool {
	return c.identified.Load()
}

// Send issues a request and waits for the matching response.
// Returns the responseData payload, or a *RequestError if OBS rejected
// the request.
func (c *Client) Send(ctx context.Context, requestType string, requestData any) (json.RawMessage, error) {
	if c.closed.Load() {
		return nil, errors.New("client is closed")
	}
	if !c.identified.Load() {
		return nil, errors.New("client is not identified yet")
	}

	id := strconv.FormatInt(c.reqID.Add(1), 10)
	req := envelopeOut{
		Op: opRequest,
		D: requestPayload{
			RequestType: requestType,
			RequestID:   id,
			RequestData: requestData,
		},
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Create response channel before sending
	respCh := make(chan *responsePayload, 1)
	c.pending.Store(id, respCh)
	defer c.pending.Delete(id)

	if err := c.write(ctx, data); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	// Wait for response
	select {
	case resp := <-respCh:
		if !resp.RequestStatus.Result {
			return nil, &RequestError{
				RequestType: requestType,
				Code:        resp.RequestStatus.Code,
				Comment:     resp.RequestStatus.Comment,
			}
		}
		return resp.ResponseData, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("request timed out: %w", ctx.Err())
	case <-c.closedCh:
		return nil, errors.New("client closed while waiting for response")
	}
}

// Subscribe registers a handler for events of the given type.
// Multiple handlers can be registered for the same type. Handlers run on
// the read loop goroutine and must not block.
func (c *Client) Subscribe(eventType string, handler func(Event)) {
	actual, _ := c.listeners.LoadOrStore(eventType, &eventHandlers{})
	actual.(*eventHandlers).add(handler)
}

// Close closes the client connection and stops the read loop.
// It returns once the read loop has exited, guaranteeing that no
// callback or event handler fires afterward.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil // Already closed
	}

	close(c.closedCh)

	c.closeMu.Lock()
	err := c.conn.Close(websocket.StatusNormalClosure, "client closing")
	c.closeMu.Unlock()

	// Wait for read loop to exit
	<-c.done

	return err
}

// Err returns any error that caused the client to close.
func (c *Client) Err() error {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	return c.closeErr
}

// envelopeOut is the outbound frame shape. Unlike envelope, the payload is
// marshaled from a typed value rather than kept raw.
type envelopeOut struct {
	Op int `json:"op"`
	D  any `json:"d"`
}

func (c *Client) write(ctx context.Context, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.Write(ctx, websocket.MessageText, data)
}

// readLoop reads messages from the connection and dispatches them.
// It also answers the server's Hello to complete the handshake.
func (c *Client) readLoop() {
	defer close(c.done)

	ctx := context.Background()
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			c.shutdown(err)
			return
		}

		env, err := parseEnvelope(data)
		if err != nil {
			continue // Skip malformed messages
		}

		switch env.Op {
		case opHello:
			if err := c.handleHello(env.D); err != nil {
				c.shutdown(err)
				return
			}
		case opIdentified:
			c.identified.Store(true)
			if c.opts.OnIdentified != nil {
				c.opts.OnIdentified()
			}
		case opRequestResponse:
			var resp responsePayload
			if err := json.Unmarshal(env.D, &resp); err != nil {
				continue
			}
			c.dispatchResponse(&resp)
		case opEvent:
			var evt Event
			if err := json.Unmarshal(env.D, &evt); err != nil {
				continue
			}
			c.dispatchEvent(evt)
		}
	}
}

// shutdown records the read loop error and fires OnClosed, unless the
// close was deliberate.
func (c *Client) shutdown(err error) {
	if c.closed.Swap(true) {
		return
	}
	c.closeMu.Lock()
	c.closeErr = err
	c.closeMu.Unlock()
	close(c.closedCh)
	if c.opts.OnClosed != nil {
		c.opts.OnClosed(err)
	}
}

// handleHello answers the server Hello with an Identify message,
// solving the authentication challenge when one is present.
func (c *Client) handleHello(d json.RawMessage) error {
	var hello helloData
	if err := json.Unmarshal(d, &hello); err != nil {
		return fmt.Errorf("failed to parse hello: %w", err)
	}

	identify := identifyData{
		RPCVersion:         rpcVersion,
		EventSubscriptions: c.opts.EventSubscriptions,
	}
	if hello.Authentication != nil {
		identify.Authentication = authResponse(
			c.opts.Password, hello.Authentication.Salt, hello.Authentication.Challenge)
	}

	data, err := json.Marshal(envelopeOut{Op: opIdentify, D: identify})
	if err != nil {
		return fmt.Errorf("failed to marshal identify: %w", err)
	}
	if err := c.write(context.Background(), data); err != nil {
		return fmt.Errorf("failed to send identify: %w", err)
	}
	return nil
}

// dispatchResponse sends a response to the waiting caller.
func (c *Client) dispatchResponse(resp *responsePayload) {
	if ch, ok := c.pending.Load(resp.RequestID); ok {
		respCh := ch.(chan *responsePayload)
		select {
		case respCh <- resp:
		default:
			// Channel full, response dropped
		}
	}
}

// dispatchEvent calls all registered handlers for an event.
func (c *Client) dispatchEvent(evt Event) {
	if actual, ok := c.listeners.Load(evt.Type); ok {
		actual.(*eventHandlers).call(evt)
	}
}

// eventHandlers manages a thread-safe list of event handlers.
type eventHandlers struct {
	mu       sync.RWMutex
	handlers []func(Event)
}

func (h *eventHandlers) add(handler func(Event)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers = append(h.handlers, handler)
}

func (h *eventHandlers) call(evt Event) {
	h.mu.RLock()
	handlers := h.handlers
	h.mu.RUnlock()

	for _, handler := range handlers {
		handler(evt)
	}
}
