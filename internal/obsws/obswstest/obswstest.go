// Package obswstest provides a scripted fake obs-websocket server
// connection for tests of the packages built on the protocol client.
package obswstest

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/coder/websocket"
)

// Reply scripts one response for a request type.
type Reply struct {
	OK      bool
	Code    int
	Comment string
	Data    string // responseData JSON
}

// FakeConn plays the server side of the obs-websocket v5 protocol: it
// queues Hello on creation, answers Identify with Identified, and answers
// Requests from a per-type reply queue. Requests without a script succeed
// with an empty payload. The request types seen are recorded in arrival
// order.
type FakeConn struct {
	mu      sync.Mutex
	calls   []string
	replies map[string][]Reply
	readCh  chan []byte
	closed  bool
	closeCh chan struct{}

	silent bool
}

// New creates a fake connection whose handshake completes normally.
func New() *FakeConn {
	f := newConn()
	hello, _ := json.Marshal(map[string]any{
		"op": 0,
		"d":  map[string]any{"obsWebSocketVersion": "5.3.4", "rpcVersion": 1},
	})
	f.readCh <- hello
	return f
}

// NewSilent creates a fake connection that never speaks: no Hello is
// sent and Identify goes unanswered, so a handshake against it hangs
// until the connection is closed or dropped.
func NewSilent() *FakeConn {
	f := newConn()
	f.silent = true
	return f
}

func newConn() *FakeConn {
	return &FakeConn{
		readCh:  make(chan []byte, 64),
		replies: make(map[string][]Reply),
		closeCh: make(chan struct{}),
	}
}

// Script queues a reply for the next request of the given type.
func (f *FakeConn) Script(requestType string, r Reply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[requestType] = append(f.replies[requestType], r)
}

// Read implements obsws.Conn.
func (f *FakeConn) Read(ctx context.Context) (websocket.MessageType, []byte, error) {
	select {
	case msg := <-f.readCh:
		return websocket.MessageText, msg, nil
	case <-f.closeCh:
		return 0, nil, errors.New("connection closed")
	case <-ctx.Done():
		return 0, nil, ctx.Err()
	}
}

// Write implements obsws.Conn.
func (f *FakeConn) Write(ctx context.Context, typ websocket.MessageType, data []byte) error {
	var env struct {
		Op int             `json:"op"`
		D  json.RawMessage `json:"d"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	switch env.Op {
	case 1: // Identify
		if f.silent {
			return nil
		}
		resp, _ := json.Marshal(map[string]any{
			"op": 2,
			"d":  map[string]any{"negotiatedRpcVersion": 1},
		})
		f.readCh <- resp
	case 6: // Request
		var req struct {
			RequestType string `json:"requestType"`
			RequestID   string `json:"requestId"`
		}
		if err := json.Unmarshal(env.D, &req); err != nil {
			return err
		}
		f.mu.Lock()
		f.calls = append(f.calls, req.RequestType)
		reply := Reply{OK: true}
		if queue := f.replies[req.RequestType]; len(queue) > 0 {
			reply = queue[0]
			f.replies[req.RequestType] = queue[1:]
		}
		f.mu.Unlock()

		status := map[string]any{"result": reply.OK, "code": reply.Code}
		if reply.Comment != "" {
			status["comment"] = reply.Comment
		}
		d := map[string]any{
			"requestType":   req.RequestType,
			"requestId":     req.RequestID,
			"requestStatus": status,
		}
		if reply.Data != "" {
			d["responseData"] = json.RawMessage(reply.Data)
		}
		resp, _ := json.Marshal(map[string]any{"op": 7, "d": d})
		f.readCh <- resp
	}
	return nil
}

// Close implements obsws.Conn.
func (f *FakeConn) Close(code websocket.StatusCode, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.closeCh)
	}
	return nil
}

// Drop simulates a server-side close.
func (f *FakeConn) Drop() {
	f.Close(websocket.StatusAbnormalClosure, "dropped")
}

// IsClosed reports whether the connection has been closed.
func (f *FakeConn) IsClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Calls returns the request types seen, in arrival order.
func (f *FakeConn) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many requests of the given type were seen.
func (f *FakeConn) CallCount(requestType string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == requestType {
			n++
		}
	}
	return n
}
