package obsws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeReply scripts one response for a request type.
type fakeReply struct {
	ok      bool
	code    int
	comment string
	data    string // responseData JSON
}

// fakeConn implements Conn and plays the server side of the obs-websocket
// handshake: it queues Hello on creation, answers Identify with
// Identified, and answers Requests from a scripted reply table.
type fakeConn struct {
	mu      sync.Mutex
	readCh  chan []byte
	written [][]byte
	calls   []string // requestTypes in arrival order
	replies map[string][]fakeReply

	challenge string // non-empty enables the auth challenge
	salt      string

	swallowRequests bool // never answer requests (for timeout tests)

	closed  bool
	closeCh chan struct{}
}

func newFakeConn() *fakeConn {
	f := &fakeConn{
		readCh:  make(chan []byte, 64),
		replies: make(map[string][]fakeReply),
		closeCh: make(chan struct{}),
	}
	f.queueHello()
	return f
}

func (f *fakeConn) queueHello() {
	hello := map[string]any{
		"obsWebSocketVersion": "5.3.4",
		"rpcVersion":          1,
	}
	if f.challenge != "" {
		hello["authentication"] = map[string]string{
			"challenge": f.challenge,
			"salt":      f.salt,
		}
	}
	data, _ := json.Marshal(map[string]any{"op": opHello, "d": hello})
	f.readCh <- data
}

// script queues a reply for the next request of the given type. Requests
// without a script succeed with an empty payload.
func (f *fakeConn) script(requestType string, r fakeReply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[requestType] = append(f.replies[requestType], r)
}

func (f *fakeConn) Read(ctx context.Context) (websocket.MessageType, []byte, error) {
	select {
	case msg := <-f.readCh:
		return websocket.MessageText, msg, nil
	case <-f.closeCh:
		return 0, nil, errors.New("connection closed")
	case <-ctx.Done():
		return 0, nil, ctx.Err()
	}
}

func (f *fakeConn) Write(ctx context.Context, typ websocket.MessageType, data []byte) error {
	f.mu.Lock()
	f.written = append(f.written, data)
	f.mu.Unlock()

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	switch env.Op {
	case opIdentify:
		resp, _ := json.Marshal(map[string]any{
			"op": opIdentified,
			"d":  map[string]any{"negotiatedRpcVersion": 1},
		})
		f.readCh <- resp
	case opRequest:
		var req struct {
			RequestType string `json:"requestType"`
			RequestID   string `json:"requestId"`
		}
		if err := json.Unmarshal(env.D, &req); err != nil {
			return err
		}
		f.mu.Lock()
		f.calls = append(f.calls, req.RequestType)
		reply := fakeReply{ok: true}
		if queue := f.replies[req.RequestType]; len(queue) > 0 {
			reply = queue[0]
			f.replies[req.RequestType] = queue[1:]
		}
		swallow := f.swallowRequests
		f.mu.Unlock()
		if swallow {
			return nil
		}

		status := map[string]any{"result": reply.ok, "code": reply.code}
		if reply.comment != "" {
			status["comment"] = reply.comment
		}
		d := map[string]any{
			"requestType":   req.RequestType,
			"requestId":     req.RequestID,
			"requestStatus": status,
		}
		if reply.data != "" {
			d["responseData"] = json.RawMessage(reply.data)
		}
		resp, _ := json.Marshal(map[string]any{"op": opRequestResponse, "d": d})
		f.readCh <- resp
	}
	return nil
}

func (f *fakeConn) Close(code websocket.StatusCode, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.closeCh)
	}
	return nil
}

// dropConnection simulates a server-side close.
func (f *fakeConn) dropConnection() {
	f.Close(websocket.StatusAbnormalClosure, "dropped")
}

func (f *fakeConn) callCount(requestType string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == requestType {
			n++
		}
	}
	return n
}

func (f *fakeConn) getWritten() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([][]byte, len(f.written))
	copy(result, f.written)
	return result
}

// newTestClient creates a client over the fake and waits for the
// handshake to complete.
func newTestClient(t *testing.T, conn *fakeConn, password string) *Client {
	t.Helper()

	identified := make(chan struct{})
	client := NewClient(conn, Options{
		Password:     password,
		OnIdentified: func() { close(identified) },
	})
	t.Cleanup(func() { client.Close() })

	select {
	case <-identified:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for handshake")
	}
	return client
}

func TestClient_HandshakeIdentifies(t *testing.T) {
	t.Parallel()

	conn := newFakeConn()
	client := newTestClient(t, conn, "")

	if !client.Identified() {
		t.Error("expected client to be identified")
	}

	written := conn.getWritten()
	if len(written) != 1 {
		t.Fatalf("expected 1 written message (identify), got %d", len(written))
	}

	var env struct {
		Op int `json:"op"`
		D  struct {
			RPCVersion     int    `json:"rpcVersion"`
			Authentication string `json:"authentication"`
		} `json:"d"`
	}
	if err := json.Unmarshal(written[0], &env); err != nil {
		t.Fatalf("failed to unmarshal identify: %v", err)
	}
	if env.Op != opIdentify {
		t.Errorf("expected op %d, got %d", opIdentify, env.Op)
	}
	if env.D.RPCVersion != rpcVersion {
		t.Errorf("expected rpcVersion %d, got %d", rpcVersion, env.D.RPCVersion)
	}
	if env.D.Authentication != "" {
		t.Errorf("expected no authentication without challenge, got %q", env.D.Authentication)
	}
}

func TestClient_HandshakeAnswersChallenge(t *testing.T) {
	t.Parallel()

	conn := &fakeConn{
		readCh:    make(chan []byte, 64),
		replies:   make(map[string][]fakeReply),
		closeCh:   make(chan struct{}),
		challenge: "challenge123",
		salt:      "salt456",
	}
	conn.queueHello()

	client := newTestClient(t, conn, "hunter2")
	defer client.Close()

	written := conn.getWritten()
	var env struct {
		D struct {
			Authentication string `json:"authentication"`
		} `json:"d"`
	}
	if err := json.Unmarshal(written[0], &env); err != nil {
		t.Fatalf("failed to unmarshal identify: %v", err)
	}

	want := authResponse("hunter2", "salt456", "challenge123")
	if env.D.Authentication != want {
		t.Errorf("expected authentication %q, got %q", want, env.D.Authentication)
	}
}

func TestClient_Send_CorrelatesResponseByID(t *testing.T) {
	t.Parallel()

	conn := newFakeConn()
	conn.script("GetVersion", fakeReply{ok: true, data: `{"obsVersion":"30.1.2"}`})
	client := newTestClient(t, conn, "")

	result, err := client.Send(context.Background(), "GetVersion", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(result) != `{"obsVersion":"30.1.2"}` {
		t.Errorf("unexpected result: %s", string(result))
	}
}

func TestClient_Send_ReturnsRequestError(t *testing.T) {
	t.Parallel()

	conn := newFakeConn()
	conn.script("StartRecord", fakeReply{ok: false, code: 500, comment: "output already active"})
	client := newTestClient(t, conn, "")

	_, err := client.Send(context.Background(), "StartRecord", nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %T: %v", err, err)
	}
	if reqErr.Code != 500 {
		t.Errorf("expected code 500, got %d", reqErr.Code)
	}
	if reqErr.Comment != "output already active" {
		t.Errorf("unexpected comment: %q", reqErr.Comment)
	}
}

func TestClient_Send_BeforeIdentified(t *testing.T) {
	t.Parallel()

	// No Hello queued: the handshake never completes.
	conn := &fakeConn{
		readCh:  make(chan []byte, 64),
		replies: make(map[string][]fakeReply),
		closeCh: make(chan struct{}),
	}
	client := NewClient(conn, Options{})
	defer client.Close()

	_, err := client.Send(context.Background(), "GetVersion", nil)
	if err == nil {
		t.Fatal("expected error sending before identified")
	}
}

func TestClient_Send_TimeoutWaitingForResponse(t *testing.T) {
	t.Parallel()

	conn := newFakeConn()
	conn.swallowRequests = true
	client := newTestClient(t, conn, "")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Send(ctx, "GetVersion", nil)
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
}

func TestClient_Subscribe_DispatchesEvent(t *testing.T) {
	t.Parallel()

	conn := newFakeConn()
	client := newTestClient(t, conn, "")

	received := make(chan Event, 1)
	client.Subscribe("RecordStateChanged", func(e Event) {
		received <- e
	})

	evt, _ := json.Marshal(map[string]any{
		"op": opEvent,
		"d": map[string]any{
			"eventType": "RecordStateChanged",
			"eventData": map[string]any{"outputActive": true},
		},
	})
	conn.readCh <- evt

	select {
	case e := <-received:
		if e.Type != "RecordStateChanged" {
			t.Errorf("expected RecordStateChanged, got %s", e.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestClient_OnClosed_FiresOnConnectionDrop(t *testing.T) {
	t.Parallel()

	conn := newFakeConn()
	closed := make(chan error, 1)
	identified := make(chan struct{})
	client := NewClient(conn, Options{
		OnIdentified: func() { close(identified) },
		OnClosed:     func(err error) { closed <- err },
	})
	defer client.Close()

	select {
	case <-identified:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for handshake")
	}

	conn.dropConnection()

	select {
	case err := <-closed:
		if err == nil {
			t.Error("expected non-nil close error")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for OnClosed")
	}
}

func TestClient_OnClosed_NotFiredOnDeliberateClose(t *testing.T) {
	t.Parallel()

	conn := newFakeConn()
	closed := make(chan error, 1)
	identified := make(chan struct{})
	client := NewClient(conn, Options{
		OnIdentified: func() { close(identified) },
		OnClosed:     func(err error) { closed <- err },
	})

	select {
	case <-identified:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for handshake")
	}

	client.Close()

	select {
	case err := <-closed:
		t.Errorf("OnClosed fired on deliberate close: %v", err)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestClient_Close_Idempotent(t *testing.T) {
	t.Parallel()

	conn := newFakeConn()
	client := newTestClient(t, conn, "")

	if err := client.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("unexpected second close error: %v", err)
	}
}

func TestClient_Send_AfterClose(t *testing.T) {
	t.Parallel()

	conn := newFakeConn()
	client := newTestClient(t, conn, "")
	client.Close()

	_, err := client.Send(context.Background(), "GetVersion", nil)
	if err == nil {
		t.Fatal("expected error sending on closed client")
	}
}

func TestClient_TypedRequests(t *testing.T) {
	t.Parallel()

	conn := newFakeConn()
	conn.script("StopRecord", fakeReply{ok: true, data: `{"outputPath":"/videos/take-01.mkv"}`})
	conn.script("GetSceneList", fakeReply{ok: true, data: `{"currentProgramSceneName":"Main","scenes":[{"sceneName":"Main","sceneIndex":0},{"sceneName":"BRB","sceneIndex":1}]}`})
	conn.script("GetSpecialInputs", fakeReply{ok: true, data: `{"desktop1":"Desktop Audio","mic1":"Mic/Aux"}`})
	client := newTestClient(t, conn, "")
	ctx := context.Background()

	path, err := client.StopRecord(ctx)
	if err != nil {
		t.Fatalf("StopRecord: %v", err)
	}
	if path != "/videos/take-01.mkv" {
		t.Errorf("unexpected output path: %q", path)
	}

	scenes, err := client.GetSceneList(ctx)
	if err != nil {
		t.Fatalf("GetSceneList: %v", err)
	}
	if scenes.CurrentProgramScene != "Main" || len(scenes.Scenes) != 2 {
		t.Errorf("unexpected scene list: %+v", scenes)
	}

	special, err := client.GetSpecialInputs(ctx)
	if err != nil {
		t.Fatalf("GetSpecialInputs: %v", err)
	}
	want := []string{"Desktop Audio", "Mic/Aux"}
	got := special.Names()
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("expected special inputs %v, got %v", want, got)
	}
}
