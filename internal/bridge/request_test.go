package bridge

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/obsctl/obsctl/internal/obsws/obswstest"
)

func TestBridge_NotConnected(t *testing.T) {
	t.Parallel()

	b := NewBridge(NewManager())
	ctx := context.Background()

	// Every capability must fail fast without a session; none may panic
	// or attempt a remote call.
	calls := map[string]func() error{
		"Version":            func() error { _, err := b.Version(ctx); return err },
		"StartRecord":        func() error { return b.StartRecord(ctx) },
		"StopRecord":         func() error { _, err := b.StopRecord(ctx); return err },
		"RecordDirectory":    func() error { _, err := b.RecordDirectory(ctx); return err },
		"SetRecordDirectory": func() error { return b.SetRecordDirectory(ctx, "/tmp") },
		"StartStream":        func() error { return b.StartStream(ctx) },
		"Scenes":             func() error { _, err := b.Scenes(ctx); return err },
		"SwitchScene":        func() error { return b.SwitchScene(ctx, "Main") },
		"Inputs":             func() error { _, err := b.Inputs(ctx, ""); return err },
		"ListWindows":        func() error { _, err := b.ListWindows(ctx, "cap", "window"); return err },
		"SpecialInputs":      func() error { _, err := b.SpecialInputs(ctx); return err },
		"SetInputMute":       func() error { return b.SetInputMute(ctx, "Mic/Aux", true) },
		"SetInputVolume":     func() error { return b.SetInputVolume(ctx, "Mic/Aux", 0.5) },
		"Screenshot":         func() error { _, err := b.Screenshot(ctx, "s", "png", "/tmp/s.png", 0, 0); return err },
		"Call":               func() error { _, err := b.Call(ctx, "GetVersion", nil); return err },
	}
	for name, call := range calls {
		if err := call(); !errors.Is(err, ErrNotConnected) {
			t.Errorf("%s: expected ErrNotConnected, got %v", name, err)
		}
	}
}

func TestBridge_Version(t *testing.T) {
	t.Parallel()

	b, conn := newConnectedBridge(t)
	conn.Script("GetVersion", obswstest.Reply{OK: true, Data: `{"obsVersion":"30.1.2","obsWebSocketVersion":"5.3.4","rpcVersion":1}`})

	v, err := b.Version(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.ObsVersion != "30.1.2" {
		t.Errorf("unexpected version: %+v", v)
	}
}

func TestBridge_RemoteRejection_WrapsProtocol(t *testing.T) {
	t.Parallel()

	b, conn := newConnectedBridge(t)
	conn.Script("StartRecord", obswstest.Reply{OK: false, Code: 500, Comment: "output already active"})

	err := b.StartRecord(context.Background())
	if !errors.Is(err, ErrProtocol) {
		t.Fatalf("expected ErrProtocol, got %v", err)
	}
	if !strings.Contains(err.Error(), "output already active") {
		t.Errorf("expected server comment in error, got %q", err)
	}
}

func TestBridge_StopRecord_ReturnsExactPath(t *testing.T) {
	t.Parallel()

	b, conn := newConnectedBridge(t)
	conn.Script("StopRecord", obswstest.Reply{OK: true, Data: `{"outputPath":"/videos/take 01 (final).mkv"}`})

	path, err := b.StopRecord(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/videos/take 01 (final).mkv" {
		t.Errorf("path not preserved verbatim: %q", path)
	}
}

func TestBridge_Scenes_EmptyListIsNotAnError(t *testing.T) {
	t.Parallel()

	b, conn := newConnectedBridge(t)
	conn.Script("GetSceneList", obswstest.Reply{OK: true, Data: `{"currentProgramSceneName":"Main"}`})

	l, err := b.Scenes(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Scenes == nil {
		t.Error("expected non-nil empty scene slice")
	}
	if len(l.Scenes) != 0 {
		t.Errorf("expected empty scene list, got %d", len(l.Scenes))
	}
}

func TestBridge_RecordDirectory_RawFirst(t *testing.T) {
	t.Parallel()

	b, conn := newConnectedBridge(t)
	conn.Script("GetRecordDirectory", obswstest.Reply{OK: true, Data: `{"recordDirectory":"/videos"}`})

	dir, err := b.RecordDirectory(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != "/videos" {
		t.Errorf("unexpected directory: %q", dir)
	}
	if n := conn.CallCount("GetRecordDirectory"); n != 1 {
		t.Errorf("expected 1 wire call when the raw path succeeds, got %d", n)
	}
}

func TestBridge_RecordDirectory_FallsBackToTyped(t *testing.T) {
	t.Parallel()

	b, conn := newConnectedBridge(t)
	conn.Script("GetRecordDirectory", obswstest.Reply{OK: false, Code: 600, Comment: "transient"})
	conn.Script("GetRecordDirectory", obswstest.Reply{OK: true, Data: `{"recordDirectory":"/videos"}`})

	dir, err := b.RecordDirectory(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != "/videos" {
		t.Errorf("unexpected directory: %q", dir)
	}
	if n := conn.CallCount("GetRecordDirectory"); n != 2 {
		t.Errorf("expected 2 wire calls, got %d", n)
	}
}

func TestBridge_RecordDirectory_BothFail_SurfacesRawError(t *testing.T) {
	t.Parallel()

	b, conn := newConnectedBridge(t)
	conn.Script("GetRecordDirectory", obswstest.Reply{OK: false, Code: 600, Comment: "raw failure"})
	conn.Script("GetRecordDirectory", obswstest.Reply{OK: false, Code: 601, Comment: "typed failure"})

	_, err := b.RecordDirectory(context.Background())
	if !errors.Is(err, ErrProtocol) {
		t.Fatalf("expected ErrProtocol, got %v", err)
	}
	if !strings.Contains(err.Error(), "raw failure") {
		t.Errorf("expected the raw path's error to be surfaced, got %q", err)
	}
}

func TestBridge_SetRecordDirectory_RawFirst(t *testing.T) {
	t.Parallel()

	b, conn := newConnectedBridge(t)

	if err := b.SetRecordDirectory(context.Background(), "/videos"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := conn.CallCount("SetRecordDirectory"); n != 1 {
		t.Errorf("expected 1 wire call when the raw path succeeds, got %d", n)
	}
}

func TestBridge_SetRecordDirectory_BothFail_SurfacesRawError(t *testing.T) {
	t.Parallel()

	b, conn := newConnectedBridge(t)
	conn.Script("SetRecordDirectory", obswstest.Reply{OK: false, Code: 600, Comment: "raw rejection"})
	conn.Script("SetRecordDirectory", obswstest.Reply{OK: false, Code: 601, Comment: "typed rejection"})

	err := b.SetRecordDirectory(context.Background(), "/videos")
	if !errors.Is(err, ErrProtocol) {
		t.Fatalf("expected ErrProtocol, got %v", err)
	}
	if !strings.Contains(err.Error(), "raw rejection") {
		t.Errorf("expected the raw path's error to be surfaced, got %q", err)
	}
}

func TestBridge_ListWindows_ToleratesHeterogeneousItemValues(t *testing.T) {
	t.Parallel()

	b, conn := newConnectedBridge(t)
	conn.Script("GetInputPropertiesListPropertyItems", obswstest.Reply{OK: true, Data: `{"propertyItems":[
		{"itemName":"Firefox","itemEnabled":true,"itemValue":"firefox.exe:Main"},
		{"itemName":"Terminal","itemEnabled":true,"itemValue":67890},
		{"itemName":"Editor","itemEnabled":false,"itemValue":{"hwnd":42}}
	]}`})

	windows, err := b.ListWindows(context.Background(), "capture", "window")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(windows) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(windows))
	}
	if windows[0].Value != "firefox.exe:Main" {
		t.Errorf("string value mangled: %q", windows[0].Value)
	}
	if windows[1].Value != "67890" {
		t.Errorf("numeric value not rendered: %q", windows[1].Value)
	}
	if windows[2].Value != `{"hwnd":42}` {
		t.Errorf("object value not rendered: %q", windows[2].Value)
	}
	if windows[2].Enabled {
		t.Error("expected Editor to be disabled")
	}
	if n := conn.CallCount("GetInputPropertiesListPropertyItems"); n != 1 {
		t.Errorf("expected 1 wire call when the raw path succeeds, got %d", n)
	}
}

func TestBridge_ListWindows_FallsBackToStructured(t *testing.T) {
	t.Parallel()

	b, conn := newConnectedBridge(t)
	conn.Script("GetInputPropertiesListPropertyItems", obswstest.Reply{OK: false, Code: 600, Comment: "transient"})
	conn.Script("GetInputPropertiesListPropertyItems", obswstest.Reply{OK: true, Data: `{"propertyItems":[
		{"itemName":"Firefox","itemEnabled":true,"itemValue":"firefox.exe:Main"}
	]}`})

	windows, err := b.ListWindows(context.Background(), "capture", "window")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(windows) != 1 || windows[0].Name != "Firefox" {
		t.Errorf("unexpected windows from structured path: %+v", windows)
	}
	if n := conn.CallCount("GetInputPropertiesListPropertyItems"); n != 2 {
		t.Errorf("expected 2 wire calls, got %d", n)
	}
}

func TestBridge_ListWindows_BothFail_SurfacesRawError(t *testing.T) {
	t.Parallel()

	b, conn := newConnectedBridge(t)
	conn.Script("GetInputPropertiesListPropertyItems", obswstest.Reply{OK: false, Code: 600, Comment: "no such input"})
	conn.Script("GetInputPropertiesListPropertyItems", obswstest.Reply{OK: false, Code: 601, Comment: "secondary failure"})

	_, err := b.ListWindows(context.Background(), "capture", "window")
	if !errors.Is(err, ErrProtocol) {
		t.Fatalf("expected ErrProtocol, got %v", err)
	}
	if !strings.Contains(err.Error(), "no such input") {
		t.Errorf("expected the raw path's error to be surfaced, got %q", err)
	}
}

func TestBridge_ListWindows_EmptyListIsNotAnError(t *testing.T) {
	t.Parallel()

	b, conn := newConnectedBridge(t)
	conn.Script("GetInputPropertiesListPropertyItems", obswstest.Reply{OK: true, Data: `{}`})

	windows, err := b.ListWindows(context.Background(), "capture", "window")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if windows == nil || len(windows) != 0 {
		t.Errorf("expected non-nil empty slice, got %#v", windows)
	}
}

func TestBridge_SetRecordFormat_UsesProfileParameter(t *testing.T) {
	t.Parallel()

	b, conn := newConnectedBridge(t)

	if err := b.SetRecordFormat(context.Background(), "mkv"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := conn.CallCount("SetProfileParameter"); n != 1 {
		t.Errorf("expected SetProfileParameter wire call, got %d", n)
	}
}
