package bridge

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/obsctl/obsctl/internal/obsws/obswstest"
)

// indexOf returns the position of the first occurrence of requestType in
// the recorded call sequence, or -1.
func indexOf(calls []string, requestType string) int {
	for i, c := range calls {
		if c == requestType {
			return i
		}
	}
	return -1
}

func TestWorkflow_StartRecording_MutesBeforeStarting(t *testing.T) {
	t.Parallel()

	b, conn := newConnectedBridge(t)
	conn.Script("GetSpecialInputs", obswstest.Reply{OK: true, Data: `{"desktop1":"Desktop Audio","mic1":"Mic/Aux"}`})
	w := NewWorkflow(b)

	result, err := w.StartRecording(context.Background(), StartRecordingOptions{MuteAudio: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
	if len(result.Muted) != 2 {
		t.Errorf("expected 2 muted inputs, got %v", result.Muted)
	}

	// Every mute must land before the recording starts.
	calls := conn.Calls()
	start := indexOf(calls, "StartRecord")
	if start == -1 {
		t.Fatal("StartRecord was never called")
	}
	if n := conn.CallCount("SetInputMute"); n != 2 {
		t.Fatalf("expected 2 mute calls, got %d", n)
	}
	for i, c := range calls {
		if c == "SetInputMute" && i > start {
			t.Errorf("mute at position %d arrived after StartRecord at %d", i, start)
		}
	}
}

func TestWorkflow_StartRecording_MuteFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	b, conn := newConnectedBridge(t)
	conn.Script("GetSpecialInputs", obswstest.Reply{OK: true, Data: `{"desktop1":"Desktop Audio","mic1":"Mic/Aux"}`})
	conn.Script("SetInputMute", obswstest.Reply{OK: false, Code: 600, Comment: "device busy"})
	w := NewWorkflow(b)

	result, err := w.StartRecording(context.Background(), StartRecordingOptions{MuteAudio: true})
	if err != nil {
		t.Fatalf("expected mute failure to be non-fatal, got %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", result.Warnings)
	}
	if !strings.Contains(result.Warnings[0], "Desktop Audio") {
		t.Errorf("warning does not name the failed input: %q", result.Warnings[0])
	}
	// The second input is still attempted after the first failure.
	if len(result.Muted) != 1 || result.Muted[0] != "Mic/Aux" {
		t.Errorf("expected Mic/Aux to be muted, got %v", result.Muted)
	}
	if conn.CallCount("StartRecord") != 1 {
		t.Error("expected recording to start despite the mute failure")
	}
}

func TestWorkflow_StartRecording_EnumerationFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	b, conn := newConnectedBridge(t)
	conn.Script("GetSpecialInputs", obswstest.Reply{OK: false, Code: 600, Comment: "unavailable"})
	w := NewWorkflow(b)

	result, err := w.StartRecording(context.Background(), StartRecordingOptions{MuteAudio: true})
	if err != nil {
		t.Fatalf("expected enumeration failure to be non-fatal, got %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("expected 1 warning, got %v", result.Warnings)
	}
	if conn.CallCount("StartRecord") != 1 {
		t.Error("expected recording to start despite the enumeration failure")
	}
}

func TestWorkflow_StartRecording_DirectoryFailureIsFatal(t *testing.T) {
	t.Parallel()

	b, conn := newConnectedBridge(t)
	// Both the raw and the typed directory paths fail.
	conn.Script("SetRecordDirectory", obswstest.Reply{OK: false, Code: 600, Comment: "no such directory"})
	conn.Script("SetRecordDirectory", obswstest.Reply{OK: false, Code: 600, Comment: "no such directory"})
	w := NewWorkflow(b)

	_, err := w.StartRecording(context.Background(), StartRecordingOptions{
		Directory: "/nonexistent",
		MuteAudio: true,
	})
	if !errors.Is(err, ErrProtocol) {
		t.Fatalf("expected ErrProtocol, got %v", err)
	}
	// Fatal step: nothing after the directory override may run.
	if conn.CallCount("StartRecord") != 0 {
		t.Error("recording must not start after a directory failure")
	}
	if conn.CallCount("SetInputMute") != 0 {
		t.Error("mute pass must not run after a directory failure")
	}
}

func TestWorkflow_StartRecording_FormatFailureIsFatal(t *testing.T) {
	t.Parallel()

	b, conn := newConnectedBridge(t)
	conn.Script("SetProfileParameter", obswstest.Reply{OK: false, Code: 600, Comment: "profile locked"})
	w := NewWorkflow(b)

	_, err := w.StartRecording(context.Background(), StartRecordingOptions{Format: "mkv"})
	if !errors.Is(err, ErrProtocol) {
		t.Fatalf("expected ErrProtocol, got %v", err)
	}
	if conn.CallCount("StartRecord") != 0 {
		t.Error("recording must not start after a format failure")
	}
}

func TestWorkflow_StartRecording_NoCompensation(t *testing.T) {
	t.Parallel()

	b, conn := newConnectedBridge(t)
	conn.Script("GetSpecialInputs", obswstest.Reply{OK: true, Data: `{"mic1":"Mic/Aux"}`})
	conn.Script("StartRecord", obswstest.Reply{OK: false, Code: 500, Comment: "output already active"})
	w := NewWorkflow(b)

	_, err := w.StartRecording(context.Background(), StartRecordingOptions{MuteAudio: true})
	if !errors.Is(err, ErrProtocol) {
		t.Fatalf("expected ErrProtocol, got %v", err)
	}
	// Applied side effects stay applied: no unmute is issued.
	for _, c := range conn.Calls() {
		if c == "ToggleInputMute" {
			t.Error("unexpected compensating unmute after StartRecord failure")
		}
	}
	if conn.CallCount("SetInputMute") != 1 {
		t.Errorf("expected exactly the original mute call, got %d", conn.CallCount("SetInputMute"))
	}
}

func TestWorkflow_StartRecording_NoOptionsIsJustStart(t *testing.T) {
	t.Parallel()

	b, conn := newConnectedBridge(t)
	w := NewWorkflow(b)

	result, err := w.StartRecording(context.Background(), StartRecordingOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Muted) != 0 || len(result.Warnings) != 0 {
		t.Errorf("unexpected result: %+v", result)
	}

	calls := conn.Calls()
	if len(calls) != 1 || calls[0] != "StartRecord" {
		t.Errorf("expected a single StartRecord call, got %v", calls)
	}
}

func TestWorkflow_StopRecording_ReturnsExactPath(t *testing.T) {
	t.Parallel()

	b, conn := newConnectedBridge(t)
	conn.Script("StopRecord", obswstest.Reply{OK: true, Data: `{"outputPath":"/videos/take 01 (final).mkv"}`})
	w := NewWorkflow(b)

	path, err := w.StopRecording(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/videos/take 01 (final).mkv" {
		t.Errorf("path not preserved verbatim: %q", path)
	}
}
