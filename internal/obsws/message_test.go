package obsws

import (
	"encoding/json"
	"testing"
)

func TestParseEnvelope(t *testing.T) {
	t.Parallel()

	env, err := parseEnvelope([]byte(`{"op":7,"d":{"requestId":"42","requestStatus":{"result":true,"code":100}}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.Op != opRequestResponse {
		t.Errorf("expected op %d, got %d", opRequestResponse, env.Op)
	}

	var resp responsePayload
	if err := json.Unmarshal(env.D, &resp); err != nil {
		t.Fatalf("failed to unmarshal payload: %v", err)
	}
	if resp.RequestID != "42" {
		t.Errorf("expected requestId 42, got %q", resp.RequestID)
	}
	if !resp.RequestStatus.Result {
		t.Error("expected result true")
	}
}

func TestParseEnvelope_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := parseEnvelope([]byte(`not json`)); err == nil {
		t.Error("expected error for malformed message")
	}
}

func TestRequestError_Error(t *testing.T) {
	t.Parallel()

	withComment := &RequestError{RequestType: "StartRecord", Code: 500, Comment: "output already active"}
	if got := withComment.Error(); got != "obs request StartRecord failed (code 500): output already active" {
		t.Errorf("unexpected error string: %q", got)
	}

	bare := &RequestError{RequestType: "GetVersion", Code: 204}
	if got := bare.Error(); got != "obs request GetVersion failed (code 204)" {
		t.Errorf("unexpected error string: %q", got)
	}
}

func TestSubAll_CoversAllCategories(t *testing.T) {
	t.Parallel()

	// The documented value of EventSubscription::All in obs-websocket v5.
	if SubAll != 2047 {
		t.Errorf("expected SubAll to be 2047, got %d", SubAll)
	}
}

func TestSpecialInputs_Names(t *testing.T) {
	t.Parallel()

	all := SpecialInputs{
		Desktop1: "Desktop Audio",
		Desktop2: "Desktop Audio 2",
		Mic1:     "Mic/Aux",
	}
	got := all.Names()
	want := []string{"Desktop Audio", "Desktop Audio 2", "Mic/Aux"}
	if len(got) != len(want) {
		t.Fatalf("expected %d names, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("name %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	if names := (SpecialInputs{}).Names(); len(names) != 0 {
		t.Errorf("expected no names for empty special inputs, got %v", names)
	}
}
