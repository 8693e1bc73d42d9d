package obsws

import (
	"encoding/json"
	"fmt"
)

// obs-websocket v5 opcodes.
const (
	opHello           = 0
	opIdentify        = 1
	opIdentified      = 2
	opReidentify      = 3
	opEvent           = 5
	opRequest         = 6
	opRequestResponse = 7
)

// rpcVersion is the obs-websocket RPC version this client speaks.
const rpcVersion = 1

// Event subscription intent flags sent in the Identify message.
const (
	SubGeneral     = 1 << 0
	SubConfig      = 1 << 1
	SubScenes      = 1 << 2
	SubInputs      = 1 << 3
	SubTransitions = 1 << 4
	SubFilters     = 1 << 5
	SubOutputs     = 1 << 6
	SubSceneItems  = 1 << 7
	SubMediaInputs = 1 << 8
	SubVendors     = 1 << 9
	SubUI          = 1 << 10

	// SubAll covers every non-high-volume event category.
	SubAll = SubGeneral | SubConfig | SubScenes | SubInputs | SubTransitions |
		SubFilters | SubOutputs | SubSceneItems | SubMediaInputs | SubVendors | SubUI
)

// envelope is the outer obs-websocket message frame: {"op": N, "d": {...}}.
type envelope struct {
	Op int             `json:"op"`
	D  json.RawMessage `json:"d"`
}

// helloData is the payload of the server's Hello (op 0) message.
type helloData struct {
	ObsWebSocketVersion string `json:"obsWebSocketVersion"`
	RPCVersion          int    `json:"rpcVersion"`
	Authentication      *struct {
		Challenge string `json:"challenge"`
		Salt      string `json:"salt"`
	} `json:"authentication,omitempty"`
}

// identifyData is the payload of the client's Identify (op 1) message.
type identifyData struct {
	RPCVersion         int    `json:"rpcVersion"`
	Authentication     string `json:"authentication,omitempty"`
	EventSubscriptions int    `json:"eventSubscriptions"`
}

// identifiedData is the payload of the server's Identified (op 2) message.
type identifiedData struct {
	NegotiatedRPCVersion int `json:"negotiatedRpcVersion"`
}

// requestPayload is the payload of a Request (op 6) message.
type requestPayload struct {
	RequestType string `json:"requestType"`
	RequestID   string `json:"requestId"`
	RequestData any    `json:"requestData,omitempty"`
}

// requestStatus reports success or failure of a request.
type requestStatus struct {
	Result  bool   `json:"result"`
	Code    int    `json:"code"`
	Comment string `json:"comment,omitempty"`
}

// responsePayload is the payload of a RequestResponse (op 7) message.
type responsePayload struct {
	RequestType   string          `json:"requestType"`
	RequestID     string          `json:"requestId"`
	RequestStatus requestStatus   `json:"requestStatus"`
	ResponseData  json.RawMessage `json:"responseData,omitempty"`
}

// Event represents an obs-websocket event notification (op 5).
type Event struct {
	Type   string          `json:"eventType"`
	Intent int             `json:"eventIntent"`
	Data   json.RawMessage `json:"eventData,omitempty"`
}

// RequestError is returned when OBS rejects a request
// (requestStatus.result == false).
type RequestError struct {
	RequestType string
	Code        int
	Comment     string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Comment != "" {
		return fmt.Sprintf("obs request %s failed (code %d): %s", e.RequestType, e.Code, e.Comment)
	}
	return fmt.Sprintf("obs request %s failed (code %d)", e.RequestType, e.Code)
}

// parseEnvelope parses a raw obs-websocket frame.
func parseEnvelope(data []byte) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse obs-websocket message: %w", err)
	}
	return &env, nil
}
