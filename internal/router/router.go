// Package router dispatches named actions with weakly typed parameter
// bags to the Protocol Bridge, validating every action's parameter
// contract before any remote call and rendering results as
// human-readable text. Failures render as strings beginning with
// "Error: " so callers never need to inspect anything beyond that
// marker.
package router

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/obsctl/obsctl/internal/bridge"
)

// requestTimeout bounds a single dispatched action, connect excluded
// (connect carries its own timeout parameter).
const requestTimeout = 30 * time.Second

// Request is an immutable action-name plus parameter-map pair.
// Parameters are weakly typed: string, number, bool, or absent.
type Request struct {
	Action string
	Params map[string]any
}

// Handler executes one validated action and returns its text result.
type Handler func(ctx context.Context, req Request) (string, error)

// Router is a dispatch table from action identifiers to handlers for one
// resource.
type Router struct {
	resource string
	actions  map[string]Handler
	names    []string // registration order, for error messages
}

// newRouter creates an empty router for the named resource.
func newRouter(resource string) *Router {
	return &Router{
		resource: resource,
		actions:  make(map[string]Handler),
	}
}

// handle registers an action handler.
func (r *Router) handle(action string, h Handler) {
	r.actions[action] = h
	r.names = append(r.names, action)
}

// Resource returns the resource name this router serves.
func (r *Router) Resource() string {
	return r.resource
}

// Actions returns the registered action names in registration order.
func (r *Router) Actions() []string {
	return append([]string(nil), r.names...)
}

// Dispatch runs the requested action and renders its outcome. An unknown
// action is a distinct error, never silently ignored and never confused
// with a validation or connection failure.
func (r *Router) Dispatch(ctx context.Context, req Request) string {
	h, ok := r.actions[req.Action]
	if !ok {
		return fmt.Sprintf("Error: unknown %s action %q (valid actions: %s)",
			r.resource, req.Action, strings.Join(r.names, ", "))
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	text, err := h(ctx, req)
	if err != nil {
		return "Error: " + err.Error()
	}
	return text
}

// Registry maps resource names to routers. This is the inbound surface
// the tool-hosting shell calls with (resource, action, parameters).
type Registry struct {
	routers map[string]*Router
	names   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{routers: make(map[string]*Router)}
}

// Add registers a resource router.
func (g *Registry) Add(r *Router) {
	g.routers[r.resource] = r
	g.names = append(g.names, r.resource)
}

// Get returns the router for a resource, or nil.
func (g *Registry) Get(resource string) *Router {
	return g.routers[resource]
}

// Resources returns the registered resource names in registration order.
func (g *Registry) Resources() []string {
	return append([]string(nil), g.names...)
}

// Dispatch routes one request to its resource router.
func (g *Registry) Dispatch(ctx context.Context, resource, action string, params map[string]any) string {
	r, ok := g.routers[resource]
	if !ok {
		return fmt.Sprintf("Error: unknown resource %q (valid resources: %s)",
			resource, strings.Join(g.names, ", "))
	}
	return r.Dispatch(ctx, Request{Action: action, Params: params})
}

// --- Parameter access ---

// stringParam returns a required, non-empty string parameter.
func stringParam(req Request, key string) (string, error) {
	v, ok := req.Params[key]
	if !ok {
		return "", bridge.Validationf("%s is required", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", bridge.Validationf("%s must be a string", key)
	}
	if strings.TrimSpace(s) == "" {
		return "", bridge.Validationf("%s must not be empty", key)
	}
	return s, nil
}

// optStringParam returns an optional string parameter, or the default.
func optStringParam(req Request, key, def string) (string, error) {
	v, ok := req.Params[key]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", bridge.Validationf("%s must be a string", key)
	}
	if s == "" {
		return def, nil
	}
	return s, nil
}

// optBoolParam returns an optional bool parameter, or the default.
// Accepts bools and the strings "true"/"false".
func optBoolParam(req Request, key string, def bool) (bool, error) {
	v, ok := req.Params[key]
	if !ok || v == nil {
		return def, nil
	}
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		b, err := strconv.ParseBool(t)
		if err != nil {
			return false, bridge.Validationf("%s must be a boolean", key)
		}
		return b, nil
	default:
		return false, bridge.Validationf("%s must be a boolean", key)
	}
}

// numberParam converts a parameter to float64. JSON decoding delivers
// numbers as float64, but typed callers may pass int variants.
func numberParam(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}

// floatParam returns a required numeric parameter.
func floatParam(req Request, key string) (float64, error) {
	v, ok := req.Params[key]
	if !ok {
		return 0, bridge.Validationf("%s is required", key)
	}
	f, ok := numberParam(v)
	if !ok {
		return 0, bridge.Validationf("%s must be a number", key)
	}
	return f, nil
}

// intParam returns a required integer parameter.
func intParam(req Request, key string) (int, error) {
	f, err := floatParam(req, key)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, bridge.Validationf("%s must be an integer", key)
	}
	return int(f), nil
}

// optIntParam returns an optional integer parameter, or the default.
func optIntParam(req Request, key string, def int) (int, error) {
	if _, ok := req.Params[key]; !ok {
		return def, nil
	}
	return intParam(req, key)
}

// boolParam returns a required bool parameter.
func boolParam(req Request, key string) (bool, error) {
	if _, ok := req.Params[key]; !ok {
		return false, bridge.Validationf("%s is required", key)
	}
	return optBoolParam(req, key, false)
}
