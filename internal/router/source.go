package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/obsctl/obsctl/internal/bridge"
)

// NewSource builds the source resource router.
func NewSource(b *bridge.Bridge) *Router {
	r := newRouter("source")

	r.handle("list", func(ctx context.Context, req Request) (string, error) {
		kind, err := optStringParam(req, "kind", "")
		if err != nil {
			return "", err
		}
		inputs, err := b.Inputs(ctx, kind)
		if err != nil {
			return "", err
		}
		if len(inputs) == 0 {
			if kind != "" {
				return fmt.Sprintf("No inputs of kind %q", kind), nil
			}
			return "No inputs configured", nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Inputs (%d):", len(inputs))
		for _, in := range inputs {
			fmt.Fprintf(&sb, "\n  %s (%s)", in.Name, in.Kind)
		}
		return sb.String(), nil
	})

	r.handle("list-kinds", func(ctx context.Context, req Request) (string, error) {
		kinds, err := b.InputKinds(ctx)
		if err != nil {
			return "", err
		}
		if len(kinds) == 0 {
			return "No input kinds available", nil
		}
		return "Input kinds: " + strings.Join(kinds, ", "), nil
	})

	r.handle("list-windows", func(ctx context.Context, req Request) (string, error) {
		source, err := stringParam(req, "source")
		if err != nil {
			return "", err
		}
		property, err := optStringParam(req, "property", "window")
		if err != nil {
			return "", err
		}
		windows, err := b.ListWindows(ctx, source, property)
		if err != nil {
			return "", err
		}
		if len(windows) == 0 {
			return fmt.Sprintf("No capturable windows found for %q", source), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Capturable windows for %q (%d):", source, len(windows))
		for _, w := range windows {
			fmt.Fprintf(&sb, "\n  %s", w.Name)
			if w.Value != "" && w.Value != w.Name {
				fmt.Fprintf(&sb, " [%s]", w.Value)
			}
		}
		return sb.String(), nil
	})

	r.handle("create-window-capture", func(ctx context.Context, req Request) (string, error) {
		scene, err := stringParam(req, "scene")
		if err != nil {
			return "", err
		}
		name, err := stringParam(req, "name")
		if err != nil {
			return "", err
		}
		window, err := optStringParam(req, "window", "")
		if err != nil {
			return "", err
		}

		var settings map[string]any
		if window != "" {
			settings = map[string]any{"window": window}
		}
		itemID, err := b.CreateInput(ctx, scene, name, "window_capture", settings)
		if err != nil {
			return "", err
		}
		if window == "" {
			return fmt.Sprintf("Created window capture %q in scene %q (item %d). "+
				"No window selected yet; use list-windows and set-settings to pick one.",
				name, scene, itemID), nil
		}
		return fmt.Sprintf("Created window capture %q in scene %q (item %d)", name, scene, itemID), nil
	})

	r.handle("remove", func(ctx context.Context, req Request) (string, error) {
		name, err := stringParam(req, "name")
		if err != nil {
			return "", err
		}
		if err := b.RemoveInput(ctx, name); err != nil {
			return "", err
		}
		return "Removed input " + name, nil
	})

	r.handle("get-settings", func(ctx context.Context, req Request) (string, error) {
		name, err := stringParam(req, "name")
		if err != nil {
			return "", err
		}
		settings, kind, err := b.InputSettings(ctx, name)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Settings of %q (%s): %s", name, kind, string(settings)), nil
	})

	r.handle("set-settings", func(ctx context.Context, req Request) (string, error) {
		name, err := stringParam(req, "name")
		if err != nil {
			return "", err
		}
		v, ok := req.Params["settings"]
		if !ok {
			return "", bridge.Validationf("settings is required")
		}
		settings, ok := v.(map[string]any)
		if !ok {
			return "", bridge.Validationf("settings must be an object")
		}
		if err := b.SetInputSettings(ctx, name, settings); err != nil {
			return "", err
		}
		return "Updated settings of " + name, nil
	})

	r.handle("list-items", func(ctx context.Context, req Request) (string, error) {
		scene, err := stringParam(req, "scene")
		if err != nil {
			return "", err
		}
		items, err := b.SceneItems(ctx, scene)
		if err != nil {
			return "", err
		}
		if len(items) == 0 {
			return fmt.Sprintf("Scene %q has no items", scene), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Items in scene %q (%d):", scene, len(items))
		for _, it := range items {
			state := "visible"
			if !it.Enabled {
				state = "hidden"
			}
			fmt.Fprintf(&sb, "\n  %d: %s (%s)", it.ID, it.SourceName, state)
		}
		return sb.String(), nil
	})

	r.handle("set-enabled", func(ctx context.Context, req Request) (string, error) {
		scene, err := stringParam(req, "scene")
		if err != nil {
			return "", err
		}
		itemID, err := intParam(req, "item")
		if err != nil {
			return "", err
		}
		enabled, err := boolParam(req, "enabled")
		if err != nil {
			return "", err
		}
		if err := b.SetSceneItemEnabled(ctx, scene, itemID, enabled); err != nil {
			return "", err
		}
		if enabled {
			return fmt.Sprintf("Item %d in scene %q is now visible", itemID, scene), nil
		}
		return fmt.Sprintf("Item %d in scene %q is now hidden", itemID, scene), nil
	})

	return r
}
