package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/obsctl/obsctl/internal/bridge"
)

// NewScene builds the scene resource router.
func NewScene(b *bridge.Bridge) *Router {
	r := newRouter("scene")

	r.handle("list", func(ctx context.Context, req Request) (string, error) {
		list, err := b.Scenes(ctx)
		if err != nil {
			return "", err
		}
		if len(list.Scenes) == 0 {
			return "No scenes configured", nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Scenes (%d):", len(list.Scenes))
		for _, s := range list.Scenes {
			marker := " "
			if s.Name == list.CurrentProgramScene {
				marker = "*"
			}
			fmt.Fprintf(&sb, "\n%s %s", marker, s.Name)
		}
		return sb.String(), nil
	})

	r.handle("current", func(ctx context.Context, req Request) (string, error) {
		name, err := b.CurrentScene(ctx)
		if err != nil {
			return "", err
		}
		return "Current scene: " + name, nil
	})

	r.handle("switch", func(ctx context.Context, req Request) (string, error) {
		scene, err := stringParam(req, "scene")
		if err != nil {
			return "", err
		}
		if err := b.SwitchScene(ctx, scene); err != nil {
			return "", err
		}
		return "Switched to scene " + scene, nil
	})

	r.handle("create", func(ctx context.Context, req Request) (string, error) {
		scene, err := stringParam(req, "scene")
		if err != nil {
			return "", err
		}
		if err := b.CreateScene(ctx, scene); err != nil {
			return "", err
		}
		return "Created scene " + scene, nil
	})

	r.handle("remove", func(ctx context.Context, req Request) (string, error) {
		scene, err := stringParam(req, "scene")
		if err != nil {
			return "", err
		}
		if err := b.RemoveScene(ctx, scene); err != nil {
			return "", err
		}
		return "Removed scene " + scene, nil
	})

	return r
}
