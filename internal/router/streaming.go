package router

import (
	"context"
	"fmt"

	"github.com/obsctl/obsctl/internal/bridge"
)

// NewStreaming builds the streaming resource router.
func NewStreaming(b *bridge.Bridge) *Router {
	r := newRouter("streaming")

	r.handle("start", func(ctx context.Context, req Request) (string, error) {
		if err := b.StartStream(ctx); err != nil {
			return "", err
		}
		return "Streaming started", nil
	})

	r.handle("stop", func(ctx context.Context, req Request) (string, error) {
		if err := b.StopStream(ctx); err != nil {
			return "", err
		}
		return "Streaming stopped", nil
	})

	r.handle("toggle", func(ctx context.Context, req Request) (string, error) {
		active, err := b.ToggleStream(ctx)
		if err != nil {
			return "", err
		}
		if active {
			return "Streaming started", nil
		}
		return "Streaming stopped", nil
	})

	r.handle("status", func(ctx context.Context, req Request) (string, error) {
		s, err := b.StreamStatus(ctx)
		if err != nil {
			return "", err
		}
		if !s.Active {
			return "Not streaming", nil
		}
		state := "Streaming"
		if s.Reconnecting {
			state = "Streaming (reconnecting)"
		}
		return fmt.Sprintf("%s: %s, %d/%d frames skipped, congestion %.2f",
			state, s.Timecode, s.SkippedFrames, s.TotalFrames, s.Congestion), nil
	})

	return r
}
