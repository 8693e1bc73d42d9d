package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/obsctl/obsctl/internal/bridge"
)

// NewAudio builds the audio resource router.
func NewAudio(b *bridge.Bridge) *Router {
	r := newRouter("audio")

	r.handle("list-special", func(ctx context.Context, req Request) (string, error) {
		special, err := b.SpecialInputs(ctx)
		if err != nil {
			return "", err
		}
		names := special.Names()
		if len(names) == 0 {
			return "No special audio inputs configured", nil
		}
		return "Special audio inputs: " + strings.Join(names, ", "), nil
	})

	r.handle("mute", func(ctx context.Context, req Request) (string, error) {
		input, err := stringParam(req, "input")
		if err != nil {
			return "", err
		}
		if err := b.SetInputMute(ctx, input, true); err != nil {
			return "", err
		}
		return "Muted " + input, nil
	})

	r.handle("unmute", func(ctx context.Context, req Request) (string, error) {
		input, err := stringParam(req, "input")
		if err != nil {
			return "", err
		}
		if err := b.SetInputMute(ctx, input, false); err != nil {
			return "", err
		}
		return "Unmuted " + input, nil
	})

	r.handle("toggle-mute", func(ctx context.Context, req Request) (string, error) {
		input, err := stringParam(req, "input")
		if err != nil {
			return "", err
		}
		muted, err := b.ToggleInputMute(ctx, input)
		if err != nil {
			return "", err
		}
		if muted {
			return input + " is now muted", nil
		}
		return input + " is now unmuted", nil
	})

	r.handle("get-volume", func(ctx context.Context, req Request) (string, error) {
		input, err := stringParam(req, "input")
		if err != nil {
			return "", err
		}
		v, err := b.InputVolume(ctx, input)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Volume of %s: %.3f (%.1f dB)", input, v.Mul, v.Db), nil
	})

	r.handle("set-volume", func(ctx context.Context, req Request) (string, error) {
		input, err := stringParam(req, "input")
		if err != nil {
			return "", err
		}
		volume, err := floatParam(req, "volume")
		if err != nil {
			return "", err
		}
		if volume < 0 || volume > 1 {
			return "", bridge.Validationf("volume must be between 0.0 and 1.0, got %v", volume)
		}
		if err := b.SetInputVolume(ctx, input, volume); err != nil {
			return "", err
		}
		return fmt.Sprintf("Volume of %s set to %.3f", input, volume), nil
	})

	r.handle("mute-all-special", func(ctx context.Context, req Request) (string, error) {
		special, err := b.SpecialInputs(ctx)
		if err != nil {
			return "", err
		}
		names := special.Names()
		if len(names) == 0 {
			return "No special audio inputs configured", nil
		}

		var muted, failed []string
		for _, name := range names {
			if err := b.SetInputMute(ctx, name, true); err != nil {
				failed = append(failed, fmt.Sprintf("%s (%v)", name, err))
				continue
			}
			muted = append(muted, name)
		}

		var sb strings.Builder
		if len(muted) > 0 {
			sb.WriteString("Muted: " + strings.Join(muted, ", "))
		}
		for _, f := range failed {
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString("Warning: could not mute " + f)
		}
		return sb.String(), nil
	})

	return r
}
