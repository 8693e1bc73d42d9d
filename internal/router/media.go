package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/obsctl/obsctl/internal/bridge"
)

// screenshotFormats are the image formats accepted for screenshots.
var screenshotFormats = []string{"png", "jpg", "jpeg", "bmp"}

// validateScreenshotFormat rejects formats outside the supported set.
func validateScreenshotFormat(format string) error {
	for _, f := range screenshotFormats {
		if format == f {
			return nil
		}
	}
	return bridge.Validationf("invalid image format %q (valid formats: %s)",
		format, strings.Join(screenshotFormats, ", "))
}

// NewMedia builds the media resource router.
func NewMedia(b *bridge.Bridge) *Router {
	r := newRouter("media")

	r.handle("screenshot", func(ctx context.Context, req Request) (string, error) {
		source, err := stringParam(req, "source")
		if err != nil {
			return "", err
		}
		path, err := stringParam(req, "path")
		if err != nil {
			return "", err
		}
		format, err := optStringParam(req, "format", "png")
		if err != nil {
			return "", err
		}
		if err := validateScreenshotFormat(format); err != nil {
			return "", err
		}
		width, err := optIntParam(req, "width", 0)
		if err != nil {
			return "", err
		}
		height, err := optIntParam(req, "height", 0)
		if err != nil {
			return "", err
		}
		if width < 0 || height < 0 {
			return "", bridge.Validationf("width and height must not be negative")
		}

		written, err := b.Screenshot(ctx, source, format, path, width, height)
		if err != nil {
			return "", err
		}
		return "Screenshot saved to " + written, nil
	})

	r.handle("virtualcam-start", func(ctx context.Context, req Request) (string, error) {
		if err := b.StartVirtualCam(ctx); err != nil {
			return "", err
		}
		return "Virtual camera started", nil
	})

	r.handle("virtualcam-stop", func(ctx context.Context, req Request) (string, error) {
		if err := b.StopVirtualCam(ctx); err != nil {
			return "", err
		}
		return "Virtual camera stopped", nil
	})

	r.handle("virtualcam-status", func(ctx context.Context, req Request) (string, error) {
		active, err := b.VirtualCamStatus(ctx)
		if err != nil {
			return "", err
		}
		if active {
			return "Virtual camera is active", nil
		}
		return "Virtual camera is inactive", nil
	})

	r.handle("stats", func(ctx context.Context, req Request) (string, error) {
		s, err := b.Stats(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(
			"CPU %.1f%%, memory %.1f MB, %.1f FPS, render time %.2f ms\n"+
				"Frames skipped: render %d/%d, output %d/%d",
			s.CPUUsage, s.MemoryUsage, s.ActiveFPS, s.AverageFrameRenderTime,
			s.RenderSkippedFrames, s.RenderTotalFrames,
			s.OutputSkippedFrames, s.OutputTotalFrames), nil
	})

	return r
}
