package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/obsctl/obsctl/internal/bridge"
)

// recordFormats are the container formats accepted for recordings.
var recordFormats = []string{"mp4", "mkv", "flv", "mov", "ts"}

// validateRecordFormat rejects formats outside the supported set. The
// message enumerates every valid format.
func validateRecordFormat(format string) error {
	for _, f := range recordFormats {
		if format == f {
			return nil
		}
	}
	return bridge.Validationf("invalid format %q (valid formats: %s)",
		format, strings.Join(recordFormats, ", "))
}

// NewRecording builds the recording resource router.
func NewRecording(b *bridge.Bridge, w *bridge.Workflow) *Router {
	r := newRouter("recording")

	r.handle("start", func(ctx context.Context, req Request) (string, error) {
		directory, err := optStringParam(req, "directory", "")
		if err != nil {
			return "", err
		}
		format, err := optStringParam(req, "format", "")
		if err != nil {
			return "", err
		}
		if format != "" {
			if err := validateRecordFormat(format); err != nil {
				return "", err
			}
		}
		muteAudio, err := optBoolParam(req, "mute_audio", true)
		if err != nil {
			return "", err
		}

		result, err := w.StartRecording(ctx, bridge.StartRecordingOptions{
			Directory: directory,
			Format:    format,
			MuteAudio: muteAudio,
		})
		if err != nil {
			return "", err
		}

		var sb strings.Builder
		sb.WriteString("Recording started")
		if len(result.Muted) > 0 {
			fmt.Fprintf(&sb, " (muted: %s)", strings.Join(result.Muted, ", "))
		}
		for _, warning := range result.Warnings {
			sb.WriteString("\nWarning: ")
			sb.WriteString(warning)
		}
		return sb.String(), nil
	})

	r.handle("stop", func(ctx context.Context, req Request) (string, error) {
		path, err := w.StopRecording(ctx)
		if err != nil {
			return "", err
		}
		return "Recording stopped. Output file: " + path, nil
	})

	r.handle("pause", func(ctx context.Context, req Request) (string, error) {
		if err := b.PauseRecord(ctx); err != nil {
			return "", err
		}
		return "Recording paused", nil
	})

	r.handle("resume", func(ctx context.Context, req Request) (string, error) {
		if err := b.ResumeRecord(ctx); err != nil {
			return "", err
		}
		return "Recording resumed", nil
	})

	r.handle("toggle", func(ctx context.Context, req Request) (string, error) {
		active, err := b.ToggleRecord(ctx)
		if err != nil {
			return "", err
		}
		if active {
			return "Recording started", nil
		}
		return "Recording stopped", nil
	})

	r.handle("status", func(ctx context.Context, req Request) (string, error) {
		s, err := b.RecordStatus(ctx)
		if err != nil {
			return "", err
		}
		if !s.Active {
			return "Not recording", nil
		}
		state := "Recording"
		if s.Paused {
			state = "Recording (paused)"
		}
		return fmt.Sprintf("%s: %s, %d bytes written", state, s.Timecode, s.Bytes), nil
	})

	r.handle("get-directory", func(ctx context.Context, req Request) (string, error) {
		dir, err := b.RecordDirectory(ctx)
		if err != nil {
			return "", err
		}
		return "Record directory: " + dir, nil
	})

	r.handle("set-directory", func(ctx context.Context, req Request) (string, error) {
		dir, err := stringParam(req, "directory")
		if err != nil {
			return "", err
		}
		if err := b.SetRecordDirectory(ctx, dir); err != nil {
			return "", err
		}
		return "Record directory set to " + dir, nil
	})

	return r
}
