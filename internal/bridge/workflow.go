package bridge

import (
	"context"
	"fmt"
)

// StartRecordingOptions configures the start-recording workflow.
type StartRecordingOptions struct {
	// Directory overrides the record output directory before starting.
	// Empty means leave the directory untouched.
	Directory string

	// Format overrides the container format before starting. Empty
	// means leave the format untouched. Validation of the value happens
	// at the router boundary.
	Format string

	// MuteAudio mutes every special audio input before starting, so a
	// recording never begins with live microphones the operator forgot
	// about.
	MuteAudio bool
}

// StartRecordingResult reports the outcome of the start-recording
// workflow. Warnings carry non-fatal mute failures.
type StartRecordingResult struct {
	Muted    []string
	Warnings []string
}

// Workflow composes ordered multi-call sequences so that, from the
// caller, each reads as a single action with defined partial-failure
// behavior. Workflows perform no compensating transactions: side effects
// applied before a fatal step stay applied.
type Workflow struct {
	bridge *Bridge
}

// NewWorkflow creates a workflow layer over the given bridge.
func NewWorkflow(b *Bridge) *Workflow {
	return &Workflow{bridge: b}
}

// StartRecording runs the safety sequence: set the output directory and
// format if overridden (fatal on failure — the output file must land in
// the right place), mute the special audio inputs if requested (best
// effort — a mute failure is reported but never blocks the recording),
// then start the record output (fatal on failure).
func (w *Workflow) StartRecording(ctx context.Context, opts StartRecordingOptions) (*StartRecordingResult, error) {
	result := &StartRecordingResult{}

	if opts.Directory != "" {
		if err := w.bridge.SetRecordDirectory(ctx, opts.Directory); err != nil {
			return nil, err
		}
	}

	if opts.Format != "" {
		if err := w.bridge.SetRecordFormat(ctx, opts.Format); err != nil {
			return nil, err
		}
	}

	if opts.MuteAudio {
		w.muteSpecialInputs(ctx, result)
	}

	if err := w.bridge.StartRecord(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

// muteSpecialInputs mutes each configured special input, collecting
// failures as warnings. The mute pass is an advisory safety net, not a
// precondition for recording.
func (w *Workflow) muteSpecialInputs(ctx context.Context, result *StartRecordingResult) {
	special, err := w.bridge.SpecialInputs(ctx)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("could not enumerate special audio inputs: %v", err))
		return
	}

	for _, name := range special.Names() {
		if err := w.bridge.SetInputMute(ctx, name, true); err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("could not mute %q: %v", name, err))
			continue
		}
		result.Muted = append(result.Muted, name)
	}
}

// StopRecording stops the record output. The returned path is exactly
// what OBS reported; callers rely on it to locate the output file.
func (w *Workflow) StopRecording(ctx context.Context) (string, error) {
	return w.bridge.StopRecord(ctx)
}
