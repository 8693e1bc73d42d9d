package bridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/obsctl/obsctl/internal/obsws"
)

// Bridge issues capability calls against the managed Session. Every call
// fails fast with ErrNotConnected when no Session is live; remote
// failures come back wrapped as ErrProtocol.
type Bridge struct {
	manager *Manager
}

// NewBridge creates a request bridge over the given connection manager.
func NewBridge(m *Manager) *Bridge {
	return &Bridge{manager: m}
}

// Manager returns the underlying connection manager.
func (b *Bridge) Manager() *Manager {
	return b.manager
}

// WindowDescriptor is one capturable window reported by a capture input's
// window property.
type WindowDescriptor struct {
	Name    string
	Value   string
	Enabled bool
}

// Call issues a raw request by name. Used by the fallback paths and the
// raw escape hatch; structured capabilities should use their dedicated
// methods.
func (b *Bridge) Call(ctx context.Context, requestType string, requestData any) (json.RawMessage, error) {
	c, err := b.manager.Client()
	if err != nil {
		return nil, err
	}
	data, err := c.Send(ctx, requestType, requestData)
	if err != nil {
		return nil, protocolf(requestType, err)
	}
	return data, nil
}

// --- General ---

// Version returns version information for the remote OBS instance.
func (b *Bridge) Version(ctx context.Context) (*obsws.Version, error) {
	c, err := b.manager.Client()
	if err != nil {
		return nil, err
	}
	v, err := c.GetVersion(ctx)
	if err != nil {
		return nil, protocolf("GetVersion", err)
	}
	return v, nil
}

// Stats returns OBS performance statistics.
func (b *Bridge) Stats(ctx context.Context) (*obsws.Stats, error) {
	c, err := b.manager.Client()
	if err != nil {
		return nil, err
	}
	s, err := c.GetStats(ctx)
	if err != nil {
		return nil, protocolf("GetStats", err)
	}
	return s, nil
}

// SetRecordFormat sets the container format for the record output via the
// active profile.
func (b *Bridge) SetRecordFormat(ctx context.Context, format string) error {
	c, err := b.manager.Client()
	if err != nil {
		return err
	}
	if err := c.SetProfileParameter(ctx, "Output", "RecFormat", format); err != nil {
		return protocolf("SetProfileParameter", err)
	}
	return nil
}

// --- Record ---

// StartRecord starts the record output.
func (b *Bridge) StartRecord(ctx context.Context) error {
	c, err := b.manager.Client()
	if err != nil {
		return err
	}
	if err := c.StartRecord(ctx); err != nil {
		return protocolf("StartRecord", err)
	}
	return nil
}

// StopRecord stops the record output and returns the output file path
// exactly as OBS reported it.
func (b *Bridge) StopRecord(ctx context.Context) (string, error) {
	c, err := b.manager.Client()
	if err != nil {
		return "", err
	}
	path, err := c.StopRecord(ctx)
	if err != nil {
		return "", protocolf("StopRecord", err)
	}
	return path, nil
}

// ToggleRecord toggles the record output.
func (b *Bridge) ToggleRecord(ctx context.Context) (bool, error) {
	c, err := b.manager.Client()
	if err != nil {
		return false, err
	}
	active, err := c.ToggleRecord(ctx)
	if err != nil {
		return false, protocolf("ToggleRecord", err)
	}
	return active, nil
}

// PauseRecord pauses the record output.
func (b *Bridge) PauseRecord(ctx context.Context) error {
	c, err := b.manager.Client()
	if err != nil {
		return err
	}
	if err := c.PauseRecord(ctx); err != nil {
		return protocolf("PauseRecord", err)
	}
	return nil
}

// ResumeRecord resumes the record output.
func (b *Bridge) ResumeRecord(ctx context.Context) error {
	c, err := b.manager.Client()
	if err != nil {
		return err
	}
	if err := c.ResumeRecord(ctx); err != nil {
		return protocolf("ResumeRecord", err)
	}
	return nil
}

// RecordStatus returns the state of the record output.
func (b *Bridge) RecordStatus(ctx context.Context) (*obsws.RecordStatus, error) {
	c, err := b.manager.Client()
	if err != nil {
		return nil, err
	}
	s, err := c.GetRecordStatus(ctx)
	if err != nil {
		return nil, protocolf("GetRecordStatus", err)
	}
	return s, nil
}

// RecordDirectory returns the record output directory.
//
// Raw path first: older obs-websocket servers reply with a bare
// recordDirectory string while newer ones add sibling fields the typed
// decoder was written against; the raw path decodes leniently and works
// across both. The typed method is kept as a secondary path only.
func (b *Bridge) RecordDirectory(ctx context.Context) (string, error) {
	c, err := b.manager.Client()
	if err != nil {
		return "", err
	}

	data, rawErr := c.Send(ctx, "GetRecordDirectory", nil)
	if rawErr == nil {
		var resp struct {
			RecordDirectory string `json:"recordDirectory"`
		}
		if err := json.Unmarshal(data, &resp); err == nil && resp.RecordDirectory != "" {
			return resp.RecordDirectory, nil
		}
	}

	if dir, err := c.GetRecordDirectory(ctx); err == nil {
		return dir, nil
	}

	if rawErr == nil {
		rawErr = fmt.Errorf("GetRecordDirectory returned no usable payload")
	}
	return "", protocolf("GetRecordDirectory", rawErr)
}

// SetRecordDirectory sets the record output directory.
//
// Raw path first, then the typed method as a secondary path; if both
// fail, the raw path's error is surfaced because it carries the server's
// rejection comment.
func (b *Bridge) SetRecordDirectory(ctx context.Context, dir string) error {
	c, err := b.manager.Client()
	if err != nil {
		return err
	}

	_, rawErr := c.Send(ctx, "SetRecordDirectory", map[string]any{
		"recordDirectory": dir,
	})
	if rawErr == nil {
		return nil
	}

	if err := c.SetRecordDirectory(ctx, dir); err == nil {
		return nil
	}

	return protocolf("SetRecordDirectory", rawErr)
}

// --- Stream ---

// StartStream starts the stream output.
func (b *Bridge) StartStream(ctx context.Context) error {
	c, err := b.manager.Client()
	if err != nil {
		return err
	}
	if err := c.StartStream(ctx); err != nil {
		return protocolf("StartStream", err)
	}
	return nil
}

// StopStream stops the stream output.
func (b *Bridge) StopStream(ctx context.Context) error {
	c, err := b.manager.Client()
	if err != nil {
		return err
	}
	if err := c.StopStream(ctx); err != nil {
		return protocolf("StopStream", err)
	}
	return nil
}

// ToggleStream toggles the stream output.
func (b *Bridge) ToggleStream(ctx context.Context) (bool, error) {
	c, err := b.manager.Client()
	if err != nil {
		return false, err
	}
	active, err := c.ToggleStream(ctx)
	if err != nil {
		return false, protocolf("ToggleStream", err)
	}
	return active, nil
}

// StreamStatus returns the state of the stream output.
func (b *Bridge) StreamStatus(ctx context.Context) (*obsws.StreamStatus, error) {
	c, err := b.manager.Client()
	if err != nil {
		return nil, err
	}
	s, err := c.GetStreamStatus(ctx)
	if err != nil {
		return nil, protocolf("GetStreamStatus", err)
	}
	return s, nil
}

// --- Virtual camera ---

// StartVirtualCam starts the virtual camera output.
func (b *Bridge) StartVirtualCam(ctx context.Context) error {
	c, err := b.manager.Client()
	if err != nil {
		return err
	}
	if err := c.StartVirtualCam(ctx); err != nil {
		return protocolf("StartVirtualCam", err)
	}
	return nil
}

// StopVirtualCam stops the virtual camera output.
func (b *Bridge) StopVirtualCam(ctx context.Context) error {
	c, err := b.manager.Client()
	if err != nil {
		return err
	}
	if err := c.StopVirtualCam(ctx); err != nil {
		return protocolf("StopVirtualCam", err)
	}
	return nil
}

// VirtualCamStatus reports whether the virtual camera output is active.
func (b *Bridge) VirtualCamStatus(ctx context.Context) (bool, error) {
	c, err := b.manager.Client()
	if err != nil {
		return false, err
	}
	active, err := c.GetVirtualCamStatus(ctx)
	if err != nil {
		return false, protocolf("GetVirtualCamStatus", err)
	}
	return active, nil
}

// --- Scenes ---

// Scenes returns all scenes plus the active program scene. A missing
// scene list decodes to an empty slice, never an error.
func (b *Bridge) Scenes(ctx context.Context) (*obsws.SceneList, error) {
	c, err := b.manager.Client()
	if err != nil {
		return nil, err
	}
	l, err := c.GetSceneList(ctx)
	if err != nil {
		return nil, protocolf("GetSceneList", err)
	}
	if l.Scenes == nil {
		l.Scenes = []obsws.Scene{}
	}
	return l, nil
}

// CurrentScene returns the name of the active program scene.
func (b *Bridge) CurrentScene(ctx context.Context) (string, error) {
	c, err := b.manager.Client()
	if err != nil {
		return "", err
	}
	name, err := c.GetCurrentProgramScene(ctx)
	if err != nil {
		return "", protocolf("GetCurrentProgramScene", err)
	}
	return name, nil
}

// SwitchScene switches the program output to the named scene.
func (b *Bridge) SwitchScene(ctx context.Context, scene string) error {
	c, err := b.manager.Client()
	if err != nil {
		return err
	}
	if err := c.SetCurrentProgramScene(ctx, scene); err != nil {
		return protocolf("SetCurrentProgramScene", err)
	}
	return nil
}

// CreateScene creates a new scene.
func (b *Bridge) CreateScene(ctx context.Context, scene string) error {
	c, err := b.manager.Client()
	if err != nil {
		return err
	}
	if err := c.CreateScene(ctx, scene); err != nil {
		return protocolf("CreateScene", err)
	}
	return nil
}

// RemoveScene removes a scene.
func (b *Bridge) RemoveScene(ctx context.Context, scene string) error {
	c, err := b.manager.Client()
	if err != nil {
		return err
	}
	if err := c.RemoveScene(ctx, scene); err != nil {
		return protocolf("RemoveScene", err)
	}
	return nil
}

// --- Inputs / sources ---

// Inputs returns all inputs, optionally filtered by kind. Absence of
// matches is a valid empty result, not an error.
func (b *Bridge) Inputs(ctx context.Context, kind string) ([]obsws.Input, error) {
	c, err := b.manager.Client()
	if err != nil {
		return nil, err
	}
	inputs, err := c.GetInputList(ctx, kind)
	if err != nil {
		return nil, protocolf("GetInputList", err)
	}
	if inputs == nil {
		inputs = []obsws.Input{}
	}
	return inputs, nil
}

// InputKinds returns the available input kinds.
func (b *Bridge) InputKinds(ctx context.Context) ([]string, error) {
	c, err := b.manager.Client()
	if err != nil {
		return nil, err
	}
	kinds, err := c.GetInputKindList(ctx)
	if err != nil {
		return nil, protocolf("GetInputKindList", err)
	}
	if kinds == nil {
		kinds = []string{}
	}
	return kinds, nil
}

// ListWindows enumerates the capturable windows of a capture input.
//
// Known upstream defect: the typed property-item decode expects string
// item values, but capture sources on several platforms report numeric or
// object values, so the structured path fails on exactly the inputs this
// call exists for. The raw path decodes leniently and is therefore tried
// first; the structured path is the secondary attempt. When both fail the
// raw path's error is surfaced, since it is the actionable one. This
// two-path chain is a workaround for that specific defect, not a general
// retry, and must not be copied to other capabilities.
func (b *Bridge) ListWindows(ctx context.Context, input, property string) ([]WindowDescriptor, error) {
	c, err := b.manager.Client()
	if err != nil {
		return nil, err
	}

	windows, rawErr := listWindowsRaw(ctx, c, input, property)
	if rawErr == nil {
		return windows, nil
	}

	items, typedErr := c.GetInputPropertiesListPropertyItems(ctx, input, property)
	if typedErr == nil {
		windows = make([]WindowDescriptor, 0, len(items))
		for _, it := range items {
			windows = append(windows, WindowDescriptor{Name: it.Name, Value: it.Value, Enabled: it.Enabled})
		}
		return windows, nil
	}

	return nil, protocolf("GetInputPropertiesListPropertyItems", rawErr)
}

// listWindowsRaw issues the property-item request by name and decodes the
// reply tolerating heterogeneous itemValue types. A missing or empty
// propertyItems field is a valid empty result.
func listWindowsRaw(ctx context.Context, c *obsws.Client, input, property string) ([]WindowDescriptor, error) {
	data, err := c.Send(ctx, "GetInputPropertiesListPropertyItems", map[string]any{
		"inputName":    input,
		"propertyName": property,
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		PropertyItems []struct {
			Name    string          `json:"itemName"`
			Enabled bool            `json:"itemEnabled"`
			Value   json.RawMessage `json:"itemValue"`
		} `json:"propertyItems"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse property items: %w", err)
	}

	windows := make([]WindowDescriptor, 0, len(resp.PropertyItems))
	for _, it := range resp.PropertyItems {
		windows = append(windows, WindowDescriptor{
			Name:    it.Name,
			Value:   rawToString(it.Value),
			Enabled: it.Enabled,
		})
	}
	return windows, nil
}

// rawToString renders an itemValue of any JSON type as a string.
func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// CreateInput creates a new input inside a scene.
func (b *Bridge) CreateInput(ctx context.Context, scene, name, kind string, settings map[string]any) (int, error) {
	c, err := b.manager.Client()
	if err != nil {
		return 0, err
	}
	itemID, err := c.CreateInput(ctx, scene, name, kind, settings)
	if err != nil {
		return 0, protocolf("CreateInput", err)
	}
	return itemID, nil
}

// RemoveInput removes an input by name.
func (b *Bridge) RemoveInput(ctx context.Context, name string) error {
	c, err := b.manager.Client()
	if err != nil {
		return err
	}
	if err := c.RemoveInput(ctx, name); err != nil {
		return protocolf("RemoveInput", err)
	}
	return nil
}

// InputSettings returns an input's settings and kind.
func (b *Bridge) InputSettings(ctx context.Context, name string) (json.RawMessage, string, error) {
	c, err := b.manager.Client()
	if err != nil {
		return nil, "", err
	}
	settings, kind, err := c.GetInputSettings(ctx, name)
	if err != nil {
		return nil, "", protocolf("GetInputSettings", err)
	}
	return settings, kind, nil
}

// SetInputSettings merges settings over an input's existing ones.
func (b *Bridge) SetInputSettings(ctx context.Context, name string, settings map[string]any) error {
	c, err := b.manager.Client()
	if err != nil {
		return err
	}
	if err := c.SetInputSettings(ctx, name, settings, true); err != nil {
		return protocolf("SetInputSettings", err)
	}
	return nil
}

// SceneItems returns the source placements of a scene.
func (b *Bridge) SceneItems(ctx context.Context, scene string) ([]obsws.SceneItem, error) {
	c, err := b.manager.Client()
	if err != nil {
		return nil, err
	}
	items, err := c.GetSceneItemList(ctx, scene)
	if err != nil {
		return nil, protocolf("GetSceneItemList", err)
	}
	if items == nil {
		items = []obsws.SceneItem{}
	}
	return items, nil
}

// SetSceneItemEnabled shows or hides a scene item.
func (b *Bridge) SetSceneItemEnabled(ctx context.Context, scene string, itemID int, enabled bool) error {
	c, err := b.manager.Client()
	if err != nil {
		return err
	}
	if err := c.SetSceneItemEnabled(ctx, scene, itemID, enabled); err != nil {
		return protocolf("SetSceneItemEnabled", err)
	}
	return nil
}

// --- Audio ---

// SpecialInputs returns the fixed-role audio inputs.
func (b *Bridge) SpecialInputs(ctx context.Context) (*obsws.SpecialInputs, error) {
	c, err := b.manager.Client()
	if err != nil {
		return nil, err
	}
	s, err := c.GetSpecialInputs(ctx)
	if err != nil {
		return nil, protocolf("GetSpecialInputs", err)
	}
	return s, nil
}

// InputMute reports whether an input is muted.
func (b *Bridge) InputMute(ctx context.Context, name string) (bool, error) {
	c, err := b.manager.Client()
	if err != nil {
		return false, err
	}
	muted, err := c.GetInputMute(ctx, name)
	if err != nil {
		return false, protocolf("GetInputMute", err)
	}
	return muted, nil
}

// SetInputMute mutes or unmutes an input.
func (b *Bridge) SetInputMute(ctx context.Context, name string, muted bool) error {
	c, err := b.manager.Client()
	if err != nil {
		return err
	}
	if err := c.SetInputMute(ctx, name, muted); err != nil {
		return protocolf("SetInputMute", err)
	}
	return nil
}

// ToggleInputMute toggles an input's mute state.
func (b *Bridge) ToggleInputMute(ctx context.Context, name string) (bool, error) {
	c, err := b.manager.Client()
	if err != nil {
		return false, err
	}
	muted, err := c.ToggleInputMute(ctx, name)
	if err != nil {
		return false, protocolf("ToggleInputMute", err)
	}
	return muted, nil
}

// InputVolume returns an input's volume. The linear multiplier is the
// primary unit; the dB value is display-only and round-trips only
// approximately.
func (b *Bridge) InputVolume(ctx context.Context, name string) (*obsws.VolumeInfo, error) {
	c, err := b.manager.Client()
	if err != nil {
		return nil, err
	}
	v, err := c.GetInputVolume(ctx, name)
	if err != nil {
		return nil, protocolf("GetInputVolume", err)
	}
	return v, nil
}

// SetInputVolume sets an input's volume as a linear multiplier in [0, 1].
// Range checking happens at the router boundary before any remote call.
func (b *Bridge) SetInputVolume(ctx context.Context, name string, mul float64) error {
	c, err := b.manager.Client()
	if err != nil {
		return err
	}
	if err := c.SetInputVolume(ctx, name, mul); err != nil {
		return protocolf("SetInputVolume", err)
	}
	return nil
}

// --- Media ---

// Screenshot captures a source to an image file on the OBS host and
// returns the path written. The destination directory is the caller's
// responsibility.
func (b *Bridge) Screenshot(ctx context.Context, source, format, path string, width, height int) (string, error) {
	c, err := b.manager.Client()
	if err != nil {
		return "", err
	}
	written, err := c.SaveSourceScreenshot(ctx, source, format, path, width, height)
	if err != nil {
		return "", protocolf("SaveSourceScreenshot", err)
	}
	return written, nil
}
