package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vaultpass/pwgen/internal/clipboard"
	"github.com/vaultpass/pwgen/internal/model"
	"github.com/vaultpass/pwgen/internal/notify"
	"github.com/vaultpass/pwgen/internal/reveal"
	"github.com/vaultpass/pwgen/internal/settings"
	"github.com/vaultpass/pwgen/internal/strength"
)

// User-facing messages.
const (
	MsgGenerated       = "Password generated successfully!"
	MsgGenerateFailed  = "Error generating password. Please try again."
	MsgSettingsSaved   = "Settings saved!"
	MsgSettingsCleared = "Settings cleared!"
	MsgSettingsFailed  = "Settings could not be saved"
	MsgNothingToCopy   = "No password to copy!"
	MsgCopyFailed      = "Failed to copy password"
)

const (
	// PrimarySlot addresses the single-value field in Copy.
	PrimarySlot = -1

	// PulseDuration is how long a multi slot stays marked after an update.
	PulseDuration = 300 * time.Millisecond

	// CopiedDuration is how long a slot shows its copy confirmation.
	CopiedDuration = 2 * time.Second
)

var (
	ErrMissingDependency = errors.New("missing controller dependency")
	ErrNoSuchSlot        = errors.New("no such slot")
	ErrNothingToCopy     = errors.New("nothing to copy")
)

// FormSource yields the current option values.
type FormSource interface {
	Settings() model.Settings
}

// GenerationClient requests secrets from the generation service.
type GenerationClient interface {
	Generate(ctx context.Context, req model.GenerateRequest) (model.GenerateResponse, error)
}

// LoadingIndicator shows that a request is in flight.
type LoadingIndicator interface {
	SetLoading(on bool)
}

// Slot holds one displayed secret.
type Slot interface {
	SetValue(v string)
	Value() string
}

// Pulser is implemented by slots that can briefly mark an update.
type Pulser interface {
	Pulse(d time.Duration)
}

// CopyMarker is implemented by slots that confirm a successful copy.
type CopyMarker interface {
	MarkCopied(d time.Duration)
}

// Revealer animates a new value into the primary display.
type Revealer interface {
	Reveal(target string) *reveal.Session
}

// Notifier shows transient messages.
type Notifier interface {
	Notify(message string, sev notify.Severity)
}

// SettingsPersister saves or clears the option record.
type SettingsPersister interface {
	Enabled() bool
	SetEnabled(enabled bool)
	Persist(ctx context.Context, s model.Settings) (settings.Outcome, error)
}

// StrengthView shows the rating of the primary value. ok is false when there
// is nothing to rate.
type StrengthView interface {
	SetStrength(r strength.Rating, ok bool)
}

// Deps are the collaborators a Controller drives. Form, Client, Primary and
// Notifier are required.
type Deps struct {
	Form      FormSource
	Client    GenerationClient
	Primary   Slot
	Slots     []Slot
	Notifier  Notifier
	Loading   LoadingIndicator
	Revealer  Revealer
	Persister SettingsPersister
	Copier    clipboard.Copier
	Strength  StrengthView
	Logger    *slog.Logger
}

// Controller orchestrates generation requests and their side effects on the
// display.
type Controller struct {
	form      FormSource
	client    GenerationClient
	primary   Slot
	slots     []Slot
	notifier  Notifier
	loading   LoadingIndicator
	revealer  Revealer
	persister SettingsPersister
	copier    clipboard.Copier
	strength  StrengthView
	logger    *slog.Logger
}

type noLoading struct{}

func (noLoading) SetLoading(bool) {}

// NewController creates a Controller.
func NewController(d Deps) (*Controller, error) {
	switch {
	case d.Form == nil:
		return nil, fmt.Errorf("%w: form", ErrMissingDependency)
	case d.Client == nil:
		return nil, fmt.Errorf("%w: client", ErrMissingDependency)
	case d.Primary == nil:
		return nil, fmt.Errorf("%w: primary slot", ErrMissingDependency)
	case d.Notifier == nil:
		return nil, fmt.Errorf("%w: notifier", ErrMissingDependency)
	}

	slots := d.Slots
	if len(slots) > model.MaxSlots {
		slots = slots[:model.MaxSlots]
	}

	c := &Controller{
		form:      d.Form,
		client:    d.Client,
		primary:   d.Primary,
		slots:     slots,
		notifier:  d.Notifier,
		loading:   d.Loading,
		revealer:  d.Revealer,
		persister: d.Persister,
		copier:    d.Copier,
		strength:  d.Strength,
		logger:    d.Logger,
	}
	if c.loading == nil {
		c.loading = noLoading{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// Generate requests a secret for the current options and routes the reply
// to the primary field or the multi slots. Failures are reported through the
// Notifier and also returned.
func (c *Controller) Generate(ctx context.Context) error {
	c.loading.SetLoading(true)
	defer c.loading.SetLoading(false)

	req := model.NewGenerateRequest(c.form.Settings())
	resp, err := c.client.Generate(ctx, req)
	if err != nil {
		c.logger.Error("generating password failed", "type", req.Kind, "error", err)
		c.notifier.Notify(MsgGenerateFailed, notify.Error)
		return err
	}

	if resp.Multi() {
		c.fillSlots(resp.Passwords)
	} else {
		c.showPrimary(resp.Single())
	}

	c.logger.Debug("password generated", "type", req.Kind, "multi", resp.Multi())
	c.notifier.Notify(MsgGenerated, notify.Success)
	return nil
}

func (c *Controller) fillSlots(values []string) {
	for i, v := range values {
		if i >= len(c.slots) {
			break
		}
		c.slots[i].SetValue(v)
		if p, ok := c.slots[i].(Pulser); ok {
			p.Pulse(PulseDuration)
		}
	}
}

func (c *Controller) showPrimary(v string) {
	c.primary.SetValue(v)
	if c.revealer != nil {
		c.revealer.Reveal(v)
	}
	if c.strength != nil {
		c.strength.SetStrength(strength.Rate(v))
	}
}

// HandleChange reacts to an option change: the options are persisted and a
// new secret is requested.
func (c *Controller) HandleChange(ctx context.Context) error {
	c.persist(ctx)
	return c.Generate(ctx)
}

// SetPersistence turns persistence on or off and immediately saves or clears
// the stored record.
func (c *Controller) SetPersistence(ctx context.Context, enabled bool) {
	if c.persister == nil {
		return
	}
	c.persister.SetEnabled(enabled)
	c.persist(ctx)
}

// PersistenceEnabled reports whether option changes are being saved.
func (c *Controller) PersistenceEnabled() bool {
	return c.persister != nil && c.persister.Enabled()
}

func (c *Controller) persist(ctx context.Context) {
	if c.persister == nil {
		return
	}
	outcome, err := c.persister.Persist(ctx, c.form.Settings())
	if err != nil {
		c.logger.Warn("persisting settings failed", "outcome", outcome, "error", err)
		c.notifier.Notify(MsgSettingsFailed, notify.Warning)
		return
	}
	switch outcome {
	case settings.Saved:
		c.notifier.Notify(MsgSettingsSaved, notify.Success)
	case settings.Cleared:
		c.notifier.Notify(MsgSettingsCleared, notify.Info)
	}
}

// Copy places the value of the addressed slot on the clipboard. index is
// PrimarySlot or a multi slot position.
func (c *Controller) Copy(ctx context.Context, index int) error {
	slot, err := c.slot(index)
	if err != nil {
		return err
	}

	v := slot.Value()
	if v == "" {
		c.notifier.Notify(MsgNothingToCopy, notify.Error)
		return ErrNothingToCopy
	}

	if c.copier == nil {
		c.notifier.Notify(MsgCopyFailed, notify.Error)
		return &clipboard.Error{}
	}
	if err := c.copier.Copy(ctx, v); err != nil {
		c.logger.Error("copying password failed", "slot", index, "error", err)
		c.notifier.Notify(MsgCopyFailed, notify.Error)
		return err
	}

	if m, ok := slot.(CopyMarker); ok {
		m.MarkCopied(CopiedDuration)
	}
	return nil
}

func (c *Controller) slot(index int) (Slot, error) {
	if index == PrimarySlot {
		return c.primary, nil
	}
	if index < 0 || index >= len(c.slots) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchSlot, index)
	}
	return c.slots[index], nil
}
