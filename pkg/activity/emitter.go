package activity

import (
	"context"
	"strings"
)

// DefaultChannel is applied to events emitted without a channel.
const DefaultChannel = "uistate"

// Config controls emission defaults.
type Config struct {
	Enabled bool
	Channel string
	// Identity fields stamped on events that do not carry their own.
	ActorID  string
	UserID   string
	TenantID string
}

// Emitter applies defaults and forwards events to hooks. A nil *Emitter is
// valid and emits nothing.
type Emitter struct {
	hooks  Hooks
	cfg    Config
	active bool
}

// NewEmitter constructs an emitter from hooks and configuration.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	cfg.Channel = strings.TrimSpace(cfg.Channel)
	if cfg.Channel == "" {
		cfg.Channel = DefaultChannel
	}
	kept := make(Hooks, 0, len(hooks))
	for _, hook := range hooks {
		if hook != nil {
			kept = append(kept, hook)
		}
	}
	return &Emitter{
		hooks:  kept,
		cfg:    cfg,
		active: cfg.Enabled && len(kept) > 0,
	}
}

// Enabled reports whether emissions will reach any hook.
func (e *Emitter) Enabled() bool {
	return e != nil && e.active
}

// Emit forwards event to all hooks.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.cfg.Channel
	}
	if strings.TrimSpace(event.ActorID) == "" {
		event.ActorID = e.cfg.ActorID
	}
	if strings.TrimSpace(event.UserID) == "" {
		event.UserID = e.cfg.UserID
	}
	if strings.TrimSpace(event.TenantID) == "" {
		event.TenantID = e.cfg.TenantID
	}
	return e.hooks.Notify(ctx, event)
}
