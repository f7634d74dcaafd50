// Package usersink records UI-state lifecycle events in a go-users activity
// feed, so support staff can see when a user's listing state was reset.
package usersink

import (
	"context"
	"strings"

	"github.com/goliatone/go-uistate/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Option configures a Forwarder.
type Option func(*Forwarder)

// WithVerbs replaces the set of verbs forwarded to the sink.
func WithVerbs(verbs ...string) Option {
	return func(f *Forwarder) {
		f.verbs = make(map[string]struct{}, len(verbs))
		for _, verb := range verbs {
			if verb = strings.TrimSpace(verb); verb != "" {
				f.verbs[verb] = struct{}{}
			}
		}
	}
}

// Forwarder is an activity.ActivityHook writing namespace events to a
// go-users ActivitySink. By default only clears and invalidations are
// forwarded; slot syncs happen on every setter and would flood the feed.
type Forwarder struct {
	sink  usertypes.ActivitySink
	verbs map[string]struct{}
}

var _ activity.ActivityHook = (*Forwarder)(nil)

// New returns a Forwarder for sink. A nil sink yields an inert Forwarder.
func New(sink usertypes.ActivitySink, opts ...Option) *Forwarder {
	f := &Forwarder{
		sink: sink,
		verbs: map[string]struct{}{
			activity.VerbNamespaceCleared:      {},
			activity.VerbNamespacesInvalidated: {},
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Notify implements activity.ActivityHook.
func (f *Forwarder) Notify(ctx context.Context, event activity.Event) error {
	if f == nil || f.sink == nil {
		return nil
	}
	event = activity.NormalizeEvent(event)
	if _, ok := f.verbs[event.Verb]; !ok || event.ObjectID == "" {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return f.sink.Log(ctx, toRecord(event))
}

// toRecord maps a UI-state event onto an activity record. UI state is only
// ever changed by the viewing user, so the user doubles as actor when the
// event carries no usable actor.
func toRecord(event activity.Event) usertypes.ActivityRecord {
	userID := parseUUID(event.UserID)
	actorID := parseUUID(event.ActorID)
	if actorID == uuid.Nil {
		actorID = userID
	}

	data := map[string]any{"namespace": event.ObjectID}
	for key, value := range event.Metadata {
		data[key] = value
	}

	return usertypes.ActivityRecord{
		ActorID:    actorID,
		UserID:     userID,
		TenantID:   parseUUID(event.TenantID),
		Verb:       event.Verb,
		ObjectType: event.ObjectType,
		ObjectID:   event.ObjectID,
		Channel:    event.Channel,
		Data:       data,
		OccurredAt: event.OccurredAt,
	}
}

func parseUUID(input string) uuid.UUID {
	id, err := uuid.Parse(input)
	if err != nil {
		return uuid.Nil
	}
	return id
}
