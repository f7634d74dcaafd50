package activity

import (
	"strings"
	"time"
)

const (
	VerbSlotsSynced           = "uistate.slots.synced"
	VerbNamespaceCleared      = "uistate.namespace.cleared"
	VerbNamespacesInvalidated = "uistate.namespaces.invalidated"

	objectTypeNamespace = "uistate.namespace"
)

// StateEventInput describes the common fields for UI-state lifecycle events.
type StateEventInput struct {
	ActorID   string
	UserID    string
	TenantID  string
	Channel   string
	Namespace string
	// Slots lists the slots written or removed.
	Slots []string
	// Cleared lists namespaces wiped by an invalidation.
	Cleared    []string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildSlotsSyncedEvent describes a controller writing its slots back.
func BuildSlotsSyncedEvent(input StateEventInput) Event {
	return buildStateEvent(VerbSlotsSynced, input)
}

// BuildNamespaceClearedEvent describes a namespace being removed.
func BuildNamespaceClearedEvent(input StateEventInput) Event {
	return buildStateEvent(VerbNamespaceCleared, input)
}

// BuildNamespacesInvalidatedEvent describes a listing page mount wiping its
// sibling namespaces. Namespace is the page that stayed active.
func BuildNamespacesInvalidatedEvent(input StateEventInput) Event {
	return buildStateEvent(VerbNamespacesInvalidated, input)
}

func buildStateEvent(verb string, input StateEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if len(input.Slots) > 0 {
		metadata = ensureMetadata(metadata)
		metadata["slots"] = append([]string{}, input.Slots...)
	}
	if verb == VerbNamespacesInvalidated {
		metadata = ensureMetadata(metadata)
		metadata["cleared"] = append([]string{}, input.Cleared...)
	}

	objectID := strings.TrimSpace(input.Namespace)
	if objectID == "" {
		objectID = objectTypeNamespace
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: objectTypeNamespace,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
