package uistate

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/goliatone/go-uistate/pkg/activity"
)

// ClearOtherNamespaces wipes every registered namespace except active. Listing
// pages call it once when they mount, so the last listing visited is the
// only one whose state survives. active's slots are left untouched.
//
// It returns how many sibling namespaces held data. An unset or unregistered
// active namespace is logged as an error and nothing is cleared.
func (s *Service) ClearOtherNamespaces(ctx context.Context, active Namespace) int {
	if !s.registry.Contains(active) {
		s.logger.Error(ctx, "uistate: invalidation from unregistered namespace", "namespace", active.String())
		return 0
	}
	ctx, span := s.startSpan(ctx, "uistate.ClearOtherNamespaces", active)
	defer span.End()

	var cleared []string
	for _, ns := range s.registry.Namespaces() {
		if ns == active {
			continue
		}
		if removed := s.clear(ctx, ns); len(removed) > 0 {
			cleared = append(cleared, ns.key)
		}
	}

	if len(cleared) > 0 {
		s.logger.Debug(ctx, "uistate: sibling namespaces cleared", "active", active.key, "cleared", cleared)
	}
	span.SetAttributes(attribute.Int("uistate.cleared", len(cleared)))
	s.emit(ctx, activity.BuildNamespacesInvalidatedEvent(activity.StateEventInput{
		Namespace: active.key,
		Cleared:   cleared,
	}))
	return len(cleared)
}
