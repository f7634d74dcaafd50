package uistate

import (
	"context"
	"testing"

	"github.com/goliatone/go-uistate/pkg/activity"
)

func TestClearOtherNamespacesKeepsActiveUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, ns := range DefaultRegistry().Namespaces() {
		f.seed(t, ns, SlotFilters, `{"search":"`+ns.Key()+`"}`)
		f.seed(t, ns, SlotPagination, `{"page":2,"limit":50}`)
	}
	// A garbage slot on the active page must survive byte for byte too.
	f.seed(t, Orders, SlotSort, `{broken`)
	before := f.dump(t, Orders)

	cleared := f.svc.ClearOtherNamespaces(ctx, Orders)

	if got := f.dump(t, Orders); got != before {
		t.Fatalf("active namespace changed:\nbefore %s\nafter  %s", before, got)
	}
	for _, ns := range DefaultRegistry().Namespaces() {
		if ns == Orders {
			continue
		}
		if f.svc.NamespaceHasData(ctx, ns) {
			t.Fatalf("%s still holds data", ns)
		}
	}
	if want := DefaultRegistry().Len() - 1; cleared != want {
		t.Fatalf("expected %d cleared namespaces, got %d", want, cleared)
	}

	events := f.hook.Events()
	if len(events) != 1 || events[0].Verb != activity.VerbNamespacesInvalidated {
		t.Fatalf("expected a single invalidation event, got %v", f.hook.Verbs())
	}
	if events[0].ObjectID != "orders" {
		t.Fatalf("event should name the active namespace, got %q", events[0].ObjectID)
	}
	list, _ := events[0].Metadata["cleared"].([]string)
	if len(list) != cleared {
		t.Fatalf("cleared metadata mismatch: %v", events[0].Metadata)
	}
}

func TestClearOtherNamespacesOnEmptyStorage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if cleared := f.svc.ClearOtherNamespaces(ctx, Customers); cleared != 0 {
		t.Fatalf("expected nothing cleared, got %d", cleared)
	}
	if verbs := f.hook.Verbs(); len(verbs) != 1 {
		t.Fatalf("invalidation should still be reported, got %v", verbs)
	}
}

func TestClearOtherNamespacesRejectsUnregisteredActive(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name     string
		registry Registry
		active   Namespace
	}{
		{name: "zero namespace", registry: DefaultRegistry(), active: Namespace{}},
		{name: "outside subset", registry: DefaultRegistry().Subset(Customers, Orders), active: Roles},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, WithRegistry(tc.registry))
			f.seed(t, Customers, SlotFilters, `{"search":"acme"}`)

			if cleared := f.svc.ClearOtherNamespaces(ctx, tc.active); cleared != 0 {
				t.Fatalf("expected no clearing, got %d", cleared)
			}
			if !f.svc.NamespaceHasData(ctx, Customers) {
				t.Fatalf("data must survive a rejected invalidation")
			}
			if f.logger.errorCount() != 1 {
				t.Fatalf("expected one logged error, got %d", f.logger.errorCount())
			}
		})
	}
}

func TestClearOtherNamespacesHonoursRegistrySubset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, WithRegistry(DefaultRegistry().Subset(Customers, Orders)))

	f.seed(t, Customers, SlotFilters, `{"search":"acme"}`)
	f.seed(t, Roles, SlotFilters, `{"search":"admin"}`)

	if cleared := f.svc.ClearOtherNamespaces(ctx, Orders); cleared != 1 {
		t.Fatalf("expected only customers cleared, got %d", cleared)
	}
	if !f.svc.NamespaceHasData(ctx, Roles) {
		t.Fatalf("namespaces outside the registry are not invalidated")
	}
}
