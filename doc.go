// Package uistate persists per-page listing state (filters, pagination and
// sort) for the operations dashboard and keeps at most one page's state alive
// at a time.
//
// # Layers
//
//	storage.Backend -> storage.Adapter -> Service -> Controller[T]
//
// The Backend is the raw key/value store (memory, SQLite, no-op). The Adapter
// makes it best-effort: missing or unreadable keys read as absent and write
// failures are logged and dropped. The Service scopes keys by (namespace,
// slot) and owns JSON encoding. A Controller gives one page its three state
// slots with a hydrate-then-sync lifecycle.
//
// # Namespaces
//
// Namespaces come from a closed registry (Customers, Orders, ...). The
// Namespace type cannot be constructed outside this package, so a page cannot
// invent a namespace that would escape invalidation.
//
// # Invalidation
//
// Each top-level listing page calls Service.ClearOtherNamespaces with its own
// namespace when it mounts. Filters survive a round trip to a detail view and
// back, but are reset once the user visits a different listing page.
//
// # Quick start
//
//	svc := uistate.NewService(storage.NewAdapter(storage.NewMemory()))
//	svc.ClearOtherNamespaces(ctx, uistate.Customers)
//
//	ctrl := uistate.NewController(ctx, svc, uistate.Config[uistate.FilterState]{
//	    Namespace:         uistate.Customers,
//	    DefaultPagination: uistate.PaginationState{Page: 1, Limit: 10},
//	    DefaultSort:       uistate.SortState{SortBy: "name", SortOrder: uistate.SortAsc},
//	})
//	_ = ctrl.SetFilters(ctx, uistate.Patch{"search": "acme"})
//
// Persistence is never a source of truth: nothing in this package returns a
// storage error to the page.
package uistate
