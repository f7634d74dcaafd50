package uistate

import (
	"fmt"
	"strings"
)

// Namespace identifies one page's persisted state. Values can only be
// obtained from the registry below.
type Namespace struct {
	key string
}

var (
	Customers        = Namespace{key: "customers"}
	Orders           = Namespace{key: "orders"}
	SalesExecReports = Namespace{key: "sales-exec-reports"}
	CustomerReports  = Namespace{key: "customer-reports"}
	DeliveryInvoices = Namespace{key: "delivery-invoices"}
	Transits         = Namespace{key: "transits"}
	GodownReports    = Namespace{key: "godown-reports"}
	SalesReports     = Namespace{key: "sales-reports"}
	Roles            = Namespace{key: "roles"}
)

// Key returns the stable storage key.
func (n Namespace) Key() string {
	return n.key
}

func (n Namespace) String() string {
	if n.key == "" {
		return "<unset>"
	}
	return n.key
}

// IsZero reports whether n is the unset namespace.
func (n Namespace) IsZero() bool {
	return n.key == ""
}

// Registry is an ordered, closed set of namespaces.
type Registry struct {
	namespaces []Namespace
}

var defaultNamespaces = []Namespace{
	Customers,
	Orders,
	SalesExecReports,
	CustomerReports,
	DeliveryInvoices,
	Transits,
	GodownReports,
	SalesReports,
	Roles,
}

// DefaultRegistry returns every namespace known to the dashboard.
func DefaultRegistry() Registry {
	return Registry{namespaces: append([]Namespace(nil), defaultNamespaces...)}
}

// Namespaces returns the registered namespaces in registration order.
func (r Registry) Namespaces() []Namespace {
	return append([]Namespace(nil), r.namespaces...)
}

// Len returns the number of registered namespaces.
func (r Registry) Len() int {
	return len(r.namespaces)
}

// Contains reports whether ns is registered.
func (r Registry) Contains(ns Namespace) bool {
	if ns.IsZero() {
		return false
	}
	for _, candidate := range r.namespaces {
		if candidate == ns {
			return true
		}
	}
	return false
}

// Lookup resolves a key string (from a flag or URL) to a registered namespace.
func (r Registry) Lookup(key string) (Namespace, error) {
	key = strings.TrimSpace(key)
	for _, candidate := range r.namespaces {
		if candidate.key == key {
			return candidate, nil
		}
	}
	return Namespace{}, fmt.Errorf("%w: %q", ErrUnknownNamespace, key)
}

// Subset returns a registry restricted to the given namespaces. Namespaces not
// present in r are ignored, so a subset can never grow the closed set.
func (r Registry) Subset(namespaces ...Namespace) Registry {
	out := Registry{}
	for _, ns := range namespaces {
		if r.Contains(ns) && !out.Contains(ns) {
			out.namespaces = append(out.namespaces, ns)
		}
	}
	return out
}
