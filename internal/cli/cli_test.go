package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-uistate"
	"github.com/goliatone/go-uistate/pkg/storage"
)

func runCLI(t *testing.T, svc *uistate.Service, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(&app{svc: svc})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func newMemoryService() *uistate.Service {
	return uistate.NewService(storage.NewAdapter(storage.NewMemory()))
}

func TestSetShowAndClear(t *testing.T) {
	svc := newMemoryService()

	if _, err := runCLI(t, svc, "set", "customers", "filters", `{"search":"acme"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	out, err := runCLI(t, svc, "show", "customers", "--json")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	var record struct {
		Namespace string         `json:"namespace"`
		Filters   map[string]any `json:"filters"`
	}
	if err := json.Unmarshal([]byte(out), &record); err != nil {
		t.Fatalf("expected valid JSON, got %v: %q", err, out)
	}
	if record.Namespace != "customers" || record.Filters["search"] != "acme" {
		t.Fatalf("unexpected record %+v", record)
	}

	out, err = runCLI(t, svc, "clear", "customers")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if !strings.Contains(out, "Cleared customers") {
		t.Fatalf("unexpected clear output %q", out)
	}
	out, _ = runCLI(t, svc, "show", "customers")
	if !strings.Contains(out, "No persisted state") {
		t.Fatalf("expected empty state, got %q", out)
	}
}

func TestSetRejectsBadInput(t *testing.T) {
	svc := newMemoryService()

	cases := []struct {
		name string
		args []string
		want error
	}{
		{name: "namespace", args: []string{"set", "invoices", "filters", `{}`}, want: uistate.ErrUnknownNamespace},
		{name: "slot", args: []string{"set", "orders", "columns", `{}`}, want: uistate.ErrUnknownSlot},
		{name: "json", args: []string{"set", "orders", "sort", `{sortBy}`}, want: uistate.ErrInvalidJSON},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := runCLI(t, svc, tc.args...); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestVisitClearsOtherNamespaces(t *testing.T) {
	svc := newMemoryService()
	for _, ns := range []string{"customers", "orders", "roles"} {
		if _, err := runCLI(t, svc, "set", ns, "filters", `{"search":"x"}`); err != nil {
			t.Fatalf("set %s: %v", ns, err)
		}
	}

	out, err := runCLI(t, svc, "visit", "orders", "--json")
	if err != nil {
		t.Fatalf("visit: %v", err)
	}
	var result struct {
		Active  string `json:"active"`
		Cleared int    `json:"cleared"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Active != "orders" || result.Cleared != 2 {
		t.Fatalf("unexpected result %+v", result)
	}

	out, err = runCLI(t, svc, "namespaces", "--json")
	if err != nil {
		t.Fatalf("namespaces: %v", err)
	}
	var statuses []namespaceStatus
	if err := json.Unmarshal([]byte(out), &statuses); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, status := range statuses {
		if status.HasData != (status.Namespace == "orders") {
			t.Fatalf("unexpected status %+v", status)
		}
	}
}

func TestEvalCommand(t *testing.T) {
	svc := newMemoryService()
	if _, err := runCLI(t, svc, "set", "godown-reports", "filters", `{"search":"rice","godownId":"g2"}`); err != nil {
		t.Fatalf("set: %v", err)
	}

	out, err := runCLI(t, svc, "eval", "godown-reports", `godownId == "g2" && search != ""`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if strings.TrimSpace(out) != "true" {
		t.Fatalf("expected true, got %q", out)
	}

	out, err = runCLI(t, svc, "eval", "godown-reports", `filters.godownId == "g2"`, "--engine", "cel")
	if err != nil {
		t.Fatalf("eval cel: %v", err)
	}
	if strings.TrimSpace(out) != "true" {
		t.Fatalf("expected true, got %q", out)
	}

	if _, err := runCLI(t, svc, "eval", "godown-reports", "true", "--engine", "lua"); err == nil {
		t.Fatalf("expected unknown engine error")
	}
}

func TestNamespacesTable(t *testing.T) {
	out, err := runCLI(t, newMemoryService(), "namespaces")
	if err != nil {
		t.Fatalf("namespaces: %v", err)
	}
	for _, key := range []string{"customers", "delivery-invoices", "roles"} {
		if !strings.Contains(out, key) {
			t.Fatalf("expected %s in output %q", key, out)
		}
	}
}
