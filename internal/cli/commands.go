package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-uistate"
)

type namespaceStatus struct {
	Namespace string `json:"namespace"`
	HasData   bool   `json:"hasData"`
}

func newNamespacesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "namespaces",
		Short: "List registered namespaces and whether they hold state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)
			var statuses []namespaceStatus
			for _, ns := range a.svc.Registry().Namespaces() {
				statuses = append(statuses, namespaceStatus{
					Namespace: ns.Key(),
					HasData:   a.svc.NamespaceHasData(ctx, ns),
				})
			}
			if a.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), statuses)
			}

			p := printer{w: cmd.OutOrStdout()}
			p.section("Namespaces")
			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				rows = append(rows, []string{status.Namespace, strconv.FormatBool(status.HasData)})
			}
			p.table([]string{"Namespace", "Has data"}, rows)
			return nil
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <namespace>",
		Short: "Print the persisted slots of a namespace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			record := a.svc.Snapshot(commandContext(cmd), ns)
			if a.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), record)
			}

			p := printer{w: cmd.OutOrStdout()}
			p.section("State of " + ns.Key())
			if record.Empty() {
				p.empty("No persisted state")
				return nil
			}
			for _, slot := range uistate.Slots() {
				p.labelValue(string(slot), rawOrDash(record, slot))
			}
			return nil
		},
	}
}

func rawOrDash(record uistate.Record, slot uistate.Slot) string {
	var raw []byte
	switch slot {
	case uistate.SlotFilters:
		raw = record.Filters
	case uistate.SlotPagination:
		raw = record.Pagination
	case uistate.SlotSort:
		raw = record.Sort
	}
	if len(raw) == 0 {
		return "-"
	}
	return string(raw)
}

func newSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <namespace> <slot> <json>",
		Short: "Overwrite one slot with a JSON value",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			slot, err := uistate.ParseSlot(args[1])
			if err != nil {
				return err
			}
			if err := a.svc.WriteRaw(commandContext(cmd), ns, slot, args[2]); err != nil {
				return err
			}
			if a.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), map[string]string{
					"namespace": ns.Key(),
					"slot":      string(slot),
					"key":       a.svc.Key(ns, slot),
				})
			}
			printer{w: cmd.OutOrStdout()}.success(fmt.Sprintf("Wrote %s", a.svc.Key(ns, slot)))
			return nil
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <namespace>",
		Short: "Remove every slot of a namespace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)
			had := a.svc.NamespaceHasData(ctx, ns)
			a.svc.ClearNamespace(ctx, ns)
			if a.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), map[string]any{"namespace": ns.Key(), "hadData": had})
			}
			p := printer{w: cmd.OutOrStdout()}
			if !had {
				p.warning(ns.Key() + " held no state")
				return nil
			}
			p.success("Cleared " + ns.Key())
			return nil
		},
	}
}

func newVisitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "visit <namespace>",
		Short: "Mount a listing page: clear every other namespace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			cleared := a.svc.ClearOtherNamespaces(commandContext(cmd), ns)
			if a.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), map[string]any{"active": ns.Key(), "cleared": cleared})
			}
			printer{w: cmd.OutOrStdout()}.success(fmt.Sprintf("Visited %s, cleared %d other namespace(s)", ns.Key(), cleared))
			return nil
		},
	}
}
