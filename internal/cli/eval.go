package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-uistate"
)

func newEvalCmd(a *app) *cobra.Command {
	var engine string
	cmd := &cobra.Command{
		Use:   "eval <namespace> <expression>",
		Short: "Evaluate an expression against a namespace's state",
		Long: `Hydrate a namespace the way its listing page would and evaluate an
expression against it. Bindings: filters, pagination, sort, namespace, now
and every top-level filter field.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			evaluator, err := evaluatorFor(engine)
			if err != nil {
				return err
			}
			ctrl := uistate.NewController(commandContext(cmd), a.svc, uistate.Config[map[string]any]{
				Namespace:         ns,
				DefaultFilters:    map[string]any{},
				DefaultPagination: uistate.PaginationState{Page: 1, Limit: 10},
				DefaultSort:       uistate.SortState{SortOrder: uistate.SortAsc},
				Evaluator:         evaluator,
			})
			result, err := ctrl.Evaluate(args[1])
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), map[string]any{"namespace": ns.Key(), "result": result})
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVar(&engine, "engine", "expr", "Expression engine: expr, cel or js")
	return cmd
}

func evaluatorFor(engine string) (uistate.Evaluator, error) {
	cache := uistate.NewProgramCache()
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", "expr":
		return uistate.NewExprEvaluator(uistate.ExprWithProgramCache(cache)), nil
	case "cel":
		return uistate.NewCELEvaluator(uistate.CELWithProgramCache(cache)), nil
	case "js":
		if evaluator := uistate.NewJSEvaluator(uistate.JSWithProgramCache(cache)); evaluator != nil {
			return evaluator, nil
		}
		return nil, fmt.Errorf("%w: js engine requires the js_eval build tag", uistate.ErrNoEvaluator)
	default:
		return nil, fmt.Errorf("unknown engine %q (want expr, cel or js)", engine)
	}
}
