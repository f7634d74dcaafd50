package uistate

import "time"

// EvalContext carries the bindings an expression runs against.
type EvalContext struct {
	Namespace string
	// State holds the top-level bindings: filters, pagination, sort and the
	// flattened filter fields.
	State map[string]any
	Now   *time.Time
	Args  map[string]any
}

func (ctx EvalContext) withDefaults() EvalContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.State == nil {
		ctx.State = map[string]any{}
	}
	return ctx
}

func (ctx EvalContext) timestamp() time.Time {
	if ctx.Now == nil {
		return time.Now()
	}
	return *ctx.Now
}

func (ctx EvalContext) namespaceLabel() string {
	if ctx.Namespace == "" {
		return "unknown"
	}
	return ctx.Namespace
}

// bindings returns the variables every engine exposes.
func (ctx EvalContext) bindings() map[string]any {
	out := make(map[string]any, len(ctx.State)+3)
	for key, value := range ctx.State {
		out[key] = value
	}
	out["now"] = ctx.timestamp()
	out["args"] = ctx.Args
	out["namespace"] = ctx.Namespace
	return out
}

// Evaluator runs expressions against page state.
type Evaluator interface {
	Evaluate(ctx EvalContext, expr string) (any, error)
	Compile(expr string) (CompiledExpr, error)
}

// CompiledExpr is a reusable expression program.
type CompiledExpr interface {
	Evaluate(ctx EvalContext) (any, error)
}

func evaluatorEngineName(e Evaluator) string {
	switch e.(type) {
	case nil:
		return "unknown"
	case *exprEvaluator:
		return "expr"
	case *celEvaluator:
		return "cel"
	default:
		if isJSEvaluator(e) {
			return "js"
		}
		return "custom"
	}
}
