package uistate

import (
	"time"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// ExprEvaluatorOption configures an expr evaluator instance.
type ExprEvaluatorOption func(*exprEvaluator)

// ExprWithProgramCache wires a ProgramCache into the expr evaluator.
func ExprWithProgramCache(cache ProgramCache) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		e.cache = cache
	}
}

// ExprWithFunctionRegistry exposes registry functions by name and through
// call(name, args...).
func ExprWithFunctionRegistry(registry *FunctionRegistry) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		e.registry = registry.Clone()
	}
}

// exprEvaluator runs expressions with github.com/expr-lang/expr. Unknown
// identifiers evaluate to nil rather than failing, so a page can reference
// an optional extension field before it has been set.
type exprEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewExprEvaluator constructs the default Evaluator.
func NewExprEvaluator(opts ...ExprEvaluatorOption) Evaluator {
	e := &exprEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *exprEvaluator) Evaluate(ctx EvalContext, expression string) (any, error) {
	ctx = ctx.withDefaults()
	if expression == "" {
		return nil, wrapEvaluationError("expr", expression, ctx.namespaceLabel(), errEmptyExpression)
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, wrapEvaluationError("expr", expression, ctx.namespaceLabel(), err)
	}
	result, err := exprlang.Run(program, ctx.bindings())
	if err != nil {
		return nil, wrapEvaluationError("expr", expression, ctx.namespaceLabel(), err)
	}
	return result, nil
}

func (e *exprEvaluator) Compile(expression string) (CompiledExpr, error) {
	if expression == "" {
		return nil, wrapEvaluationError("expr", expression, "", errEmptyExpression)
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, wrapEvaluationError("expr", expression, "", err)
	}
	return &exprCompiled{expression: expression, program: program}, nil
}

func (e *exprEvaluator) loadOrCompile(expression string) (*exprvm.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get("expr:" + expression); ok {
			if program, ok := cached.(*exprvm.Program); ok {
				return program, nil
			}
		}
	}
	options := []exprlang.Option{
		exprlang.Env(exprEnvironment()),
		exprlang.AllowUndefinedVariables(),
	}
	if e.registry != nil {
		options = append(options, exprlang.Function("call", e.registry.callHelper))
		for _, name := range e.registry.Names() {
			fn := name
			options = append(options, exprlang.Function(fn, func(arguments ...any) (any, error) {
				return e.registry.Call(fn, arguments...)
			}))
		}
	}
	program, err := exprlang.Compile(expression, options...)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Set("expr:"+expression, program)
	}
	return program, nil
}

// exprEnvironment declares the bindings every controller provides. Declaring
// them keeps names such as sort and now from resolving to expr builtins.
func exprEnvironment() map[string]any {
	env := map[string]any{
		"filters":    map[string]any{},
		"pagination": map[string]any{},
		"sort":       map[string]any{},
		"namespace":  "",
		"now":        time.Time{},
		"args":       map[string]any{},
	}
	for key, zero := range commonFilterFields {
		env[key] = zero
	}
	return env
}

type exprCompiled struct {
	expression string
	program    *exprvm.Program
}

func (c *exprCompiled) Evaluate(ctx EvalContext) (any, error) {
	ctx = ctx.withDefaults()
	result, err := exprlang.Run(c.program, ctx.bindings())
	if err != nil {
		return nil, wrapEvaluationError("expr", c.expression, ctx.namespaceLabel(), err)
	}
	return result, nil
}
