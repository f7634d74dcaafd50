package uistate

import (
	"fmt"
	"sort"
	"strings"

	celgo "github.com/google/cel-go/cel"
	functions "github.com/google/cel-go/common/functions"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// CELEvaluatorOption configures the CEL evaluator.
type CELEvaluatorOption func(*celEvaluator)

// CELWithProgramCache wires a ProgramCache into the CEL evaluator.
func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.cache = cache
	}
}

// CELWithFunctionRegistry exposes registry functions through call(name, args...).
func CELWithFunctionRegistry(registry *FunctionRegistry) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.registry = registry.Clone()
	}
}

// celEvaluator runs expressions with cel-go. Every state binding is declared
// as dyn, so programs are type-checked against the binding names only.
// namespace is a reserved word in CEL and is not exposed.
type celEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewCELEvaluator constructs an Evaluator backed by cel-go.
func NewCELEvaluator(opts ...CELEvaluatorOption) Evaluator {
	e := &celEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celEvaluator) Evaluate(ctx EvalContext, expression string) (any, error) {
	ctx = ctx.withDefaults()
	if expression == "" {
		return nil, wrapEvaluationError("cel", expression, ctx.namespaceLabel(), errEmptyExpression)
	}
	program, err := e.loadOrCompile(expression, ctx.State)
	if err != nil {
		return nil, wrapEvaluationError("cel", expression, ctx.namespaceLabel(), err)
	}
	out, _, err := program.Eval(e.activation(ctx))
	if err != nil {
		return nil, wrapEvaluationError("cel", expression, ctx.namespaceLabel(), err)
	}
	return out.Value(), nil
}

// Compile defers building the program until the first evaluation, because
// the declared variables depend on the state bindings.
func (e *celEvaluator) Compile(expression string) (CompiledExpr, error) {
	if expression == "" {
		return nil, wrapEvaluationError("cel", expression, "", errEmptyExpression)
	}
	return &celCompiled{evaluator: e, expression: expression}, nil
}

func (e *celEvaluator) loadOrCompile(expression string, state map[string]any) (celgo.Program, error) {
	names := make([]string, 0, len(state))
	for key := range state {
		if key == "now" || key == "args" || key == "namespace" || key == "call" {
			continue
		}
		names = append(names, key)
	}
	sort.Strings(names)

	cacheKey := "cel:" + strings.Join(names, ",") + "|" + expression
	if e.cache != nil {
		if cached, ok := e.cache.Get(cacheKey); ok {
			if program, ok := cached.(celgo.Program); ok {
				return program, nil
			}
		}
	}

	env, err := e.buildEnv(names)
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Set(cacheKey, program)
	}
	return program, nil
}

func (e *celEvaluator) buildEnv(names []string) (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("now", celgo.TimestampType),
		celgo.Variable("args", celgo.DynType),
	}
	if e.registry != nil {
		opts = append(opts, celgo.Function("call",
			celgo.Overload("call_string_list_dyn",
				[]*celgo.Type{celgo.StringType, celgo.ListType(celgo.DynType)},
				celgo.DynType,
				celgo.BinaryBinding(e.callBinding()),
			),
			celgo.Overload("call_string_dyn",
				[]*celgo.Type{celgo.StringType},
				celgo.DynType,
				celgo.UnaryBinding(func(name ref.Val) ref.Val {
					return e.callBinding()(name, types.NewDynamicList(types.DefaultTypeAdapter, []any{}))
				}),
			),
		))
	}
	for _, name := range names {
		opts = append(opts, celgo.Variable(name, celgo.DynType))
	}
	return celgo.NewEnv(opts...)
}

func (e *celEvaluator) activation(ctx EvalContext) map[string]any {
	return ctx.bindings()
}

// callBinding implements call(name, [args...]).
func (e *celEvaluator) callBinding() functions.BinaryOp {
	return func(nameVal, argsVal ref.Val) ref.Val {
		name, ok := nameVal.Value().(string)
		if !ok {
			return types.NewErr("uistate: call name must be string")
		}
		var args []any
		if list, ok := argsVal.(interface {
			Size() ref.Val
			Get(ref.Val) ref.Val
		}); ok {
			size, _ := list.Size().Value().(int64)
			for i := int64(0); i < size; i++ {
				args = append(args, list.Get(types.Int(i)).Value())
			}
		}
		result, err := e.registry.Call(name, args...)
		if err != nil {
			return types.NewErr("%s", err.Error())
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}

type celCompiled struct {
	evaluator  *celEvaluator
	expression string
}

func (c *celCompiled) Evaluate(ctx EvalContext) (any, error) {
	if c.evaluator == nil {
		return nil, fmt.Errorf("uistate: cel compiled expression missing evaluator")
	}
	return c.evaluator.Evaluate(ctx, c.expression)
}
