//go:build !js_eval

package uistate

// JSEvaluatorOption configures the goja evaluator. Without the js_eval build
// tag options are accepted and ignored.
type JSEvaluatorOption func(*jsEvaluator)

type jsEvaluator struct{}

// JSWithProgramCache is a no-op without the js_eval build tag.
func JSWithProgramCache(ProgramCache) JSEvaluatorOption { return nil }

// JSWithFunctionRegistry is a no-op without the js_eval build tag.
func JSWithFunctionRegistry(*FunctionRegistry) JSEvaluatorOption { return nil }

// NewJSEvaluator returns nil without the js_eval build tag; controllers then
// fall back to expr.
func NewJSEvaluator(...JSEvaluatorOption) Evaluator {
	return nil
}

func isJSEvaluator(Evaluator) bool {
	return false
}
