package uistate

import (
	"errors"
	"fmt"
)

// EvaluationError captures evaluator metadata alongside the originating error.
type EvaluationError struct {
	Engine    string
	Expr      string
	Namespace string
	Err       error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	expr := "expr=<empty>"
	if e.Expr != "" {
		expr = fmt.Sprintf("expr=%q", e.Expr)
	}
	return fmt.Sprintf("uistate: %s evaluator %s namespace=%s: %v", e.Engine, expr, e.Namespace, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// wrapEvaluationError attaches metadata, filling only the blanks of an
// existing EvaluationError.
func wrapEvaluationError(engine, expr, namespace string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Namespace == "" {
			evalErr.Namespace = namespace
		}
		return err
	}

	return &EvaluationError{
		Engine:    engine,
		Expr:      expr,
		Namespace: namespace,
		Err:       err,
	}
}

var errEmptyExpression = errors.New("expression must not be empty")
