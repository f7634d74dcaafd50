package uistate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-uistate/layering"
	"github.com/goliatone/go-uistate/pkg/activity"
)

// Phase is the sync state of a Controller.
type Phase int

const (
	// PhaseHydrating is only observable while NewController reads storage.
	PhaseHydrating Phase = iota
	// PhaseIdle means in-memory state matches what was last persisted.
	PhaseIdle
	// PhaseDirty means a setter ran and the slots have not been written yet.
	PhaseDirty
)

func (p Phase) String() string {
	switch p {
	case PhaseHydrating:
		return "hydrating"
	case PhaseIdle:
		return "idle"
	case PhaseDirty:
		return "dirty"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Config describes one listing page's persisted state.
type Config[T any] struct {
	Namespace         Namespace
	DefaultFilters    T
	DefaultPagination PaginationState
	DefaultSort       SortState
	// Evaluator runs Evaluate and Matches. Nil uses a cached expr evaluator.
	Evaluator       Evaluator
	EvaluatorLogger EvaluatorLogger
	// DeferSync leaves the controller dirty after a setter until Sync is
	// called, so several setters produce one write.
	DeferSync bool
}

// Controller owns the filter, pagination and sort state of one listing page
// and keeps it in sync with the Service.
type Controller[T any] struct {
	mu  sync.RWMutex
	svc *Service
	cfg Config[T]

	filters    T
	pagination PaginationState
	sort       SortState

	phase    Phase
	hydrated bool

	evalOnce  sync.Once
	evaluator Evaluator
	evalLog   EvaluatorLogger
}

// NewController hydrates the page state from svc, falling back to the
// configured defaults per slot. Hydration never writes.
func NewController[T any](ctx context.Context, svc *Service, cfg Config[T]) *Controller[T] {
	if svc == nil {
		svc = NewService(nil)
	}
	c := &Controller[T]{
		svc:     svc,
		cfg:     cfg,
		phase:   PhaseHydrating,
		evalLog: cfg.EvaluatorLogger,
	}
	if c.evalLog == nil {
		c.evalLog = noopEvaluatorLogger{}
	}

	c.filters = GetNS(ctx, svc, cfg.Namespace, SlotFilters, layering.Clone(cfg.DefaultFilters))
	c.pagination = GetNS(ctx, svc, cfg.Namespace, SlotPagination, cfg.DefaultPagination)
	c.sort = GetNS(ctx, svc, cfg.Namespace, SlotSort, cfg.DefaultSort)

	c.hydrated = true
	c.phase = PhaseIdle
	return c
}

// Namespace returns the namespace the controller persists to.
func (c *Controller[T]) Namespace() Namespace {
	return c.cfg.Namespace
}

// Phase returns the current sync state.
func (c *Controller[T]) Phase() Phase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.phase
}

// Filters returns a copy of the current filters.
func (c *Controller[T]) Filters() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return layering.Clone(c.filters)
}

// Pagination returns the current pagination.
func (c *Controller[T]) Pagination() PaginationState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pagination
}

// Sort returns the current sort.
func (c *Controller[T]) Sort() SortState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sort
}

// SetFilters merges patch into the filters by JSON field name. Fields absent
// from patch keep their value. A patch value that does not fit the filter
// type returns an error and leaves state untouched.
func (c *Controller[T]) SetFilters(ctx context.Context, patch Patch) error {
	c.mu.Lock()
	merged, err := layering.ApplyPatch(c.filters, patch)
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("uistate: set filters on %s: %w", c.cfg.Namespace, err)
	}
	c.filters = merged
	c.phase = PhaseDirty
	c.mu.Unlock()

	c.afterSet(ctx)
	return nil
}

// SetPagination applies the non-nil fields of patch. A result with a page or
// limit below 1 returns an error and leaves state untouched.
func (c *Controller[T]) SetPagination(ctx context.Context, patch PaginationPatch) error {
	c.mu.Lock()
	next := patch.apply(c.pagination)
	if err := next.Validate(); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("uistate: set pagination on %s: %w", c.cfg.Namespace, err)
	}
	c.pagination = next
	c.phase = PhaseDirty
	c.mu.Unlock()

	c.afterSet(ctx)
	return nil
}

// SetSort applies the non-nil fields of patch. An order other than asc or
// desc returns an error and leaves state untouched.
func (c *Controller[T]) SetSort(ctx context.Context, patch SortPatch) error {
	c.mu.Lock()
	next := patch.apply(c.sort)
	if err := next.Validate(); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("uistate: set sort on %s: %w", c.cfg.Namespace, err)
	}
	c.sort = next
	c.phase = PhaseDirty
	c.mu.Unlock()

	c.afterSet(ctx)
	return nil
}

func (c *Controller[T]) afterSet(ctx context.Context) {
	if !c.cfg.DeferSync {
		c.Sync(ctx)
	}
}

// Sync writes all three slots when the controller is dirty. It does nothing
// before hydration completes or when there is nothing to write. Activity hooks
// run after the lock is released and may read the controller.
func (c *Controller[T]) Sync(ctx context.Context) {
	c.mu.Lock()
	if !c.hydrated || c.phase != PhaseDirty {
		c.mu.Unlock()
		return
	}

	ns := c.cfg.Namespace
	ctx, span := c.svc.startSpan(ctx, "uistate.Controller.Sync", ns)
	defer span.End()

	var written []string
	if err := SetNS(ctx, c.svc, ns, SlotFilters, c.filters); err != nil {
		span.RecordError(err)
		c.svc.logger.Error(ctx, "uistate: filters not persisted", "namespace", ns.String(), "error", err)
	} else {
		written = append(written, string(SlotFilters))
	}
	if err := SetNS(ctx, c.svc, ns, SlotPagination, c.pagination); err != nil {
		span.RecordError(err)
		c.svc.logger.Error(ctx, "uistate: pagination not persisted", "namespace", ns.String(), "error", err)
	} else {
		written = append(written, string(SlotPagination))
	}
	if err := SetNS(ctx, c.svc, ns, SlotSort, c.sort); err != nil {
		span.RecordError(err)
		c.svc.logger.Error(ctx, "uistate: sort not persisted", "namespace", ns.String(), "error", err)
	} else {
		written = append(written, string(SlotSort))
	}
	c.phase = PhaseIdle
	c.mu.Unlock()

	if !ns.IsZero() && len(written) > 0 {
		c.svc.emit(ctx, activity.BuildSlotsSyncedEvent(activity.StateEventInput{
			Namespace: ns.key,
			Slots:     written,
		}))
	}
}

// ClearAll resets every slot to its default and removes the namespace from
// storage. The defaults are not written back.
func (c *Controller[T]) ClearAll(ctx context.Context) {
	c.mu.Lock()
	c.filters = layering.Clone(c.cfg.DefaultFilters)
	c.pagination = c.cfg.DefaultPagination
	c.sort = c.cfg.DefaultSort
	c.phase = PhaseIdle
	c.mu.Unlock()

	c.svc.ClearNamespace(ctx, c.cfg.Namespace)
}

// IsPersisted reports whether storage currently holds state for the page.
func (c *Controller[T]) IsPersisted(ctx context.Context) bool {
	return c.svc.NamespaceHasData(ctx, c.cfg.Namespace)
}

// Evaluate runs expression against the current state. The bindings are
// filters, pagination, sort, namespace, now and every top-level filter field.
func (c *Controller[T]) Evaluate(expression string) (any, error) {
	expression = strings.TrimSpace(expression)
	evaluator := c.resolveEvaluator()
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	state, err := c.evalState()
	if err != nil {
		return nil, err
	}

	started := time.Now()
	result, err := evaluator.Evaluate(EvalContext{
		Namespace: c.cfg.Namespace.key,
		State:     state,
	}, expression)
	c.evalLog.LogEvaluation(EvaluatorLogEvent{
		Engine:    evaluatorEngineName(evaluator),
		Expr:      expression,
		Namespace: c.cfg.Namespace.key,
		Duration:  time.Since(started),
		Err:       err,
	})
	return result, err
}

// Matches evaluates expression and requires a boolean result.
func (c *Controller[T]) Matches(expression string) (bool, error) {
	result, err := c.Evaluate(expression)
	if err != nil {
		return false, err
	}
	matched, ok := result.(bool)
	if !ok {
		return false, wrapEvaluationError(evaluatorEngineName(c.resolveEvaluator()), expression, c.cfg.Namespace.key,
			fmt.Errorf("expected bool result, got %T", result))
	}
	return matched, nil
}

func (c *Controller[T]) resolveEvaluator() Evaluator {
	c.evalOnce.Do(func() {
		c.evaluator = c.cfg.Evaluator
		if c.evaluator == nil {
			c.evaluator = NewExprEvaluator(ExprWithProgramCache(NewProgramCache()))
		}
	})
	return c.evaluator
}

// evalState snapshots the state as plain maps keyed by JSON field name.
func (c *Controller[T]) evalState() (map[string]any, error) {
	c.mu.RLock()
	filters, err := toMap(c.filters)
	pagination := map[string]any{"page": c.pagination.Page, "limit": c.pagination.Limit}
	sort := map[string]any{"sortBy": c.sort.SortBy, "sortOrder": string(c.sort.SortOrder)}
	c.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("uistate: snapshot filters of %s: %w", c.cfg.Namespace, err)
	}

	for key, zero := range commonFilterFields {
		if _, ok := filters[key]; !ok {
			filters[key] = zero
		}
	}
	state := make(map[string]any, len(filters)+3)
	for key, value := range filters {
		state[key] = value
	}
	state["filters"] = filters
	state["pagination"] = pagination
	state["sort"] = sort
	return state, nil
}

func toMap(value any) (map[string]any, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if string(encoded) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, err
	}
	return out, nil
}
