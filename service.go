package uistate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-uistate/internal/hydrate"
	"github.com/goliatone/go-uistate/pkg/activity"
	"github.com/goliatone/go-uistate/pkg/logging"
	"github.com/goliatone/go-uistate/pkg/storage"
)

// DefaultKeyPrefix is the first segment of every composite storage key.
const DefaultKeyPrefix = "uistate"

const tracerName = "github.com/goliatone/go-uistate"

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithKeyPrefix overrides the composite key prefix. Changing it orphans data
// written under the previous prefix.
func WithKeyPrefix(prefix string) ServiceOption {
	return func(s *Service) {
		if prefix = strings.TrimSpace(prefix); prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithServiceLogger sets the logger for programmer errors and dropped events.
func WithServiceLogger(l logging.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logging.OrNop(l)
	}
}

// WithActivity wires an activity emitter for sync, clear and invalidation events.
func WithActivity(emitter *activity.Emitter) ServiceOption {
	return func(s *Service) {
		s.emitter = emitter
	}
}

// WithTracer sets the tracer for clear, invalidate and sync spans. The
// default uses the global OpenTelemetry provider.
func WithTracer(tracer trace.Tracer) ServiceOption {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithRegistry restricts the namespaces the invalidator iterates.
func WithRegistry(r Registry) ServiceOption {
	return func(s *Service) {
		s.registry = r
	}
}

// Service reads and writes slot values scoped by namespace.
type Service struct {
	adapter  *storage.Adapter
	prefix   string
	registry Registry
	logger   logging.Logger
	emitter  *activity.Emitter
	tracer   trace.Tracer
}

// NewService wraps adapter. A nil adapter stores state in memory.
func NewService(adapter *storage.Adapter, opts ...ServiceOption) *Service {
	if adapter == nil {
		adapter = storage.NewAdapter(storage.NewMemory())
	}
	s := &Service{
		adapter:  adapter,
		prefix:   DefaultKeyPrefix,
		registry: DefaultRegistry(),
		logger:   logging.Nop(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Registry returns the namespaces this service invalidates.
func (s *Service) Registry() Registry {
	return s.registry
}

// Key builds the composite storage key "<prefix>:<namespace>:<slot>".
func (s *Service) Key(ns Namespace, slot Slot) string {
	return s.prefix + ":" + ns.key + ":" + string(slot)
}

// GetNS returns the value stored for (ns, slot), or def when the slot is
// missing, not valid JSON, or fails the type's Validate method. Stored JSON is
// decoded into a fresh T; for struct types, top-level keys the stored object
// lacks take their value from def. GetNS never writes.
func GetNS[T any](ctx context.Context, s *Service, ns Namespace, slot Slot, def T) T {
	if !s.checkNamespace(ctx, "get", ns) {
		return def
	}
	raw, ok := s.adapter.Read(ctx, s.Key(ns, slot))
	if !ok {
		return def
	}
	decoder := hydrate.NewDecoder(hydrate.WithValidation[T]())
	value, err := decoder.Decode(hydrate.Context{Namespace: ns.key, Slot: string(slot)}, raw, def)
	if err != nil {
		s.logger.Debug(ctx, "persisted slot ignored", "namespace", ns.key, "slot", slot, "error", err)
		return def
	}
	return value
}

// SetNS stores value for (ns, slot). The only error is a value that cannot be
// encoded as JSON; storage failures are absorbed by the adapter.
func SetNS[T any](ctx context.Context, s *Service, ns Namespace, slot Slot, value T) error {
	if !s.checkNamespace(ctx, "set", ns) {
		return nil
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("uistate: encode %s/%s: %w", ns.key, slot, err)
	}
	s.adapter.Write(ctx, s.Key(ns, slot), string(encoded))
	return nil
}

// ClearNamespace removes every slot of ns. Clearing an empty namespace is a
// no-op.
func (s *Service) ClearNamespace(ctx context.Context, ns Namespace) {
	if !s.checkNamespace(ctx, "clear", ns) {
		return
	}
	ctx, span := s.startSpan(ctx, "uistate.ClearNamespace", ns)
	defer span.End()

	if removed := s.clear(ctx, ns); len(removed) > 0 {
		s.emit(ctx, activity.BuildNamespaceClearedEvent(activity.StateEventInput{
			Namespace: ns.key,
			Slots:     removed,
		}))
	}
}

// clear removes the slots of ns and returns the slots that existed.
func (s *Service) clear(ctx context.Context, ns Namespace) []string {
	var removed []string
	for _, slot := range Slots() {
		key := s.Key(ns, slot)
		_, existed := s.adapter.Read(ctx, key)
		s.adapter.Remove(ctx, key)
		if existed {
			removed = append(removed, string(slot))
		}
	}
	return removed
}

// NamespaceHasData reports whether at least one slot of ns holds a value a
// controller would hydrate from: filters must be a JSON object, pagination and
// sort must decode and pass Validate. Fields missing from a stored pagination
// or sort count as valid, since hydration fills them from the page defaults.
func (s *Service) NamespaceHasData(ctx context.Context, ns Namespace) bool {
	if ns.IsZero() {
		return false
	}
	for _, slot := range Slots() {
		if s.slotUsable(ctx, ns, slot) {
			return true
		}
	}
	return false
}

func (s *Service) slotUsable(ctx context.Context, ns Namespace, slot Slot) bool {
	raw, ok := s.readJSON(ctx, ns, slot)
	if !ok {
		return false
	}
	hctx := hydrate.Context{Namespace: ns.key, Slot: string(slot)}
	var err error
	switch slot {
	case SlotPagination:
		_, err = hydrate.NewDecoder(hydrate.WithValidation[PaginationState]()).
			Decode(hctx, string(raw), PaginationState{Page: 1, Limit: 1})
	case SlotSort:
		_, err = hydrate.NewDecoder(hydrate.WithValidation[SortState]()).
			Decode(hctx, string(raw), SortState{SortOrder: SortAsc})
	default:
		if raw[0] != '{' {
			err = fmt.Errorf("hydrate: %s/%s is not an object", ns.key, slot)
		}
	}
	if err != nil {
		s.logger.Debug(ctx, "persisted slot not usable", "namespace", ns.key, "slot", slot, "error", err)
		return false
	}
	return true
}

// Record is the raw persisted state of one namespace. Absent or unreadable
// slots are nil.
type Record struct {
	Namespace  string          `json:"namespace"`
	Filters    json.RawMessage `json:"filters,omitempty"`
	Pagination json.RawMessage `json:"pagination,omitempty"`
	Sort       json.RawMessage `json:"sort,omitempty"`
}

// Empty reports whether no slot holds data.
func (r Record) Empty() bool {
	return r.Filters == nil && r.Pagination == nil && r.Sort == nil
}

// Snapshot returns the raw JSON stored for ns.
func (s *Service) Snapshot(ctx context.Context, ns Namespace) Record {
	record := Record{Namespace: ns.key}
	if ns.IsZero() {
		return record
	}
	if raw, ok := s.readJSON(ctx, ns, SlotFilters); ok {
		record.Filters = raw
	}
	if raw, ok := s.readJSON(ctx, ns, SlotPagination); ok {
		record.Pagination = raw
	}
	if raw, ok := s.readJSON(ctx, ns, SlotSort); ok {
		record.Sort = raw
	}
	return record
}

// WriteRaw stores an already encoded JSON value, for tooling that receives
// state as text.
func (s *Service) WriteRaw(ctx context.Context, ns Namespace, slot Slot, raw string) error {
	if !s.checkNamespace(ctx, "write", ns) {
		return fmt.Errorf("%w: %s", ErrUnknownNamespace, ns)
	}
	if !json.Valid([]byte(raw)) {
		return fmt.Errorf("%w for %s/%s", ErrInvalidJSON, ns.key, slot)
	}
	s.adapter.Write(ctx, s.Key(ns, slot), raw)
	return nil
}

func (s *Service) readJSON(ctx context.Context, ns Namespace, slot Slot) (json.RawMessage, bool) {
	raw, ok := s.adapter.Read(ctx, s.Key(ns, slot))
	if !ok {
		return nil, false
	}
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || !json.Valid(trimmed) {
		return nil, false
	}
	return json.RawMessage(trimmed), true
}

// checkNamespace reports programmer errors (the zero Namespace) loudly in
// logs without failing the caller.
func (s *Service) checkNamespace(ctx context.Context, op string, ns Namespace) bool {
	if ns.IsZero() {
		s.logger.Error(ctx, "uistate: unset namespace", "op", op)
		return false
	}
	return true
}

func (s *Service) startSpan(ctx context.Context, name string, ns Namespace) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("uistate.namespace", ns.key)))
}

// emit stamps the current trace ids on event metadata before handing it to
// the emitter.
func (s *Service) emit(ctx context.Context, event activity.Event) {
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() && s.emitter.Enabled() {
		meta := make(map[string]any, len(event.Metadata)+2)
		for key, value := range event.Metadata {
			meta[key] = value
		}
		meta["trace_id"] = sc.TraceID().String()
		meta["span_id"] = sc.SpanID().String()
		event.Metadata = meta
	}
	if err := s.emitter.Emit(ctx, event); err != nil {
		s.logger.Warn(ctx, "uistate: activity hook failed", "verb", event.Verb, "error", err)
	}
}
