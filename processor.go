package shroud

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/zoobzio/sentinel"
)

func init() {
	// Register the policy tag with sentinel
	sentinel.Tag(TagName)
}

// Processor serializes values of T for egress, redacting sensitive fields
// according to the principal resolved for each call.
//
// The projection plan is built once in NewProcessor; a Processor is
// immutable afterwards and safe for concurrent use.
type Processor[T any] struct {
	codec    Codec
	index    *Index
	resolver PrincipalResolver
	plan     *projection
	typeName string
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*processorConfig)

type processorConfig struct {
	index    *Index
	resolver PrincipalResolver
}

// WithResolver sets how the caller's principal is found.
// Defaults to ContextResolver.
func WithResolver(r PrincipalResolver) ProcessorOption {
	return func(c *processorConfig) { c.resolver = r }
}

// WithIndex sets the field index. Defaults to DefaultIndex.
func WithIndex(idx *Index) ProcessorOption {
	return func(c *processorConfig) { c.index = idx }
}

// NewProcessor creates a Processor for struct type T.
//
// Sensitive field policies are validated here; an invalid tag or policy
// returns a ConfigError instead of failing later at send time.
func NewProcessor[T any](codec Codec, opts ...ProcessorOption) (*Processor[T], error) {
	cfg := processorConfig{
		index:    DefaultIndex(),
		resolver: ContextResolver{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	typ := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Struct {
		return nil, newConfigError(ErrUnsupportedType, typ.String(), "", "")
	}

	plan, err := newProjector(cfg.index).buildRoot(typ)
	if err != nil {
		return nil, err
	}

	p := &Processor[T]{
		codec:    codec,
		index:    cfg.index,
		resolver: cfg.resolver,
		plan:     plan,
		typeName: sentinel.Scan[T]().TypeName,
	}

	emitProcessorCreated(context.Background(), codec.ContentType(), p.typeName)
	return p, nil
}

// Project returns the redacted view of obj that Send would marshal.
// Use it when the host encodes responses itself.
// A nil obj projects to nil; obj is never modified.
func (p *Processor[T]) Project(ctx context.Context, obj *T) (any, error) {
	v, _ := p.project(ctx, obj)
	return v, nil
}

func (p *Processor[T]) project(ctx context.Context, obj *T) (any, sendStats) {
	var stats sendStats
	if obj == nil {
		return nil, stats
	}
	principal, _ := p.resolver.ResolvePrincipal(ctx)
	out := p.plan.project(principal, reflect.ValueOf(obj).Elem(), &stats)
	return out.Addr().Interface(), stats
}

// Send marshals obj for an external destination.
// Each sensitive field is emitted raw if the resolved principal is allowed
// to see it, and masked otherwise.
func (p *Processor[T]) Send(ctx context.Context, obj *T) ([]byte, error) {
	start := time.Now()
	emitSendStart(ctx, p.codec.ContentType(), p.typeName)

	var (
		retErr  error
		retData []byte
		stats   sendStats
	)
	defer func() {
		emitSendComplete(ctx, p.codec.ContentType(), p.typeName,
			len(retData), time.Since(start),
			stats.masked, stats.revealed, retErr)
	}()

	var view any
	view, stats = p.project(ctx, obj)

	data, err := p.codec.Marshal(view)
	if err != nil {
		retErr = newCodecError(ErrMarshal, fmt.Errorf("%s: %w", p.typeName, err))
		return nil, retErr
	}
	retData = data
	return retData, nil
}

// TypeName returns the name of T.
func (p *Processor[T]) TypeName() string {
	return p.typeName
}

// Fields returns the sensitive fields of T.
func (p *Processor[T]) Fields() []Field {
	return p.index.Fields(reflect.TypeFor[T]())
}
