package shroud

import (
	"reflect"
	"sync"
)

// registryKey identifies a cached processor.
type registryKey struct {
	typ         reflect.Type
	contentType string
}

// Registry caches one processor per type and codec content type.
// Every processor it builds shares the registry's options, so a cached
// processor never differs from a freshly built one.
type Registry struct {
	opts []ProcessorOption

	mu    sync.RWMutex
	procs map[registryKey]any
}

// NewRegistry creates a registry whose processors are built with opts.
func NewRegistry(opts ...ProcessorOption) *Registry {
	return &Registry{
		opts:  opts,
		procs: make(map[registryKey]any),
	}
}

var defaultRegistry = NewRegistry()

// Use returns the default registry's processor for T and codec, building
// it on first use.
func Use[T any](codec Codec) (*Processor[T], error) {
	return UseIn[T](defaultRegistry, codec)
}

// UseIn returns r's processor for T and codec, building it on first use.
//
// Processors are keyed by T and the codec's content type only. A later call
// with a differently configured codec of the same content type gets the
// processor built with the first codec; use a separate Registry for it.
func UseIn[T any](r *Registry, codec Codec) (*Processor[T], error) {
	key := registryKey{typ: reflect.TypeFor[T](), contentType: codec.ContentType()}

	r.mu.RLock()
	cached, ok := r.procs[key]
	r.mu.RUnlock()
	if ok {
		return cached.(*Processor[T]), nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another caller may have built it while we waited.
	if cached, ok := r.procs[key]; ok {
		return cached.(*Processor[T]), nil
	}

	proc, err := NewProcessor[T](codec, r.opts...)
	if err != nil {
		return nil, err
	}
	r.procs[key] = proc
	return proc, nil
}

// Len returns the number of cached processors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.procs)
}

// Reset drops every cached processor.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.procs = make(map[registryKey]any)
}

// Reset clears the default registry.
// This is primarily useful for test isolation.
func Reset() {
	defaultRegistry.Reset()
}
