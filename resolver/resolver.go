package resolver

import (
	"errors"
	"fmt"

	"github.com/tsawler/pdftext/core"
)

// ErrCycle is returned when a chain of references loops back on itself.
var ErrCycle = errors.New("circular reference")

// ErrTooDeep is returned when resolution exceeds the configured depth.
var ErrTooDeep = errors.New("maximum resolution depth exceeded")

// ObjectReader loads the object an indirect reference points at.
type ObjectReader interface {
	ResolveReference(ref core.IndirectRef) (core.Object, error)
}

// ObjectResolver follows indirect references, optionally through nested
// dictionaries and arrays. It keeps no state between calls and may be
// shared as long as the underlying ObjectReader is safe to share.
type ObjectResolver struct {
	reader   ObjectReader
	maxDepth int
}

// Option configures the resolver.
type Option func(*ObjectResolver)

// WithMaxDepth sets the maximum nesting depth (default 100).
func WithMaxDepth(depth int) Option {
	return func(r *ObjectResolver) {
		if depth > 0 {
			r.maxDepth = depth
		}
	}
}

// NewResolver creates a resolver reading objects from reader.
func NewResolver(reader ObjectReader, opts ...Option) *ObjectResolver {
	r := &ObjectResolver{reader: reader, maxDepth: 100}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve follows obj until it is no longer an indirect reference.
// Containers are returned as-is.
func (r *ObjectResolver) Resolve(obj core.Object) (core.Object, error) {
	visited := make(map[core.IndirectRef]bool)
	for depth := 0; ; depth++ {
		ref, ok := obj.(core.IndirectRef)
		if !ok {
			return obj, nil
		}
		if depth >= r.maxDepth {
			return nil, fmt.Errorf("%s: %w", ref, ErrTooDeep)
		}
		if visited[ref] {
			return nil, fmt.Errorf("%s: %w", ref, ErrCycle)
		}
		visited[ref] = true

		next, err := r.reader.ResolveReference(ref)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", ref, err)
		}
		obj = next
	}
}

// ResolveDeep resolves obj and every reference reachable through
// dictionaries, arrays and stream dictionaries.
func (r *ObjectResolver) ResolveDeep(obj core.Object) (core.Object, error) {
	return r.resolveDeep(obj, 0, make(map[core.IndirectRef]bool))
}

func (r *ObjectResolver) resolveDeep(obj core.Object, depth int, visiting map[core.IndirectRef]bool) (core.Object, error) {
	if depth >= r.maxDepth {
		return nil, ErrTooDeep
	}

	switch v := obj.(type) {
	case core.IndirectRef:
		if visiting[v] {
			return nil, fmt.Errorf("%s: %w", v, ErrCycle)
		}
		visiting[v] = true
		defer delete(visiting, v)

		resolved, err := r.reader.ResolveReference(v)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", v, err)
		}
		return r.resolveDeep(resolved, depth+1, visiting)

	case core.Dict:
		out := make(core.Dict, len(v))
		for key, value := range v {
			resolved, err := r.resolveDeep(value, depth+1, visiting)
			if err != nil {
				return nil, fmt.Errorf("/%s: %w", key, err)
			}
			out[key] = resolved
		}
		return out, nil

	case core.Array:
		out := make(core.Array, len(v))
		for i, elem := range v {
			resolved, err := r.resolveDeep(elem, depth+1, visiting)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = resolved
		}
		return out, nil

	case *core.Stream:
		dict, err := r.resolveDeep(v.Dict, depth+1, visiting)
		if err != nil {
			return nil, fmt.Errorf("stream dictionary: %w", err)
		}
		return &core.Stream{Dict: dict.(core.Dict), Data: v.Data}, nil
	}
	return obj, nil
}

// Dict resolves obj and reports whether the result is a dictionary.
func (r *ObjectResolver) Dict(obj core.Object) (core.Dict, bool) {
	resolved, err := r.Resolve(obj)
	if err != nil {
		return nil, false
	}
	d, ok := resolved.(core.Dict)
	return d, ok
}

// Array resolves obj and reports whether the result is an array.
func (r *ObjectResolver) Array(obj core.Object) (core.Array, bool) {
	resolved, err := r.Resolve(obj)
	if err != nil {
		return nil, false
	}
	a, ok := resolved.(core.Array)
	return a, ok
}

// Stream resolves obj and reports whether the result is a stream.
func (r *ObjectResolver) Stream(obj core.Object) (*core.Stream, bool) {
	resolved, err := r.Resolve(obj)
	if err != nil {
		return nil, false
	}
	s, ok := resolved.(*core.Stream)
	return s, ok
}

// Int resolves obj and reports whether the result is an integer.
func (r *ObjectResolver) Int(obj core.Object) (core.Int, bool) {
	resolved, err := r.Resolve(obj)
	if err != nil {
		return 0, false
	}
	i, ok := resolved.(core.Int)
	return i, ok
}

// Name resolves obj and reports whether the result is a name.
func (r *ObjectResolver) Name(obj core.Object) (core.Name, bool) {
	resolved, err := r.Resolve(obj)
	if err != nil {
		return "", false
	}
	n, ok := resolved.(core.Name)
	return n, ok
}
