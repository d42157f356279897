// Package resolver follows PDF indirect references.
//
// PDF objects refer to each other with indirect references such as
// "5 0 R". An [ObjectResolver] follows them, either one level at a time
// with [ObjectResolver.Resolve] or through every nested container with
// [ObjectResolver.ResolveDeep]:
//
//	r := resolver.NewResolver(reader, resolver.WithMaxDepth(50))
//	fonts, ok := r.Dict(resources.Get("Font"))
//
// Chains that loop back on themselves fail with [ErrCycle]; structures
// nested deeper than the configured limit fail with [ErrTooDeep].
package resolver
