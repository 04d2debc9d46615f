// Package cache provides a small generic LRU cache.
//
// It backs matrix.Cached, which memoises encoded module grids by
// (text, level) so that colour or border edits do not re-run the encoder.
//
//	c := cache.New[string, int](64)
//	c.Set("key", 42)
//	value, ok := c.Get("key")
//
// # Thread Safety
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
