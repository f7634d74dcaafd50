package uistate

import "sync"

// ProgramCache stores compiled expression programs keyed by expression.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

type mapProgramCache struct {
	programs sync.Map
}

// NewProgramCache returns an unbounded ProgramCache safe for concurrent use.
// Filter expressions come from page code, not users, so the key space is small.
func NewProgramCache() ProgramCache {
	return &mapProgramCache{}
}

func (c *mapProgramCache) Get(key string) (any, bool) {
	return c.programs.Load(key)
}

func (c *mapProgramCache) Set(key string, value any) {
	c.programs.Store(key, value)
}
