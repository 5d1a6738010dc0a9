// Package completion caches completion results of one project.
package completion

import (
	"sort"
	"strings"
	"sync"
)

// Context caches type completions by prefix. It is invalidated whenever
// the project's build or compiler info changes.
type Context struct {
	mu      sync.Mutex
	entries map[string][]string
}

// NewContext creates an empty Context.
func NewContext() *Context {
	return &Context{entries: make(map[string][]string)}
}

// Types returns the names in candidates starting with prefix (ignoring
// case), sorted. Results are cached per prefix.
func (c *Context) Types(prefix string, candidates func() []string) []string {
	key := strings.ToLower(prefix)

	c.mu.Lock()
	if cached, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return cached
	}
	c.mu.Unlock()

	var matches []string
	for _, name := range candidates() {
		if strings.HasPrefix(strings.ToLower(name), key) {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = matches
	return matches
}

// Len is the number of cached prefixes.
func (c *Context) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every cached result.
func (c *Context) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]string)
}
