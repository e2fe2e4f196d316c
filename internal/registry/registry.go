// Package registry provides the central catalog of runnable scenarios.
//
// The Registry maps the scenario names users type on the command line to
// builder functions producing the scenario's model. Built-in scenario
// packages register themselves through the Module interface during
// application startup; scenarios loaded from .hcl files are registered by
// the loader with their source path attached.
//
// Registration conflicts are programmer errors (or a file shadowing a
// built-in), so Register panics; the panic is recovered at the process
// boundary and reported as a startup error.
package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/specialistvlad/dropsimgo/internal/model"
)

// BuiltinSource marks entries compiled into the binary.
const BuiltinSource = "builtin"

// Builder produces a fresh scenario model. Builders must not share mutable
// state between calls.
type Builder func() *model.Scenario

// Entry is one registered scenario.
type Entry struct {
	Name        string
	Description string
	// Source is BuiltinSource or the path of the file the entry came from.
	Source string
	Build  Builder
}

// Module is the interface built-in scenario packages implement to be
// registered at startup.
type Module interface {
	Register(r *Registry)
}

// Registry holds all registered scenarios for a single application instance.
type Registry struct {
	entries map[string]*Entry
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
	}
}

// Register adds an entry, panicking on an empty name, a missing builder, or
// a name collision.
func (r *Registry) Register(e *Entry) {
	if e.Name == "" {
		panic("scenario entry must have a name")
	}
	if e.Build == nil {
		panic(fmt.Sprintf("scenario %q registered without a builder", e.Name))
	}
	if prev, exists := r.entries[e.Name]; exists {
		panic(fmt.Sprintf("scenario %q already registered (from %s)", e.Name, prev.Source))
	}
	slog.Debug("Registering scenario.", "name", e.Name, "source", e.Source)
	r.entries[e.Name] = e
}

// Get looks up an entry by scenario name.
func (r *Registry) Get(name string) (*Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Names returns all registered scenario names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered scenarios.
func (r *Registry) Len() int {
	return len(r.entries)
}
