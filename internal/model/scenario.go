package model

import "fmt"

// Scenario is one single-scope program: its type declarations plus an
// ordered statement list.
type Scenario struct {
	Name        string
	Description string
	Types       map[string]*Type
	Stmts       []*Stmt
}

// NewScenario creates an empty scenario with the given name.
func NewScenario(name string) *Scenario {
	return &Scenario{
		Name:  name,
		Types: make(map[string]*Type),
	}
}

// DefineType registers a type declaration. Defining the same name twice is a
// programmer error in a scenario builder, so it panics.
func (s *Scenario) DefineType(t *Type) *Type {
	if t.Name == "" {
		panic("scenario type must have a name")
	}
	if _, exists := s.Types[t.Name]; exists {
		panic(fmt.Sprintf("type %q already defined in scenario %q", t.Name, s.Name))
	}
	s.Types[t.Name] = t
	return t
}

// Type looks up a declared type by name.
func (s *Scenario) Type(name string) (*Type, bool) {
	t, ok := s.Types[name]
	return t, ok
}

// Let appends a declaration without an initializer.
func (s *Scenario) Let(name string) {
	s.Stmts = append(s.Stmts, &Stmt{Op: OpLet, Name: name})
}

// LetInit appends a declaration with an initializer.
func (s *Scenario) LetInit(name string, expr *Expr) {
	s.Stmts = append(s.Stmts, &Stmt{Op: OpLet, Name: name, Expr: expr})
}

// Init appends an assignment to an already-declared binding.
func (s *Scenario) Init(name string, expr *Expr) {
	s.Stmts = append(s.Stmts, &Stmt{Op: OpInit, Name: name, Expr: expr})
}

// Store appends a statement placing arg into a slot field of a binding.
func (s *Scenario) Store(name, field string, arg *Arg) {
	s.Stmts = append(s.Stmts, &Stmt{Op: OpStore, Name: name, Field: field, Arg: arg})
}

// Drop appends an explicit, immediate destruction of a binding's value.
func (s *Scenario) Drop(name string) {
	s.Stmts = append(s.Stmts, &Stmt{Op: OpDrop, Name: name})
}

// Temp appends a statement constructing an unbound value that is destroyed
// at the end of the statement.
func (s *Scenario) Temp(expr *Expr) {
	s.Stmts = append(s.Stmts, &Stmt{Op: OpTemp, Expr: expr})
}
