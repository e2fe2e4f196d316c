package ownership

import "github.com/specialistvlad/dropsimgo/internal/model"

// Binding is a declared name in the scenario's single scope.
type Binding struct {
	Name string
	// DeclPos is the binding's position among declarations. Automatic
	// destruction runs in reverse of this order.
	DeclPos int
	// Value is nil until the binding is initialized.
	Value *Value
	// Moved is set once the binding's value has been transferred into
	// another value; the binding itself no longer destroys anything.
	Moved bool
	// Dropped is set once the program explicitly destroyed the binding.
	Dropped bool
}

// Value is one instantiated value: a node of the ownership tree.
type Value struct {
	// ID is hierarchical and stable: binding name for roots, "temp#N" for
	// temporaries, "<owner>.<field>" for values constructed in place.
	ID    string
	Type  *model.Type
	Owner *Value
	// Fields is parallel to Type.Fields.
	Fields []*FieldState
}

// FieldState is the runtime contents of one declared field.
type FieldState struct {
	Decl *model.Field
	// Child is the owned contents: set for owned fields, and for slots a
	// value was moved or constructed into.
	Child *Value
	// Ref is the referent: set for ref fields, and for slots holding a
	// borrowed reference.
	Ref *Value
}

// Field returns the runtime state of the named field.
func (v *Value) Field(name string) (*FieldState, bool) {
	for _, fs := range v.Fields {
		if fs.Decl.Name == name {
			return fs, true
		}
	}
	return nil, false
}

// Program is the fully instantiated scenario: the input both pure passes
// (order computation and validity checking) walk without mutating.
type Program struct {
	Scenario *model.Scenario
	// Bindings in declaration order.
	Bindings []*Binding
	// Temps maps a statement index to the unbound value it constructs.
	Temps map[int]*Value
	// Values lists every instantiated value, parents before children.
	Values []*Value
	// Outlives is the reference-constraint graph over value IDs.
	Outlives *Graph

	byName map[string]*Binding
}

// Binding looks up a binding by name.
func (p *Program) Binding(name string) (*Binding, bool) {
	b, ok := p.byName[name]
	return b, ok
}
