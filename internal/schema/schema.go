// Package schema defines the HCL block shapes of scenario files. These
// structs are decoding targets only; the hcl package translates them into
// the format-agnostic model.
package schema

// Destructor represents the `destructor` block of a type declaration. Its
// presence marks the type as carrying a custom destructor; `reads` lists the
// fields the destructor body dereferences.
type Destructor struct {
	Reads []string `hcl:"reads,optional"`
}

// Field represents one `field` block of a type declaration.
type Field struct {
	Name        string `hcl:"name,label"`
	Kind        string `hcl:"kind"`
	Of          string `hcl:"of"`
	MayDangle   bool   `hcl:"may_dangle,optional"`
	OwnsForDrop bool   `hcl:"owns_for_drop,optional"`
}

// Type represents the body of a `type "Name"` block.
type Type struct {
	Destructor *Destructor `hcl:"destructor,block"`
	Fields     []*Field    `hcl:"field,block"`
}

// Value represents a `value` block: the construction of one value.
type Value struct {
	Type string `hcl:"type"`
	Args []*Arg `hcl:"arg,block"`
}

// Arg represents an `arg` block supplying one field of a constructed value.
// Exactly one of ref, move or the nested value block must be present.
type Arg struct {
	Field string `hcl:"field"`
	Ref   string `hcl:"ref,optional"`
	Move  string `hcl:"move,optional"`
	Value *Value `hcl:"value,block"`
}

// Let represents the body of a `let "name"` block. The value block is
// optional: without it the binding is declared but not initialized.
type Let struct {
	Value *Value `hcl:"value,block"`
}

// Init represents the body of an `init "name"` block.
type Init struct {
	Value *Value `hcl:"value,block"`
}

// Store represents the body of a `store "name"` block: it fills one slot
// field of the named binding. Exactly one of ref, move or the nested value
// block must be present.
type Store struct {
	Field string `hcl:"field"`
	Ref   string `hcl:"ref,optional"`
	Move  string `hcl:"move,optional"`
	Value *Value `hcl:"value,block"`
}

// Temp represents the body of a `temp` block: an unbound value destroyed at
// the end of its own statement.
type Temp struct {
	Value *Value `hcl:"value,block"`
}
