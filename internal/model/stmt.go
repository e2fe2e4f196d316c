package model

// StmtOp identifies the statement form.
type StmtOp int

const (
	// OpLet declares a binding; Expr may additionally initialize it.
	OpLet StmtOp = iota
	// OpInit assigns a value to an already-declared binding. Destruction
	// order is governed by the declaration, not by this assignment.
	OpInit
	// OpStore places a value or reference into a slot field of a binding.
	OpStore
	// OpDrop destroys a binding's value immediately, at this position.
	OpDrop
	// OpTemp constructs an unbound value that is destroyed at the end of
	// its own statement.
	OpTemp
)

// Stmt is one statement of the scenario body.
type Stmt struct {
	Op    StmtOp
	Name  string // binding name for OpLet, OpInit, OpStore, OpDrop
	Field string // target slot field for OpStore
	Expr  *Expr  // constructed value for OpLet (optional), OpInit, OpTemp
	Arg   *Arg   // stored value or reference for OpStore
}

// Expr constructs a value of a named type. Args must cover every owned and
// ref field of the type; slot fields are filled later via OpStore.
type Expr struct {
	Type string
	Args []*Arg
}

// Arg supplies one field of a constructed value. Exactly one of Ref, Move or
// New is set.
type Arg struct {
	Field string
	Ref   string // borrow from an initialized binding
	Move  string // transfer ownership out of a binding
	New   *Expr  // construct a fresh anonymous value in place
}

// Val builds an Expr for the given type name.
func Val(typeName string, args ...*Arg) *Expr {
	return &Expr{Type: typeName, Args: args}
}

// RefArg supplies field with a reference to binding.
func RefArg(field, binding string) *Arg {
	return &Arg{Field: field, Ref: binding}
}

// MoveArg supplies field by moving binding's value into it.
func MoveArg(field, binding string) *Arg {
	return &Arg{Field: field, Move: binding}
}

// NewArg supplies field with a freshly constructed value.
func NewArg(field string, expr *Expr) *Arg {
	return &Arg{Field: field, New: expr}
}
