package model

import "fmt"

// FieldKind classifies how a field relates to the value stored in it.
type FieldKind int

const (
	// FieldOwned is a structural ownership edge: glue destroys the contents.
	FieldOwned FieldKind = iota
	// FieldRef is a non-owning reference: no destruction responsibility.
	FieldRef
	// FieldSlot is a raw, non-owning cell (a pointer-shaped hole). Glue
	// ignores it unless the field carries the owns-for-destruction marker.
	FieldSlot
)

// String returns the keyword used for the kind in scenario files.
func (k FieldKind) String() string {
	switch k {
	case FieldOwned:
		return "owned"
	case FieldRef:
		return "ref"
	case FieldSlot:
		return "slot"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}

// ParseFieldKind converts a scenario-file keyword into a FieldKind.
func ParseFieldKind(s string) (FieldKind, error) {
	switch s {
	case "owned":
		return FieldOwned, nil
	case "ref":
		return FieldRef, nil
	case "slot":
		return FieldSlot, nil
	default:
		return 0, fmt.Errorf("unknown field kind %q: must be 'owned', 'ref' or 'slot'", s)
	}
}

// Field is one declared field of a value type. Declaration order matters:
// glue destroys owned fields first-declared first.
type Field struct {
	Name string
	// Of names the type of the contained or referenced value.
	Of   string
	Kind FieldKind
	// MayDangle exempts the field from the validity invariant, but only for
	// automatic (scope-exit) destruction. The implementer inherits the
	// obligation never to dereference the field once its referent is gone.
	MayDangle bool
	// OwnsForDrop marks a slot as owned for destruction purposes, restoring
	// the dependency a bare slot (and any MayDangle on it) would hide.
	OwnsForDrop bool
}

// Destructor marks a type as carrying user-supplied teardown logic. There is
// no destructor code in this model; what the body would do is declared.
type Destructor struct {
	// Reads lists the field names the destructor body dereferences.
	Reads []string
}

// Type is a declared value type.
type Type struct {
	Name string
	// Dtor is nil for types whose destruction is pure glue.
	Dtor   *Destructor
	Fields []*Field
}

// HasDestructor reports whether the type carries a custom destructor.
func (t *Type) HasDestructor() bool {
	return t.Dtor != nil
}

// Field returns the declared field with the given name and its position.
func (t *Type) Field(name string) (*Field, int, bool) {
	for i, f := range t.Fields {
		if f.Name == name {
			return f, i, true
		}
	}
	return nil, 0, false
}
