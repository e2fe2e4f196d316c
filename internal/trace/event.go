// Package trace defines the observable output of a destruction run: a flat,
// ordered sequence of events describing which destructor bodies ran and which
// owned fields were torn down by glue. Sinks consume events one line at a time.
package trace

import "fmt"

// Kind discriminates the event variants.
type Kind int

const (
	// KindDestructor marks the start of a value's custom destructor body.
	KindDestructor Kind = iota
	// KindGlue marks the synthesized teardown of one owned field.
	KindGlue
	// KindExplicitDrop marks a destruction requested by the program itself
	// rather than by scope exit.
	KindExplicitDrop
)

// Event is a single observable step of a destruction run.
type Event struct {
	Kind  Kind
	Value string // hierarchical value ID, e.g. "b" or "box.slot"
	Field string // set for KindGlue only
}

// String renders the event as the canonical single-line trace form.
func (e Event) String() string {
	switch e.Kind {
	case KindDestructor:
		return fmt.Sprintf("%s destructor start", e.Value)
	case KindGlue:
		return fmt.Sprintf("%s glue field %s destroyed", e.Value, e.Field)
	case KindExplicitDrop:
		return fmt.Sprintf("%s dropped explicitly", e.Value)
	default:
		return fmt.Sprintf("unknown event for %s", e.Value)
	}
}
