// Package droporder computes the destruction order of a program: the linear
// sequence of destructor and glue events, plus a logical clock recording when
// each value was destroyed and when its destructor body ran.
//
// Two rules govern the order. Top-level bindings are destroyed in reverse of
// their declaration order when control leaves the scope, no matter when they
// were initialized; explicit drops and temporaries are destroyed at their own
// statement instead. Within one value, the custom destructor body (if any)
// runs first, then glue destroys each owned field in field-declaration order,
// diving depth-first before moving to the next field.
package droporder

import (
	"context"

	"github.com/specialistvlad/dropsimgo/internal/ctxlog"
	"github.com/specialistvlad/dropsimgo/internal/model"
	"github.com/specialistvlad/dropsimgo/internal/ownership"
	"github.com/specialistvlad/dropsimgo/internal/trace"
)

// Order is the result of one destruction-order computation.
type Order struct {
	// Events is the observable trace, in order.
	Events []trace.Event

	destroyedAt map[string]int
	dtorAt      map[string]int
	explicit    map[string]bool
	clock       int
}

// Compute walks the program's statements once and then simulates scope exit,
// producing the complete destruction order.
func Compute(ctx context.Context, prog *ownership.Program) *Order {
	logger := ctxlog.FromContext(ctx)

	o := &Order{
		destroyedAt: make(map[string]int),
		dtorAt:      make(map[string]int),
		explicit:    make(map[string]bool),
	}

	for i, stmt := range prog.Scenario.Stmts {
		switch stmt.Op {
		case model.OpDrop:
			bind, _ := prog.Binding(stmt.Name)
			o.emit(trace.Event{Kind: trace.KindExplicitDrop, Value: bind.Value.ID})
			o.destroy(bind.Value, true)
		case model.OpTemp:
			// A temporary dies at the end of its own statement.
			o.destroy(prog.Temps[i], false)
		}
	}

	// Scope exit: remaining live bindings go in reverse declaration order.
	for i := len(prog.Bindings) - 1; i >= 0; i-- {
		bind := prog.Bindings[i]
		if bind.Value == nil || bind.Moved || bind.Dropped {
			continue
		}
		o.destroy(bind.Value, false)
	}

	logger.Debug("Destruction order computed.",
		"scenario", prog.Scenario.Name,
		"events", len(o.Events),
		"values_destroyed", len(o.destroyedAt),
	)
	return o
}

// destroy runs the destruction of one value: destructor body first, then
// glue over owned fields in declaration order. The explicit flag propagates
// to everything torn down within an explicitly requested drop.
func (o *Order) destroy(v *ownership.Value, explicit bool) {
	o.destroyedAt[v.ID] = o.clock
	if explicit {
		o.explicit[v.ID] = true
	}

	if v.Type.HasDestructor() {
		o.dtorAt[v.ID] = o.clock
		o.emit(trace.Event{Kind: trace.KindDestructor, Value: v.ID})
	}
	o.clock++

	for _, fs := range v.Fields {
		owned := fs.Decl.Kind == model.FieldOwned ||
			(fs.Decl.Kind == model.FieldSlot && fs.Decl.OwnsForDrop)
		if !owned || fs.Child == nil {
			// References are never destroyed through the values that hold
			// them, and a slot holding a borrowed reference tears down
			// nothing observable even when marked owned-for-drop.
			continue
		}
		o.emit(trace.Event{Kind: trace.KindGlue, Value: v.ID, Field: fs.Decl.Name})
		o.destroy(fs.Child, explicit)
	}
}

func (o *Order) emit(e trace.Event) {
	o.Events = append(o.Events, e)
}

// DestroyedAt returns the logical instant the value's destruction began.
// The second result is false for values the model never destroys.
func (o *Order) DestroyedAt(id string) (int, bool) {
	t, ok := o.destroyedAt[id]
	return t, ok
}

// DestructorAt returns the logical instant the value's custom destructor
// body ran. The second result is false when no custom destructor ran.
func (o *Order) DestructorAt(id string) (int, bool) {
	t, ok := o.dtorAt[id]
	return t, ok
}

// ExplicitlyDestroyed reports whether the value was destroyed by an explicit
// program request (directly or as part of one) rather than by scope exit.
func (o *Order) ExplicitlyDestroyed(id string) bool {
	return o.explicit[id]
}

// Replay sends every event to the sink in order.
func (o *Order) Replay(sink trace.Sink) {
	for _, e := range o.Events {
		sink.Emit(e)
	}
}
