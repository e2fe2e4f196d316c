// Package validity implements the pre-execution validity check: it proves,
// against a computed destruction order, that no custom destructor can observe
// an already-destroyed referent — or rejects the program.
//
// The check is pure. It never mutates the program, and a Reject corresponds
// to a compile-time rejection in a statically checked system, not to a
// runtime fault.
package validity

import (
	"context"
	"fmt"

	"github.com/specialistvlad/dropsimgo/internal/ctxlog"
	"github.com/specialistvlad/dropsimgo/internal/droporder"
	"github.com/specialistvlad/dropsimgo/internal/model"
	"github.com/specialistvlad/dropsimgo/internal/ownership"
)

// ReasonDangling is the single rejection reason this check produces.
const ReasonDangling = "referent destroyed before dependent custom destructor"

// Violation pins a rejection to one field of one value.
type Violation struct {
	Value    string
	Field    string
	Referent string
	Reason   string
}

// Error renders the violation as a one-line diagnostic.
func (v Violation) Error() string {
	return fmt.Sprintf("%s.%s -> %s: %s", v.Value, v.Field, v.Referent, v.Reason)
}

// Verdict is the outcome of one validity check.
type Verdict struct {
	Violations []Violation
}

// Accepted reports whether the program passed the check.
func (v *Verdict) Accepted() bool {
	return len(v.Violations) == 0
}

// Check applies the validity rules to every value the order destroys:
//
//  1. A value with a custom destructor requires every referent reachable
//     from it — through its own reference fields and through the fields of
//     its owned contents, never crossing an opted-out field — to still be
//     valid the instant the destructor body runs.
//  2. A value without a custom destructor is exempt for its own sake, but
//     its fields stay reachable from the destructor-bearing value that
//     owns it; owned sub-values with destructors are checked as themselves.
//  3. A may-dangle opt-out lifts rule 1 only for automatic destruction. If
//     either side of the dependency is destroyed by an explicit request,
//     the rule applies as if no opt-out existed.
//  4. An owns-for-destruction marker on a slot restores the dependency the
//     opt-out (or the slot's bare, non-owning shape) would otherwise hide.
func Check(ctx context.Context, prog *ownership.Program, order *droporder.Order) *Verdict {
	logger := ctxlog.FromContext(ctx)
	verdict := &Verdict{}

	for _, v := range prog.Values {
		if !v.Type.HasDestructor() {
			continue
		}
		dtorTime, ran := order.DestructorAt(v.ID)
		if !ran {
			// The model never destroys this value (it leaked into a bare
			// slot), so its destructor observes nothing.
			continue
		}
		verdict.reach(v, v, dtorTime, order)
	}

	if verdict.Accepted() {
		logger.Debug("Validity check accepted program.", "scenario", prog.Scenario.Name)
	} else {
		logger.Debug("Validity check rejected program.",
			"scenario", prog.Scenario.Name,
			"violations", len(verdict.Violations),
		)
	}
	return verdict
}

// reach walks everything the destructor of root can observe at instant at:
// the fields of holder, then the contents of holder's owned fields. An owned
// sub-value carrying its own destructor is not descended into; it is walked
// as a root of its own.
func (verdict *Verdict) reach(root, holder *ownership.Value, at int, order *droporder.Order) {
	for _, fs := range holder.Fields {
		f := fs.Decl

		if f.MayDangle && !f.OwnsForDrop {
			// The walk never crosses an opted-out field, with the rule 3
			// carve-out: a directly held reference stays checkable when
			// either side of the dependency was explicitly destroyed.
			direct := holder == root && f.Kind == model.FieldRef && fs.Ref != nil
			if !direct {
				continue
			}
			if !order.ExplicitlyDestroyed(root.ID) && !order.ExplicitlyDestroyed(fs.Ref.ID) {
				continue
			}
		}

		if fs.Ref != nil {
			// A bare slot carries no dependency at all: the dereference, if
			// any, is the dangling simulation's concern.
			if f.Kind == model.FieldSlot && !f.OwnsForDrop {
				continue
			}
			if t, destroyed := order.DestroyedAt(fs.Ref.ID); destroyed && t < at {
				verdict.add(holder, f, fs)
			}
			continue
		}

		owned := f.Kind == model.FieldOwned || (f.Kind == model.FieldSlot && f.OwnsForDrop)
		if fs.Child != nil && owned && !fs.Child.Type.HasDestructor() {
			verdict.reach(root, fs.Child, at, order)
		}
	}
}

func (verdict *Verdict) add(v *ownership.Value, f *model.Field, fs *ownership.FieldState) {
	verdict.Violations = append(verdict.Violations, Violation{
		Value:    v.ID,
		Field:    f.Name,
		Referent: fs.Ref.ID,
		Reason:   ReasonDangling,
	})
}
