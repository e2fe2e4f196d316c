// Package dangling simulates what each custom destructor would actually
// dereference, and classifies every such read into one of three outcomes:
// sound, unsound-if-executed, or rejected-by-model.
//
// The distinction matters because an opt-out exists precisely to bypass the
// validity check: the model cannot reject an opted-out dangling read, it can
// only record that executing it would yield an unspecified value. A dangling
// read without an opt-out is the configuration the validity check rejects,
// so it never executes at all.
package dangling

import (
	"context"
	"fmt"

	"github.com/specialistvlad/dropsimgo/internal/ctxlog"
	"github.com/specialistvlad/dropsimgo/internal/droporder"
	"github.com/specialistvlad/dropsimgo/internal/model"
	"github.com/specialistvlad/dropsimgo/internal/ownership"
)

// Outcome classifies one destructor dereference.
type Outcome int

const (
	// OutcomeSound means the read observes a still-valid value.
	OutcomeSound Outcome = iota
	// OutcomeUnsound means the implementer asserted safety the model cannot
	// verify: executing the read yields an unspecified value. Not a crash,
	// not a defined stale value.
	OutcomeUnsound
	// OutcomeRejected means the read dereferences a destroyed referent
	// without any opt-out; the validity check rejects such programs before
	// anything executes.
	OutcomeRejected
)

// String returns the reporting keyword for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSound:
		return "sound"
	case OutcomeUnsound:
		return "unsound-if-executed"
	case OutcomeRejected:
		return "rejected-by-model"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Finding is the classification of one destructor dereference.
type Finding struct {
	Value   string
	Field   string
	Outcome Outcome
	Detail  string
}

// Simulate classifies every declared destructor read of every value the
// order destroys. Values the model never destroys are skipped: their
// destructors never run, so they dereference nothing.
func Simulate(ctx context.Context, prog *ownership.Program, order *droporder.Order) []Finding {
	logger := ctxlog.FromContext(ctx)
	var findings []Finding

	for _, v := range prog.Values {
		if !v.Type.HasDestructor() {
			continue
		}
		dtorTime, ran := order.DestructorAt(v.ID)
		if !ran {
			continue
		}

		for _, read := range v.Type.Dtor.Reads {
			fs, ok := v.Field(read)
			if !ok {
				continue // declarations are validated at build time
			}
			findings = append(findings, classify(v, fs, dtorTime, order))
		}
	}

	unsound := 0
	for _, f := range findings {
		if f.Outcome == OutcomeUnsound {
			unsound++
		}
	}
	logger.Debug("Dangling simulation finished.",
		"scenario", prog.Scenario.Name,
		"reads", len(findings),
		"unsound", unsound,
	)
	return findings
}

// classify decides the outcome of one read of one field at the instant the
// owning destructor body runs.
func classify(v *ownership.Value, fs *ownership.FieldState, at int, order *droporder.Order) Finding {
	f := fs.Decl
	finding := Finding{Value: v.ID, Field: f.Name}

	detail, valid := fieldValidAt(fs, at, order)
	if valid {
		finding.Outcome = OutcomeSound
		finding.Detail = fmt.Sprintf("field %s is valid when the destructor of %s runs", f.Name, v.ID)
		return finding
	}

	// The read observes destroyed or never-initialized data. Whether that is
	// a rejection or an accepted obligation depends on the field shape.
	if f.MayDangle || (f.Kind == model.FieldSlot && !f.OwnsForDrop) {
		finding.Outcome = OutcomeUnsound
	} else {
		finding.Outcome = OutcomeRejected
	}
	finding.Detail = detail
	return finding
}

// fieldValidAt reports whether reading the field at the given instant
// observes only still-valid data, with a human-readable reason when not.
func fieldValidAt(fs *ownership.FieldState, at int, order *droporder.Order) (string, bool) {
	switch {
	case fs.Ref != nil:
		if t, destroyed := order.DestroyedAt(fs.Ref.ID); destroyed && t < at {
			return fmt.Sprintf("referent %s is already destroyed", fs.Ref.ID), false
		}
		return "", true

	case fs.Child != nil:
		// Reading owned (or moved-in) contents runs their teardown logic,
		// which in turn reads their reference fields.
		return contentsValidAt(fs.Child, at, order)

	case fs.Decl.Kind == model.FieldSlot:
		return "slot was never filled", false

	default:
		return "", true
	}
}

// contentsValidAt walks a value tree and checks every reference it holds.
func contentsValidAt(v *ownership.Value, at int, order *droporder.Order) (string, bool) {
	for _, fs := range v.Fields {
		if fs.Ref != nil {
			if t, destroyed := order.DestroyedAt(fs.Ref.ID); destroyed && t < at {
				return fmt.Sprintf("%s.%s references %s, which is already destroyed",
					v.ID, fs.Decl.Name, fs.Ref.ID), false
			}
			continue
		}
		if fs.Child != nil {
			if detail, ok := contentsValidAt(fs.Child, at, order); !ok {
				return detail, false
			}
		}
	}
	return "", true
}
