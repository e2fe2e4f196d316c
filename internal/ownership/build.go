package ownership

import (
	"context"
	"fmt"

	"github.com/specialistvlad/dropsimgo/internal/ctxlog"
	"github.com/specialistvlad/dropsimgo/internal/model"
)

// builder carries the mutable state of one Build run.
type builder struct {
	scen    *model.Scenario
	prog    *Program
	tempSeq int
}

// Build instantiates the scenario into a Program, validating its structure
// as it goes. The returned Program is immutable from the caller's point of
// view: the order and validity passes only read it.
func Build(ctx context.Context, scen *model.Scenario) (*Program, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building ownership graph.", "scenario", scen.Name)

	if err := validateTypes(scen); err != nil {
		return nil, err
	}

	b := &builder{
		scen: scen,
		prog: &Program{
			Scenario: scen,
			Temps:    make(map[int]*Value),
			Outlives: NewGraph(),
			byName:   make(map[string]*Binding),
		},
	}

	for i, stmt := range scen.Stmts {
		if err := b.apply(i, stmt); err != nil {
			return nil, fmt.Errorf("scenario %q, statement %d: %w", scen.Name, i+1, err)
		}
	}

	if err := b.prog.Outlives.DetectCycles(); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scen.Name, err)
	}

	logger.Debug("Ownership graph built.",
		"scenario", scen.Name,
		"bindings", len(b.prog.Bindings),
		"values", len(b.prog.Values),
	)
	return b.prog, nil
}

// validateTypes checks the declarations before any statement runs: field
// names must be unique, contained types declared, and destructor reads must
// name real fields.
func validateTypes(scen *model.Scenario) error {
	for _, t := range scen.Types {
		seen := make(map[string]bool)
		for _, f := range t.Fields {
			if f.Name == "" {
				return fmt.Errorf("type %q has an unnamed field", t.Name)
			}
			if seen[f.Name] {
				return fmt.Errorf("type %q declares field %q twice", t.Name, f.Name)
			}
			seen[f.Name] = true
			if _, ok := scen.Types[f.Of]; !ok {
				return fmt.Errorf("type %q field %q: unknown type %q", t.Name, f.Name, f.Of)
			}
			if f.OwnsForDrop && f.Kind != model.FieldSlot {
				return fmt.Errorf("type %q field %q: owns_for_drop only applies to slot fields", t.Name, f.Name)
			}
		}
		if t.Dtor == nil {
			continue
		}
		for _, read := range t.Dtor.Reads {
			if _, _, ok := t.Field(read); !ok {
				return fmt.Errorf("type %q destructor reads unknown field %q", t.Name, read)
			}
		}
	}
	return nil
}

func (b *builder) apply(idx int, stmt *model.Stmt) error {
	switch stmt.Op {
	case model.OpLet:
		return b.applyLet(stmt)
	case model.OpInit:
		return b.applyInit(stmt)
	case model.OpStore:
		return b.applyStore(stmt)
	case model.OpDrop:
		return b.applyDrop(stmt)
	case model.OpTemp:
		return b.applyTemp(idx, stmt)
	default:
		return fmt.Errorf("unknown statement op %d", stmt.Op)
	}
}

func (b *builder) applyLet(stmt *model.Stmt) error {
	if _, exists := b.prog.byName[stmt.Name]; exists {
		return fmt.Errorf("binding %q already declared", stmt.Name)
	}
	bind := &Binding{
		Name:    stmt.Name,
		DeclPos: len(b.prog.Bindings),
	}
	b.prog.Bindings = append(b.prog.Bindings, bind)
	b.prog.byName[stmt.Name] = bind

	if stmt.Expr == nil {
		return nil
	}
	val, err := b.instantiate(stmt.Expr, stmt.Name)
	if err != nil {
		return err
	}
	bind.Value = val
	return nil
}

func (b *builder) applyInit(stmt *model.Stmt) error {
	bind, ok := b.prog.byName[stmt.Name]
	if !ok {
		return fmt.Errorf("binding %q assigned before it is declared", stmt.Name)
	}
	if bind.Value != nil {
		return fmt.Errorf("binding %q already initialized", stmt.Name)
	}
	if stmt.Expr == nil {
		return fmt.Errorf("assignment to %q has no value", stmt.Name)
	}
	val, err := b.instantiate(stmt.Expr, stmt.Name)
	if err != nil {
		return err
	}
	bind.Value = val
	return nil
}

func (b *builder) applyStore(stmt *model.Stmt) error {
	bind, err := b.liveBinding(stmt.Name)
	if err != nil {
		return err
	}
	fs, ok := bind.Value.Field(stmt.Field)
	if !ok {
		return fmt.Errorf("type %q has no field %q", bind.Value.Type.Name, stmt.Field)
	}
	if fs.Decl.Kind != model.FieldSlot {
		return fmt.Errorf("field %q of %q is not a slot; only slots can be stored into", stmt.Field, bind.Value.Type.Name)
	}
	if fs.Child != nil || fs.Ref != nil {
		return fmt.Errorf("slot %s.%s is already filled", bind.Value.ID, stmt.Field)
	}
	if stmt.Arg == nil {
		return fmt.Errorf("store into %s.%s has no argument", bind.Value.ID, stmt.Field)
	}
	return b.fill(bind.Value, fs, stmt.Arg)
}

func (b *builder) applyDrop(stmt *model.Stmt) error {
	bind, ok := b.prog.byName[stmt.Name]
	if !ok {
		return fmt.Errorf("cannot drop unknown binding %q", stmt.Name)
	}
	if bind.Moved {
		return fmt.Errorf("cannot drop %q: its value was moved", stmt.Name)
	}
	if bind.Dropped {
		return fmt.Errorf("binding %q dropped twice", stmt.Name)
	}
	if bind.Value == nil {
		return fmt.Errorf("cannot drop %q: it was never initialized", stmt.Name)
	}
	bind.Dropped = true
	return nil
}

func (b *builder) applyTemp(idx int, stmt *model.Stmt) error {
	if stmt.Expr == nil {
		return fmt.Errorf("temporary statement has no value")
	}
	b.tempSeq++
	val, err := b.instantiate(stmt.Expr, fmt.Sprintf("temp#%d", b.tempSeq))
	if err != nil {
		return err
	}
	b.prog.Temps[idx] = val
	return nil
}

// liveBinding resolves a binding that still owns its value.
func (b *builder) liveBinding(name string) (*Binding, error) {
	bind, ok := b.prog.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown binding %q", name)
	}
	if bind.Value == nil {
		return nil, fmt.Errorf("binding %q is not initialized", name)
	}
	if bind.Moved {
		return nil, fmt.Errorf("binding %q no longer owns its value (it was moved)", name)
	}
	if bind.Dropped {
		return nil, fmt.Errorf("binding %q was already dropped", name)
	}
	return bind, nil
}

// instantiate builds the value tree for expr, registering every value and
// reference constraint as it goes.
func (b *builder) instantiate(expr *model.Expr, id string) (*Value, error) {
	t, ok := b.scen.Type(expr.Type)
	if !ok {
		return nil, fmt.Errorf("unknown type %q", expr.Type)
	}

	v := &Value{
		ID:     id,
		Type:   t,
		Fields: make([]*FieldState, len(t.Fields)),
	}
	for i, f := range t.Fields {
		v.Fields[i] = &FieldState{Decl: f}
	}
	b.prog.Values = append(b.prog.Values, v)
	b.prog.Outlives.AddValue(id)

	supplied := make(map[string]bool)
	for _, arg := range expr.Args {
		fs, ok := v.Field(arg.Field)
		if !ok {
			return nil, fmt.Errorf("type %q has no field %q", t.Name, arg.Field)
		}
		if supplied[arg.Field] {
			return nil, fmt.Errorf("field %q of %q supplied twice", arg.Field, t.Name)
		}
		supplied[arg.Field] = true

		if fs.Decl.Kind == model.FieldSlot {
			return nil, fmt.Errorf("slot field %q of %q cannot be supplied at construction; use store", arg.Field, t.Name)
		}
		if err := b.fill(v, fs, arg); err != nil {
			return nil, err
		}
	}

	// Owned and ref fields have no default: an unsupplied one is a hole.
	for _, fs := range v.Fields {
		if fs.Decl.Kind == model.FieldSlot {
			continue
		}
		if !supplied[fs.Decl.Name] {
			return nil, fmt.Errorf("missing argument for field %q of %q", fs.Decl.Name, t.Name)
		}
	}

	return v, nil
}

// fill places one argument into a field state, enforcing the kind contract.
func (b *builder) fill(owner *Value, fs *FieldState, arg *model.Arg) error {
	f := fs.Decl
	switch {
	case arg.Ref != "":
		if f.Kind == model.FieldOwned {
			return fmt.Errorf("field %q of %q is owned and cannot hold a reference", f.Name, owner.Type.Name)
		}
		bind, err := b.liveBinding(arg.Ref)
		if err != nil {
			return fmt.Errorf("reference for field %q: %w", f.Name, err)
		}
		if bind.Value.Type.Name != f.Of {
			return fmt.Errorf("field %q of %q references a %q, want %q", f.Name, owner.Type.Name, bind.Value.Type.Name, f.Of)
		}
		fs.Ref = bind.Value
		return b.prog.Outlives.AddConstraint(bind.Value.ID, owner.ID)

	case arg.Move != "":
		if f.Kind == model.FieldRef {
			return fmt.Errorf("field %q of %q is a reference and cannot take ownership", f.Name, owner.Type.Name)
		}
		bind, err := b.liveBinding(arg.Move)
		if err != nil {
			return fmt.Errorf("move into field %q: %w", f.Name, err)
		}
		if bind.Value.Type.Name != f.Of {
			return fmt.Errorf("field %q of %q takes a %q, want %q", f.Name, owner.Type.Name, bind.Value.Type.Name, f.Of)
		}
		bind.Moved = true
		fs.Child = bind.Value
		bind.Value.Owner = owner
		return nil

	case arg.New != nil:
		if f.Kind == model.FieldRef {
			return fmt.Errorf("field %q of %q is a reference and cannot construct a value", f.Name, owner.Type.Name)
		}
		if arg.New.Type != f.Of {
			return fmt.Errorf("field %q of %q takes a %q, want %q", f.Name, owner.Type.Name, arg.New.Type, f.Of)
		}
		child, err := b.instantiate(arg.New, owner.ID+"."+f.Name)
		if err != nil {
			return err
		}
		child.Owner = owner
		fs.Child = child
		return nil

	default:
		return fmt.Errorf("argument for field %q of %q supplies nothing", f.Name, owner.Type.Name)
	}
}
