package droporder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/dropsimgo/internal/model"
	"github.com/specialistvlad/dropsimgo/internal/ownership"
	"github.com/specialistvlad/dropsimgo/internal/trace"
)

func compute(t *testing.T, s *model.Scenario) *Order {
	t.Helper()
	prog, err := ownership.Build(context.Background(), s)
	require.NoError(t, err)
	return Compute(context.Background(), prog)
}

func lines(o *Order) []string {
	rec := trace.NewRecorder()
	o.Replay(rec)
	return rec.Lines()
}

func TestCompute_ReverseDeclarationOrder(t *testing.T) {
	s := model.NewScenario("test")
	s.DefineType(&model.Type{Name: "A", Dtor: &model.Destructor{}})
	s.DefineType(&model.Type{Name: "B", Dtor: &model.Destructor{}})
	s.DefineType(&model.Type{Name: "C", Dtor: &model.Destructor{}})
	s.LetInit("x", model.Val("A"))
	s.LetInit("y", model.Val("B"))
	s.LetInit("z", model.Val("C"))

	o := compute(t, s)
	assert.Equal(t, []string{
		"z destructor start",
		"y destructor start",
		"x destructor start",
	}, lines(o))
}

func TestCompute_DeclarationBeatsInitialization(t *testing.T) {
	s := model.NewScenario("test")
	s.DefineType(&model.Type{Name: "A", Dtor: &model.Destructor{}})
	s.DefineType(&model.Type{Name: "B", Dtor: &model.Destructor{}})
	// a is declared first but initialized last.
	s.Let("a")
	s.LetInit("b", model.Val("B"))
	s.Init("a", model.Val("A"))

	o := compute(t, s)
	assert.Equal(t, []string{
		"b destructor start",
		"a destructor start",
	}, lines(o))
}

func TestCompute_DestructorBodyBeforeGlue(t *testing.T) {
	s := model.NewScenario("test")
	s.DefineType(&model.Type{Name: "F1", Dtor: &model.Destructor{}})
	s.DefineType(&model.Type{Name: "F2", Dtor: &model.Destructor{}})
	s.DefineType(&model.Type{
		Name: "A",
		Dtor: &model.Destructor{},
		Fields: []*model.Field{
			{Name: "f1", Of: "F1", Kind: model.FieldOwned},
			{Name: "f2", Of: "F2", Kind: model.FieldOwned},
		},
	})
	s.LetInit("a", model.Val("A",
		model.NewArg("f1", model.Val("F1")),
		model.NewArg("f2", model.Val("F2")),
	))

	o := compute(t, s)
	assert.Equal(t, []string{
		"a destructor start",
		"a glue field f1 destroyed",
		"a.f1 destructor start",
		"a glue field f2 destroyed",
		"a.f2 destructor start",
	}, lines(o))
}

func TestCompute_GlueWithoutDestructor(t *testing.T) {
	s := model.NewScenario("test")
	s.DefineType(&model.Type{Name: "F", Dtor: &model.Destructor{}})
	s.DefineType(&model.Type{
		Name:   "Plain",
		Fields: []*model.Field{{Name: "f", Of: "F", Kind: model.FieldOwned}},
	})
	s.LetInit("p", model.Val("Plain", model.NewArg("f", model.Val("F"))))

	o := compute(t, s)
	// No destructor-start event for p, but its glue still runs.
	assert.Equal(t, []string{
		"p glue field f destroyed",
		"p.f destructor start",
	}, lines(o))
}

func TestCompute_NoObservableStepForInertValue(t *testing.T) {
	s := model.NewScenario("test")
	s.DefineType(&model.Type{Name: "Inert"})
	s.LetInit("x", model.Val("Inert"))

	o := compute(t, s)
	assert.Empty(t, o.Events)

	_, destroyed := o.DestroyedAt("x")
	assert.True(t, destroyed, "the value is still destroyed, just silently")
}

func TestCompute_ReferencesAreNotGlued(t *testing.T) {
	s := model.NewScenario("test")
	s.DefineType(&model.Type{Name: "B", Dtor: &model.Destructor{}})
	s.DefineType(&model.Type{
		Name:   "A",
		Dtor:   &model.Destructor{},
		Fields: []*model.Field{{Name: "target", Of: "B", Kind: model.FieldRef}},
	})
	s.LetInit("b", model.Val("B"))
	s.LetInit("a", model.Val("A", model.RefArg("target", "b")))

	o := compute(t, s)
	assert.Equal(t, []string{
		"a destructor start", // no glue line for the reference field
		"b destructor start",
	}, lines(o))
}

func TestCompute_TemporaryDiesAtItsStatement(t *testing.T) {
	s := model.NewScenario("test")
	s.DefineType(&model.Type{Name: "A", Dtor: &model.Destructor{}})
	s.DefineType(&model.Type{Name: "T", Dtor: &model.Destructor{}})
	s.LetInit("a", model.Val("A"))
	s.Temp(model.Val("T"))

	o := compute(t, s)
	assert.Equal(t, []string{
		"temp#1 destructor start", // before scope exit destroys a
		"a destructor start",
	}, lines(o))

	tempAt, ok := o.DestroyedAt("temp#1")
	require.True(t, ok)
	aAt, ok := o.DestroyedAt("a")
	require.True(t, ok)
	assert.Less(t, tempAt, aAt)
	assert.False(t, o.ExplicitlyDestroyed("temp#1"), "a temporary's death is automatic")
}

func TestCompute_ExplicitDrop(t *testing.T) {
	s := model.NewScenario("test")
	s.DefineType(&model.Type{Name: "F", Dtor: &model.Destructor{}})
	s.DefineType(&model.Type{
		Name:   "A",
		Dtor:   &model.Destructor{},
		Fields: []*model.Field{{Name: "f", Of: "F", Kind: model.FieldOwned}},
	})
	s.DefineType(&model.Type{Name: "B", Dtor: &model.Destructor{}})
	s.LetInit("a", model.Val("A", model.NewArg("f", model.Val("F"))))
	s.LetInit("b", model.Val("B"))
	s.Drop("a")

	o := compute(t, s)
	assert.Equal(t, []string{
		"a dropped explicitly",
		"a destructor start",
		"a glue field f destroyed",
		"a.f destructor start",
		"b destructor start",
	}, lines(o))

	assert.True(t, o.ExplicitlyDestroyed("a"))
	assert.True(t, o.ExplicitlyDestroyed("a.f"), "explicitness propagates through glue")
	assert.False(t, o.ExplicitlyDestroyed("b"))
}

func TestCompute_MovedBindingIsNotDestroyedTwice(t *testing.T) {
	s := model.NewScenario("test")
	s.DefineType(&model.Type{Name: "Inner", Dtor: &model.Destructor{}})
	s.DefineType(&model.Type{
		Name:   "Outer",
		Dtor:   &model.Destructor{},
		Fields: []*model.Field{{Name: "inner", Of: "Inner", Kind: model.FieldOwned}},
	})
	s.LetInit("i", model.Val("Inner"))
	s.Temp(model.Val("Outer", model.MoveArg("inner", "i")))

	o := compute(t, s)
	assert.Equal(t, []string{
		"temp#1 destructor start",
		"temp#1 glue field inner destroyed",
		"i destructor start",
	}, lines(o))
}

func TestCompute_MarkedSlotIsGlued(t *testing.T) {
	s := model.NewScenario("test")
	s.DefineType(&model.Type{Name: "P", Dtor: &model.Destructor{}})
	s.DefineType(&model.Type{
		Name:   "Box",
		Dtor:   &model.Destructor{},
		Fields: []*model.Field{{Name: "cell", Of: "P", Kind: model.FieldSlot, OwnsForDrop: true}},
	})
	s.LetInit("box", model.Val("Box"))
	s.Store("box", "cell", model.NewArg("cell", model.Val("P")))

	o := compute(t, s)
	assert.Equal(t, []string{
		"box destructor start",
		"box glue field cell destroyed",
		"box.cell destructor start",
	}, lines(o))
}

func TestCompute_BareSlotIsNotGlued(t *testing.T) {
	s := model.NewScenario("test")
	s.DefineType(&model.Type{Name: "P", Dtor: &model.Destructor{}})
	s.DefineType(&model.Type{
		Name:   "Box",
		Dtor:   &model.Destructor{},
		Fields: []*model.Field{{Name: "cell", Of: "P", Kind: model.FieldSlot}},
	})
	s.LetInit("box", model.Val("Box"))
	s.Store("box", "cell", model.NewArg("cell", model.Val("P")))

	o := compute(t, s)
	assert.Equal(t, []string{"box destructor start"}, lines(o))

	_, destroyed := o.DestroyedAt("box.cell")
	assert.False(t, destroyed, "contents of a bare slot leak out of the model")
}
