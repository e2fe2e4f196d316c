package ownership

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/dropsimgo/internal/model"
)

// pairScenario declares two plain types and nothing else; tests add the
// statements they need.
func pairScenario(t *testing.T) *model.Scenario {
	t.Helper()
	s := model.NewScenario("test")
	s.DefineType(&model.Type{Name: "A"})
	s.DefineType(&model.Type{Name: "B"})
	return s
}

func TestBuild_DeclarationOrder(t *testing.T) {
	s := pairScenario(t)
	s.Let("a")
	s.LetInit("b", model.Val("B"))
	s.Init("a", model.Val("A"))

	prog, err := Build(context.Background(), s)
	require.NoError(t, err)

	require.Len(t, prog.Bindings, 2)
	assert.Equal(t, "a", prog.Bindings[0].Name)
	assert.Equal(t, 0, prog.Bindings[0].DeclPos)
	assert.Equal(t, "b", prog.Bindings[1].Name)
	assert.Equal(t, 1, prog.Bindings[1].DeclPos)

	a, ok := prog.Binding("a")
	require.True(t, ok)
	require.NotNil(t, a.Value, "late assignment must still initialize the binding")
	assert.Equal(t, "a", a.Value.ID)
}

func TestBuild_MoveTransfersOwnership(t *testing.T) {
	s := model.NewScenario("test")
	s.DefineType(&model.Type{Name: "A"})
	s.DefineType(&model.Type{
		Name:   "Holder",
		Fields: []*model.Field{{Name: "content", Of: "A", Kind: model.FieldOwned}},
	})
	s.LetInit("a", model.Val("A"))
	s.LetInit("h", model.Val("Holder", model.MoveArg("content", "a")))

	prog, err := Build(context.Background(), s)
	require.NoError(t, err)

	a, _ := prog.Binding("a")
	assert.True(t, a.Moved)

	h, _ := prog.Binding("h")
	fs, ok := h.Value.Field("content")
	require.True(t, ok)
	require.NotNil(t, fs.Child)
	assert.Equal(t, "a", fs.Child.ID, "a moved value keeps its original ID")
	assert.Equal(t, h.Value, fs.Child.Owner)
}

func TestBuild_DropAfterMoveIsRejected(t *testing.T) {
	s := model.NewScenario("test")
	s.DefineType(&model.Type{Name: "A"})
	s.DefineType(&model.Type{
		Name:   "Holder",
		Fields: []*model.Field{{Name: "content", Of: "A", Kind: model.FieldOwned}},
	})
	s.LetInit("a", model.Val("A"))
	s.LetInit("h", model.Val("Holder", model.MoveArg("content", "a")))
	s.Drop("a")

	_, err := Build(context.Background(), s)
	require.Error(t, err)
	assert.ErrorContains(t, err, "its value was moved")
}

func TestBuild_ReferenceRecordsConstraint(t *testing.T) {
	s := model.NewScenario("test")
	s.DefineType(&model.Type{Name: "A"})
	s.DefineType(&model.Type{
		Name:   "Viewer",
		Fields: []*model.Field{{Name: "target", Of: "A", Kind: model.FieldRef}},
	})
	s.LetInit("a", model.Val("A"))
	s.LetInit("v", model.Val("Viewer", model.RefArg("target", "a")))

	prog, err := Build(context.Background(), s)
	require.NoError(t, err)

	v, _ := prog.Binding("v")
	fs, _ := v.Value.Field("target")
	require.NotNil(t, fs.Ref)
	assert.Equal(t, "a", fs.Ref.ID)
	assert.Nil(t, fs.Child, "a reference carries no ownership")

	require.Contains(t, prog.Outlives.nodes, "a")
	assert.Contains(t, prog.Outlives.nodes["a"].requiredBy, "v")
}

func TestBuild_StatementErrors(t *testing.T) {
	tests := []struct {
		name    string
		build   func(s *model.Scenario)
		wantErr string
	}{
		{
			name:    "double declaration",
			build:   func(s *model.Scenario) { s.Let("a"); s.Let("a") },
			wantErr: "already declared",
		},
		{
			name:    "assignment before declaration",
			build:   func(s *model.Scenario) { s.Init("a", model.Val("A")) },
			wantErr: "before it is declared",
		},
		{
			name: "double initialization",
			build: func(s *model.Scenario) {
				s.LetInit("a", model.Val("A"))
				s.Init("a", model.Val("A"))
			},
			wantErr: "already initialized",
		},
		{
			name:    "drop of unknown binding",
			build:   func(s *model.Scenario) { s.Drop("ghost") },
			wantErr: "unknown binding",
		},
		{
			name:    "drop of uninitialized binding",
			build:   func(s *model.Scenario) { s.Let("a"); s.Drop("a") },
			wantErr: "never initialized",
		},
		{
			name: "double drop",
			build: func(s *model.Scenario) {
				s.LetInit("a", model.Val("A"))
				s.Drop("a")
				s.Drop("a")
			},
			wantErr: "dropped twice",
		},
		{
			name:    "unknown type",
			build:   func(s *model.Scenario) { s.LetInit("x", model.Val("Nope")) },
			wantErr: "unknown type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := pairScenario(t)
			tt.build(s)
			_, err := Build(context.Background(), s)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestBuild_ConstructorArgChecks(t *testing.T) {
	newScenario := func() *model.Scenario {
		s := model.NewScenario("test")
		s.DefineType(&model.Type{Name: "A"})
		s.DefineType(&model.Type{
			Name: "Holder",
			Fields: []*model.Field{
				{Name: "content", Of: "A", Kind: model.FieldOwned},
				{Name: "cell", Of: "A", Kind: model.FieldSlot},
			},
		})
		return s
	}

	t.Run("missing owned field", func(t *testing.T) {
		s := newScenario()
		s.LetInit("h", model.Val("Holder"))
		_, err := Build(context.Background(), s)
		assert.ErrorContains(t, err, `missing argument for field "content"`)
	})

	t.Run("slot cannot be supplied at construction", func(t *testing.T) {
		s := newScenario()
		s.LetInit("a", model.Val("A"))
		s.LetInit("h", model.Val("Holder",
			model.NewArg("content", model.Val("A")),
			model.RefArg("cell", "a"),
		))
		_, err := Build(context.Background(), s)
		assert.ErrorContains(t, err, "cannot be supplied at construction")
	})

	t.Run("reference into owned field", func(t *testing.T) {
		s := newScenario()
		s.LetInit("a", model.Val("A"))
		s.LetInit("h", model.Val("Holder", model.RefArg("content", "a")))
		_, err := Build(context.Background(), s)
		assert.ErrorContains(t, err, "cannot hold a reference")
	})

	t.Run("type mismatch", func(t *testing.T) {
		s := newScenario()
		s.DefineType(&model.Type{Name: "B"})
		s.LetInit("h", model.Val("Holder", model.NewArg("content", model.Val("B"))))
		_, err := Build(context.Background(), s)
		assert.ErrorContains(t, err, `takes a "B", want "A"`)
	})
}

func TestBuild_StoreIntoSlot(t *testing.T) {
	newScenario := func() *model.Scenario {
		s := model.NewScenario("test")
		s.DefineType(&model.Type{Name: "A"})
		s.DefineType(&model.Type{
			Name:   "Box",
			Fields: []*model.Field{{Name: "cell", Of: "A", Kind: model.FieldSlot}},
		})
		s.LetInit("box", model.Val("Box"))
		s.LetInit("a", model.Val("A"))
		return s
	}

	t.Run("store a reference", func(t *testing.T) {
		s := newScenario()
		s.Store("box", "cell", model.RefArg("cell", "a"))
		prog, err := Build(context.Background(), s)
		require.NoError(t, err)
		box, _ := prog.Binding("box")
		fs, _ := box.Value.Field("cell")
		require.NotNil(t, fs.Ref)
		assert.Equal(t, "a", fs.Ref.ID)
	})

	t.Run("store a constructed value", func(t *testing.T) {
		s := newScenario()
		s.Store("box", "cell", model.NewArg("cell", model.Val("A")))
		prog, err := Build(context.Background(), s)
		require.NoError(t, err)
		box, _ := prog.Binding("box")
		fs, _ := box.Value.Field("cell")
		require.NotNil(t, fs.Child)
		assert.Equal(t, "box.cell", fs.Child.ID)
	})

	t.Run("double store", func(t *testing.T) {
		s := newScenario()
		s.Store("box", "cell", model.RefArg("cell", "a"))
		s.Store("box", "cell", model.RefArg("cell", "a"))
		_, err := Build(context.Background(), s)
		assert.ErrorContains(t, err, "already filled")
	})

	t.Run("store into non-slot field", func(t *testing.T) {
		s := model.NewScenario("test")
		s.DefineType(&model.Type{Name: "A"})
		s.DefineType(&model.Type{
			Name:   "Viewer",
			Fields: []*model.Field{{Name: "target", Of: "A", Kind: model.FieldRef}},
		})
		s.LetInit("a", model.Val("A"))
		s.LetInit("v", model.Val("Viewer", model.RefArg("target", "a")))
		s.Store("v", "target", model.RefArg("target", "a"))
		_, err := Build(context.Background(), s)
		assert.ErrorContains(t, err, "not a slot")
	})
}

func TestBuild_TypeDeclarationChecks(t *testing.T) {
	t.Run("destructor reads unknown field", func(t *testing.T) {
		s := model.NewScenario("test")
		s.DefineType(&model.Type{
			Name: "A",
			Dtor: &model.Destructor{Reads: []string{"ghost"}},
		})
		_, err := Build(context.Background(), s)
		assert.ErrorContains(t, err, "destructor reads unknown field")
	})

	t.Run("owns_for_drop on non-slot field", func(t *testing.T) {
		s := model.NewScenario("test")
		s.DefineType(&model.Type{Name: "B"})
		s.DefineType(&model.Type{
			Name:   "A",
			Fields: []*model.Field{{Name: "r", Of: "B", Kind: model.FieldRef, OwnsForDrop: true}},
		})
		_, err := Build(context.Background(), s)
		assert.ErrorContains(t, err, "owns_for_drop only applies to slot fields")
	})

	t.Run("field of unknown type", func(t *testing.T) {
		s := model.NewScenario("test")
		s.DefineType(&model.Type{
			Name:   "A",
			Fields: []*model.Field{{Name: "x", Of: "Ghost", Kind: model.FieldOwned}},
		})
		_, err := Build(context.Background(), s)
		assert.ErrorContains(t, err, `unknown type "Ghost"`)
	})
}

func TestBuild_Temporary(t *testing.T) {
	s := pairScenario(t)
	s.Temp(model.Val("A"))
	s.Temp(model.Val("B"))

	prog, err := Build(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, prog.Temps, 2)
	assert.Equal(t, "temp#1", prog.Temps[0].ID)
	assert.Equal(t, "temp#2", prog.Temps[1].ID)
}
