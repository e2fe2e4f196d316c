// Package dropglue registers the glue lessons: destruction of a value is the
// custom destructor body (if any) followed by synthesized teardown of its
// owned fields — never of its borrowed ones — recursing depth-first.
package dropglue

import (
	"github.com/specialistvlad/dropsimgo/internal/model"
	"github.com/specialistvlad/dropsimgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the scenarios with the application registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Entry{
		Name:        "drop_glue1",
		Description: "glue destroys owned fields after the custom destructor body, in field order",
		Source:      registry.BuiltinSource,
		Build:       buildGlue1,
	})
	r.Register(&registry.Entry{
		Name:        "drop_glue2",
		Description: "glue only sticks to owned fields; a borrowed field is destroyed by its own binding",
		Source:      registry.BuiltinSource,
		Build:       buildGlue2,
	})
	r.Register(&registry.Entry{
		Name:        "drop_glue3",
		Description: "glue recurses when an owned field owns fields of its own",
		Source:      registry.BuiltinSource,
		Build:       buildGlue3,
	})
}

func buildGlue1() *model.Scenario {
	s := model.NewScenario("drop_glue1")
	s.Description = "glue destroys owned fields after the custom destructor body, in field order"

	s.DefineType(&model.Type{Name: "B1", Dtor: &model.Destructor{}})
	s.DefineType(&model.Type{Name: "B2", Dtor: &model.Destructor{}})
	s.DefineType(&model.Type{
		Name: "A",
		Dtor: &model.Destructor{},
		Fields: []*model.Field{
			{Name: "b1", Of: "B1", Kind: model.FieldOwned},
			{Name: "b2", Of: "B2", Kind: model.FieldOwned},
		},
	})

	// The value is never bound, so it dies at the end of its own statement.
	s.Temp(model.Val("A",
		model.NewArg("b1", model.Val("B1")),
		model.NewArg("b2", model.Val("B2")),
	))
	return s
}

func buildGlue2() *model.Scenario {
	s := model.NewScenario("drop_glue2")
	s.Description = "glue only sticks to owned fields; a borrowed field is destroyed by its own binding"

	s.DefineType(&model.Type{Name: "B1", Dtor: &model.Destructor{}})
	s.DefineType(&model.Type{Name: "B2", Dtor: &model.Destructor{}})
	s.DefineType(&model.Type{
		Name: "A",
		Dtor: &model.Destructor{},
		Fields: []*model.Field{
			{Name: "b1", Of: "B1", Kind: model.FieldRef},
			{Name: "b2", Of: "B2", Kind: model.FieldOwned},
		},
	})

	s.LetInit("b1", model.Val("B1"))
	s.Temp(model.Val("A",
		model.RefArg("b1", "b1"),
		model.NewArg("b2", model.Val("B2")),
	))
	return s
}

func buildGlue3() *model.Scenario {
	s := model.NewScenario("drop_glue3")
	s.Description = "glue recurses when an owned field owns fields of its own"

	s.DefineType(&model.Type{Name: "C1", Dtor: &model.Destructor{}})
	s.DefineType(&model.Type{Name: "C2", Dtor: &model.Destructor{}})
	s.DefineType(&model.Type{
		Name: "B1",
		Dtor: &model.Destructor{},
		Fields: []*model.Field{
			{Name: "c1", Of: "C1", Kind: model.FieldOwned},
			{Name: "c2", Of: "C2", Kind: model.FieldOwned},
		},
	})
	s.DefineType(&model.Type{
		Name: "A",
		Dtor: &model.Destructor{},
		Fields: []*model.Field{
			{Name: "b1", Of: "B1", Kind: model.FieldOwned},
		},
	})

	s.LetInit("b1", model.Val("B1",
		model.NewArg("c1", model.Val("C1")),
		model.NewArg("c2", model.Val("C2")),
	))
	// Moving b1 into the temporary transfers destruction responsibility.
	s.Temp(model.Val("A", model.MoveArg("b1", "b1")))
	return s
}
