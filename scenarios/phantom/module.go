// Package phantom registers the structural-ownership lessons: a raw slot
// hides a dependency from the model, the opt-out makes that hiding quietly
// dangerous, and the owns-for-destruction marker restores the dependency.
package phantom

import (
	"github.com/specialistvlad/dropsimgo/internal/model"
	"github.com/specialistvlad/dropsimgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the scenarios with the application registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Entry{
		Name:        "phantom1",
		Description: "a box around a raw slot frees a dangling reference without the model noticing",
		Source:      registry.BuiltinSource,
		Build:       buildPhantom1,
	})
	r.Register(&registry.Entry{
		Name:        "phantom2",
		Description: "a value moved into a raw slot carries a destructor the model never sees run",
		Source:      registry.BuiltinSource,
		Build:       buildPhantom2,
	})
	r.Register(&registry.Entry{
		Name:        "phantom3",
		Description: "the owns-for-destruction marker restores the dependency and the program is rejected",
		Source:      registry.BuiltinSource,
		Build:       buildPhantom3,
	})
}

func buildPhantom1() *model.Scenario {
	s := model.NewScenario("phantom1")
	s.DefineType(&model.Type{Name: "Str"})
	s.DefineType(&model.Type{
		Name: "MyBox",
		Dtor: &model.Destructor{Reads: []string{"slot"}},
		Fields: []*model.Field{
			{Name: "slot", Of: "Str", Kind: model.FieldSlot, MayDangle: true},
		},
	})

	s.LetInit("box", model.Val("MyBox"))
	s.LetInit("s", model.Val("Str"))
	s.Store("box", "slot", model.RefArg("slot", "s"))
	s.Drop("s") // the slot dangles from here until the box is destroyed
	return s
}

func buildPhantom2() *model.Scenario {
	s := model.NewScenario("phantom2")
	s.DefineType(&model.Type{Name: "Str"})
	s.DefineType(&model.Type{
		Name: "PrintOnDrop",
		Dtor: &model.Destructor{Reads: []string{"msg"}},
		Fields: []*model.Field{
			{Name: "msg", Of: "Str", Kind: model.FieldRef},
		},
	})
	s.DefineType(&model.Type{
		Name: "MyBox",
		Dtor: &model.Destructor{Reads: []string{"slot"}},
		Fields: []*model.Field{
			{Name: "slot", Of: "PrintOnDrop", Kind: model.FieldSlot, MayDangle: true},
		},
	})

	s.LetInit("box", model.Val("MyBox"))
	s.LetInit("s", model.Val("Str"))
	s.Store("box", "slot",
		model.NewArg("slot", model.Val("PrintOnDrop", model.RefArg("msg", "s"))))
	s.Drop("s")
	return s
}

func buildPhantom3() *model.Scenario {
	s := model.NewScenario("phantom3")
	s.DefineType(&model.Type{Name: "Str"})
	s.DefineType(&model.Type{
		Name: "PrintOnDrop",
		Dtor: &model.Destructor{Reads: []string{"msg"}},
		Fields: []*model.Field{
			{Name: "msg", Of: "Str", Kind: model.FieldRef},
		},
	})
	s.DefineType(&model.Type{
		Name: "MyBox",
		Dtor: &model.Destructor{Reads: []string{"slot"}},
		Fields: []*model.Field{
			// Same slot as phantom2, now owned for destruction purposes.
			{Name: "slot", Of: "PrintOnDrop", Kind: model.FieldSlot, MayDangle: true, OwnsForDrop: true},
		},
	})

	s.LetInit("box", model.Val("MyBox"))
	s.LetInit("s", model.Val("Str"))
	s.Store("box", "slot",
		model.NewArg("slot", model.Val("PrintOnDrop", model.RefArg("msg", "s"))))
	s.Drop("s")
	return s
}
