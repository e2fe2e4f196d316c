// Package maydangle registers the lifetime lessons: when a destructor forces
// a referent to outlive its borrower, what the may-dangle opt-out waives, and
// what no opt-out can waive.
package maydangle

import (
	"github.com/specialistvlad/dropsimgo/internal/model"
	"github.com/specialistvlad/dropsimgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the scenarios with the application registry.
func (m *Module) Register(r *registry.Registry) {
	for _, e := range []*registry.Entry{
		{
			Name:        "may_dangle1",
			Description: "a trivially destroyed value never reads its fields, so its reference may dangle freely",
			Build:       buildMayDangle1,
		},
		{
			Name:        "may_dangle2",
			Description: "adding an empty custom destructor makes the same dangling reference a rejection",
			Build:       buildMayDangle2,
		},
		{
			Name:        "may_dangle3",
			Description: "the opt-out waives the check for scope-exit destruction",
			Build:       buildMayDangle3,
		},
		{
			Name:        "may_dangle4",
			Description: "the opt-out applies to generic content fields the same way as to plain references",
			Build:       buildMayDangle4,
		},
		{
			Name:        "may_dangle5",
			Description: "a destructor that reads its opted-out field is accepted but unsound if executed",
			Build:       buildMayDangle5,
		},
		{
			Name:        "may_dangle6",
			Description: "explicit drops re-enable the check the opt-out waived",
			Build:       buildMayDangle6,
		},
		{
			Name:        "may_dangle7",
			Description: "explicitly dropping a moved-out binding breaches the ownership tree",
			Build:       buildMayDangle7,
		},
	} {
		e.Source = registry.BuiltinSource
		r.Register(e)
	}
}

// buildMayDangle1: neither type has a destructor, so nothing ever reads the
// reference and the explicit drop of the referent is fine.
func buildMayDangle1() *model.Scenario {
	s := model.NewScenario("may_dangle1")
	s.DefineType(&model.Type{Name: "B"})
	s.DefineType(&model.Type{
		Name: "A",
		Fields: []*model.Field{
			{Name: "target", Of: "B", Kind: model.FieldRef},
		},
	})

	s.Let("a")
	s.LetInit("b", model.Val("B"))
	s.Init("a", model.Val("A", model.RefArg("target", "b")))
	s.Drop("b") // the reference in a dangles from here on
	return s
}

// buildMayDangle2: the destructor body is empty, but its existence alone
// requires the referent to outlive the borrower.
func buildMayDangle2() *model.Scenario {
	s := model.NewScenario("may_dangle2")
	s.DefineType(&model.Type{Name: "A"})
	s.DefineType(&model.Type{
		Name: "B",
		Dtor: &model.Destructor{},
		Fields: []*model.Field{
			{Name: "target", Of: "A", Kind: model.FieldRef},
		},
	})

	s.Let("b")
	s.LetInit("a", model.Val("A"))
	s.Init("b", model.Val("B", model.RefArg("target", "a")))
	return s
}

func buildMayDangle3() *model.Scenario {
	s := model.NewScenario("may_dangle3")
	s.DefineType(&model.Type{Name: "A"})
	s.DefineType(&model.Type{
		Name: "B",
		Dtor: &model.Destructor{},
		Fields: []*model.Field{
			{Name: "target", Of: "A", Kind: model.FieldRef, MayDangle: true},
		},
	})

	s.Let("b")
	s.LetInit("a", model.Val("A"))
	s.Init("b", model.Val("B", model.RefArg("target", "a")))
	return s
}

func buildMayDangle4() *model.Scenario {
	s := model.NewScenario("may_dangle4")
	s.DefineType(&model.Type{Name: "A"})
	s.DefineType(&model.Type{
		Name: "B",
		Dtor: &model.Destructor{},
		Fields: []*model.Field{
			{Name: "content", Of: "A", Kind: model.FieldRef, MayDangle: true},
		},
	})

	s.Let("b")
	s.LetInit("a", model.Val("A"))
	s.Init("b", model.Val("B", model.RefArg("content", "a")))
	return s
}

// buildMayDangle5: the implementer promised not to touch the field, then
// read it anyway. The model accepts the program and flags the read.
func buildMayDangle5() *model.Scenario {
	s := model.NewScenario("may_dangle5")
	s.DefineType(&model.Type{Name: "Boxed"})
	s.DefineType(&model.Type{
		Name: "B",
		Dtor: &model.Destructor{Reads: []string{"content"}},
		Fields: []*model.Field{
			{Name: "content", Of: "Boxed", Kind: model.FieldRef, MayDangle: true},
		},
	})

	s.Let("b")
	s.LetInit("a", model.Val("Boxed"))
	s.Init("b", model.Val("B", model.RefArg("content", "a")))
	return s
}

func buildMayDangle6() *model.Scenario {
	s := model.NewScenario("may_dangle6")
	s.DefineType(&model.Type{Name: "Boxed"})
	s.DefineType(&model.Type{
		Name: "B",
		Dtor: &model.Destructor{},
		Fields: []*model.Field{
			{Name: "content", Of: "Boxed", Kind: model.FieldRef, MayDangle: true},
		},
	})

	s.Let("b")
	s.LetInit("a", model.Val("Boxed"))
	s.Init("b", model.Val("B", model.RefArg("content", "a")))
	s.Drop("a")
	s.Drop("b")
	return s
}

func buildMayDangle7() *model.Scenario {
	s := model.NewScenario("may_dangle7")
	s.DefineType(&model.Type{Name: "A", Dtor: &model.Destructor{}})
	s.DefineType(&model.Type{
		Name: "B",
		Dtor: &model.Destructor{},
		Fields: []*model.Field{
			{Name: "content", Of: "A", Kind: model.FieldOwned},
		},
	})

	s.Let("b")
	s.LetInit("a", model.Val("A"))
	s.Init("b", model.Val("B", model.MoveArg("content", "a")))
	s.Drop("a") // b owns the value now; this is a structural error
	return s
}
