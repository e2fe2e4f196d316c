// Package droporder registers the first lesson: same-scope bindings are
// destroyed in reverse of their declaration order, and declaring a binding
// before assigning it does not change that.
package droporder

import (
	"github.com/specialistvlad/dropsimgo/internal/model"
	"github.com/specialistvlad/dropsimgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the scenario with the application registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Entry{
		Name:        "drop_order",
		Description: "a is declared first and destroyed last, even though b is initialized first",
		Source:      registry.BuiltinSource,
		Build:       buildDropOrder,
	})
}

func buildDropOrder() *model.Scenario {
	s := model.NewScenario("drop_order")
	s.Description = "a is declared first and destroyed last, even though b is initialized first"

	s.DefineType(&model.Type{Name: "A", Dtor: &model.Destructor{}})
	s.DefineType(&model.Type{Name: "B", Dtor: &model.Destructor{}})

	// Declaration order a, b; initialization order b, a. Declaration wins.
	s.Let("a")
	s.LetInit("b", model.Val("B"))
	s.Init("a", model.Val("A"))
	return s
}
