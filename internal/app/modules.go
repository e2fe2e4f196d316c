package app

import (
	"github.com/specialistvlad/dropsimgo/internal/registry"
	"github.com/specialistvlad/dropsimgo/scenarios/dropglue"
	"github.com/specialistvlad/dropsimgo/scenarios/droporder"
	"github.com/specialistvlad/dropsimgo/scenarios/maydangle"
	"github.com/specialistvlad/dropsimgo/scenarios/phantom"
)

// coreModules is the definitive list of all scenario modules that are
// compiled into the dropsimgo binary.
var coreModules = []registry.Module{
	&droporder.Module{},
	&dropglue.Module{},
	&maydangle.Module{},
	&phantom.Module{},
}
