package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/dropsimgo/internal/ctxlog"
	"github.com/specialistvlad/dropsimgo/internal/model"
	"github.com/specialistvlad/dropsimgo/internal/registry"
)

// Loader turns a path into scenario models. The HCL implementation lives in
// the hcl package; tests substitute their own.
type Loader interface {
	Load(ctx context.Context, path string) ([]*model.Scenario, error)
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *Config
	// loaded holds the names of file-provided scenarios, in file order.
	loaded []string
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and registry. Trace
// and report output goes to outW; log output goes to logW.
func NewApp(outW, logW io.Writer, cfg *Config, loader Loader, modules ...registry.Module) *App {
	logger := newLogger(cfg, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("Built-in scenario modules registered.", "count", reg.Len())

	a := &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   cfg,
	}

	if cfg.ScenarioPath != "" {
		scenarios, err := loader.Load(ctx, cfg.ScenarioPath)
		if err != nil {
			// A failure to load scenario files is a fatal startup error.
			panic(fmt.Errorf("failed to load scenarios: %w", err))
		}
		for _, scen := range scenarios {
			scen := scen
			reg.Register(&registry.Entry{
				Name:        scen.Name,
				Description: scen.Description,
				Source:      cfg.ScenarioPath,
				Build:       func() *model.Scenario { return scen },
			})
			a.loaded = append(a.loaded, scen.Name)
		}
		logger.Debug("Scenario files registered.", "count", len(a.loaded))
	}

	return a
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
