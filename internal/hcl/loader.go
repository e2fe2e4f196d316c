// Package hcl loads scenarios from declarative .hcl files and translates
// them into the format-agnostic model. Statement blocks are translated in
// source order, which is what makes a scenario file a program rather than a
// bag of declarations.
package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/specialistvlad/dropsimgo/internal/ctxlog"
	"github.com/specialistvlad/dropsimgo/internal/fsutil"
	"github.com/specialistvlad/dropsimgo/internal/model"
)

// Loader reads scenario files from disk. It is the HCL-specific
// implementation of the app's Loader interface.
type Loader struct{}

// NewLoader creates a new HCL scenario loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load finds every .hcl file under path (a file or a directory) and
// translates each into one scenario. Files are processed in sorted order so
// runs are deterministic.
func (l *Loader) Load(ctx context.Context, path string) ([]*model.Scenario, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading scenarios from path.", "path", path)

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find scenario files in %s: %w", path, err)
	}
	if len(files) == 0 {
		logger.Warn("No .hcl scenario files found in path.", "path", path)
		return nil, nil
	}

	parser := hclparse.NewParser()
	scenarios := make([]*model.Scenario, 0, len(files))
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		scen, err := l.translateFile(ctx, hclFile, file)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, scen)
		logger.Debug("Loaded scenario from file.", "scenario", scen.Name, "file", file)
	}

	logger.Info("Scenario files loaded.", "count", len(scenarios), "path", path)
	return scenarios, nil
}
