package app

import (
	"context"
	"fmt"
	"os"

	"github.com/specialistvlad/dropsimgo/internal/ctxlog"
	"github.com/specialistvlad/dropsimgo/internal/dangling"
	"github.com/specialistvlad/dropsimgo/internal/droporder"
	"github.com/specialistvlad/dropsimgo/internal/ownership"
	"github.com/specialistvlad/dropsimgo/internal/registry"
	"github.com/specialistvlad/dropsimgo/internal/report"
	"github.com/specialistvlad/dropsimgo/internal/trace"
	"github.com/specialistvlad/dropsimgo/internal/validity"
)

// Run executes the selected scenarios and, if configured, writes the report.
// It returns an error when any scenario is rejected or structurally invalid.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.ListOnly {
		return a.list()
	}

	entries, err := a.selectEntries()
	if err != nil {
		return err
	}

	a.logger.Info("🚀 Running scenarios...", "count", len(entries))
	doc := &report.Document{}
	failed := 0
	for _, entry := range entries {
		rep, err := a.runScenario(ctx, entry)
		doc.Scenarios = append(doc.Scenarios, rep)
		if err != nil {
			failed++
			a.logger.Error("Scenario failed.", "scenario", entry.Name, "error", err)
		}
	}
	a.logger.Info("🏁 All scenarios finished.", "count", len(entries), "failed", failed)

	if a.config.ReportPath != "" {
		if err := a.writeReport(doc); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(entries))
	}
	return nil
}

// list prints every registered scenario with its description.
func (a *App) list() error {
	for _, name := range a.registry.Names() {
		entry, _ := a.registry.Get(name)
		if entry.Description != "" {
			fmt.Fprintf(a.outW, "%-14s %s\n", name, entry.Description)
		} else {
			fmt.Fprintln(a.outW, name)
		}
	}
	return nil
}

// selectEntries resolves the configuration into the scenarios to run: the
// named one if given, otherwise everything loaded from the scenario path.
func (a *App) selectEntries() ([]*registry.Entry, error) {
	if a.config.ScenarioName != "" {
		entry, ok := a.registry.Get(a.config.ScenarioName)
		if !ok {
			return nil, fmt.Errorf("unknown scenario %q (use -list to see what is available)", a.config.ScenarioName)
		}
		return []*registry.Entry{entry}, nil
	}

	entries := make([]*registry.Entry, 0, len(a.loaded))
	for _, name := range a.loaded {
		entry, _ := a.registry.Get(name)
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no scenarios to run in %s", a.config.ScenarioPath)
	}
	return entries, nil
}

// runScenario executes the full pipeline for one scenario and always returns
// a report entry, alongside the error that failed the scenario, if any.
func (a *App) runScenario(ctx context.Context, entry *registry.Entry) (*report.Scenario, error) {
	scen := entry.Build()
	rep := &report.Scenario{
		Name:        entry.Name,
		Description: entry.Description,
		Source:      entry.Source,
	}

	prog, err := ownership.Build(ctx, scen)
	if err != nil {
		rep.Verdict = report.VerdictInvalid
		rep.Error = err.Error()
		return rep, err
	}

	order := droporder.Compute(ctx, prog)
	verdict := validity.Check(ctx, prog, order)
	if !verdict.Accepted() {
		rep.Verdict = report.VerdictRejected
		for _, v := range verdict.Violations {
			rep.Violations = append(rep.Violations, report.Violation{
				Value:    v.Value,
				Field:    v.Field,
				Referent: v.Referent,
				Reason:   v.Reason,
			})
		}
		return rep, fmt.Errorf("scenario %q rejected: %s", entry.Name, verdict.Violations[0].Error())
	}
	rep.Verdict = report.VerdictAccepted

	for _, e := range order.Events {
		rep.Trace = append(rep.Trace, e.String())
	}
	if !a.config.CheckOnly {
		fmt.Fprintf(a.outW, "--- %s ---\n", entry.Name)
		order.Replay(trace.NewLineWriter(a.outW))
	}

	for _, f := range dangling.Simulate(ctx, prog, order) {
		rep.Findings = append(rep.Findings, report.Finding{
			Value:   f.Value,
			Field:   f.Field,
			Outcome: f.Outcome.String(),
			Detail:  f.Detail,
		})
		if f.Outcome == dangling.OutcomeUnsound {
			a.logger.Warn("Destructor read is unsound if executed.",
				"scenario", entry.Name,
				"value", f.Value,
				"field", f.Field,
				"detail", f.Detail,
			)
		}
	}

	return rep, nil
}

// writeReport emits the YAML report to the configured destination.
func (a *App) writeReport(doc *report.Document) error {
	if a.config.ReportPath == "-" {
		return report.Write(a.outW, doc)
	}
	f, err := os.Create(a.config.ReportPath)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()
	if err := report.Write(f, doc); err != nil {
		return err
	}
	a.logger.Info("Report written.", "path", a.config.ReportPath)
	return nil
}
