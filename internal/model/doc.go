// Package model defines the format-agnostic representation of a scenario: a
// single-scope program over declared value types, bindings, references,
// explicit drops and opt-out annotations.
//
// The `model.Scenario` is the single source of truth for the `ownership`,
// `droporder`, `validity` and `dangling` packages. Scenarios are produced
// either programmatically by the built-in scenario packages or by the HCL
// loader; neither producer leaks into this package.
package model
