// Package app wires the application together: it owns the configured logger,
// the scenario registry, and the per-scenario pipeline of building the
// ownership graph, computing the destruction order, checking validity,
// printing the trace and simulating dangling reads.
package app
