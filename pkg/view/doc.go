// Package view owns the interactive state of a provenance graph viewer and
// turns it into positioned, styled snapshots.
//
// # State
//
// A [Controller] holds one [ViewState] with four independent slices:
//
//   - Collapse: which tiers are folded into aggregate nodes
//   - Selection: the traced node and its highlight sets
//   - Filter: label substring and tier criteria
//   - Overrides: manually dragged node positions
//
// Every transition method mutates state and synchronously re-runs the whole
// pipeline (collapse, trace, restrict, filter, layout) before returning the
// new [Snapshot]; there is never a partially updated view.
//
// # Exclusivity Rules
//
// Tracing and filtering are alternative highlighting modes. Selecting a node
// expands every tier first, so the trace sees every connection. Applying a
// non-empty filter clears the selection. [Controller.ClearAll] resets both.
// Position overrides survive every transition except
// [Controller.ResetPositions].
//
// # Concurrency
//
// A Controller is not safe for concurrent use. Hosts with several goroutines,
// such as the HTTP server, serialize access per controller.
//
// # Events
//
// Transport adapters describe interactions as [Event] values and pass them to
// [Controller.Apply], which validates input and dispatches to the matching
// transition.
package view
