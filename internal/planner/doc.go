// Package planner handles the planning phase of an apply.
//
// The planner turns the module repositories cloned into scratch into a
// deterministic list of operations against the target tree. It detects
// conflicts up front so a conflicting apply fails before anything in the
// target is touched.
//
// Key responsibilities:
//   - Generate ApplyPlan with ordered copy and patch operations
//   - Detect conflicts (existing destinations, type mismatches, directories
//     provided by more than one module repository)
//   - Resolve precedence between module repositories when forced
package planner
