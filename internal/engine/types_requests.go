package engine

// ApplyRequest represents a request to apply the modules in a module list.
type ApplyRequest struct {
	// ModulesFile is the module list path (default: modules_file.txt)
	ModulesFile string

	// Force merges into existing destinations, overwriting conflicting files
	Force bool

	// DryRun clones and inspects the modules without changing the target
	DryRun bool

	// StrictPatches aborts apply on the first patch that fails
	StrictPatches bool
}

// CleanRequest represents a request to revert the last apply.
type CleanRequest struct {
	// DryRun reports what would be removed without changing anything
	DryRun bool
}
