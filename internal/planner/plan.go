package planner

import "github.com/danieljhkim/modapply/internal/manifest"

// ApplyPlan represents a plan to apply cloned module repositories to a target tree.
type ApplyPlan struct {
	// Sources is the ordered list of module sources contributing to the plan
	Sources []string

	// Operations is the ordered list of operations to execute
	Operations []Operation

	// Conflicts is a list of detected conflicts (empty if no conflicts)
	Conflicts []Conflict

	// Skipped are entries at the top of modules/ or thirdparty/ that are
	// not directories and are never copied
	Skipped []string
}

// Operation represents a single operation to execute.
type Operation struct {
	// Type is the operation type: "copy" or "patch"
	Type string

	// SourcePath is the directory or patch file inside the clone (absolute)
	SourcePath string

	// DestPath is the destination in the target tree (absolute, copy only)
	DestPath string

	// RelPath is the destination relative to the target root (copy only)
	RelPath string

	// Kind is the target directory the copy lands in (copy only)
	Kind manifest.Kind

	// Name is the patch file name (patch only)
	Name string

	// Source is the module source contributing this operation
	Source string
}

// Conflict represents a conflict detected during planning.
type Conflict struct {
	// Path is the destination relative to the target root
	Path string `json:"path"`

	// Reason is a human-readable explanation of the conflict
	Reason string `json:"reason"`

	// Existing describes what currently occupies the path
	Existing string `json:"existing"`

	// Incoming describes what the plan wants to create
	Incoming string `json:"incoming"`
}

// Operation type constants
const (
	OpCopy  = "copy"
	OpPatch = "patch"
)

// NewApplyPlan creates a new empty ApplyPlan.
func NewApplyPlan(sources []string) *ApplyPlan {
	return &ApplyPlan{
		Sources:    sources,
		Operations: []Operation{},
		Conflicts:  []Conflict{},
	}
}

// HasConflicts returns true if the plan has any conflicts.
func (p *ApplyPlan) HasConflicts() bool {
	return len(p.Conflicts) > 0
}

// AddOperation adds an operation to the plan.
func (p *ApplyPlan) AddOperation(op Operation) {
	p.Operations = append(p.Operations, op)
}

// AddConflict adds a conflict to the plan.
func (p *ApplyPlan) AddConflict(conflict Conflict) {
	p.Conflicts = append(p.Conflicts, conflict)
}

// Copies returns the copy operations in order.
func (p *ApplyPlan) Copies() []Operation {
	return p.byType(OpCopy)
}

// Patches returns the patch operations in order.
func (p *ApplyPlan) Patches() []Operation {
	return p.byType(OpPatch)
}

// ConflictPaths returns the paths of all conflicts.
func (p *ApplyPlan) ConflictPaths() []string {
	paths := make([]string, 0, len(p.Conflicts))
	for _, c := range p.Conflicts {
		paths = append(paths, c.Path)
	}
	return paths
}

func (p *ApplyPlan) byType(opType string) []Operation {
	var ops []Operation
	for _, op := range p.Operations {
		if op.Type == opType {
			ops = append(ops, op)
		}
	}
	return ops
}
