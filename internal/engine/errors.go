package engine

import (
	"errors"

	"github.com/danieljhkim/modapply/internal/fsops"
)

var (
	// ErrConfig indicates a missing input or tool: the module list, the
	// target root, or the git executable.
	ErrConfig = errors.New("configuration error")

	// ErrEnvironment indicates the scratch directory could not be used.
	ErrEnvironment = errors.New("environment error")

	// ErrClone indicates a module repository could not be cloned.
	ErrClone = errors.New("clone failed")

	// ErrDestinationExists indicates a copy target already exists and
	// force was not requested.
	ErrDestinationExists = fsops.ErrDestinationExists

	// ErrPatch indicates a patch failed to apply in strict mode.
	ErrPatch = errors.New("patch failed")

	// ErrRestore indicates the target tree could not be restored.
	ErrRestore = errors.New("restore failed")

	// ErrManifestMissing indicates clean was run without a manifest.
	ErrManifestMissing = errors.New("manifest missing")

	// ErrValidation indicates the manifest holds unusable entries.
	ErrValidation = errors.New("validation failed")
)
