// Package manifest persists the record of what apply changed in a target tree.
//
// The manifest is the only state modapply keeps between runs. It is written
// at the end of apply, consumed by clean, and its presence is what allows
// clean to run at all.
//
// Key concepts:
//   - Manifest: ordered destination entries plus patch metadata
//   - Entry: one copied modules/ or thirdparty/ directory and its source
//   - PatchRecord: one patch file and whether it applied
//   - Store: loads and saves the manifest file atomically
//
// Older manifests were a flat list of paths, one per line. Those are still
// readable; they are always rewritten in the structured form.
package manifest
