package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Env holds settings read from the environment. Command-line flags take
// precedence over every field here.
type Env struct {
	// Root overrides target root discovery.
	Root string `env:"MODAPPLY_ROOT"`

	// ModulesFile is the module list used by apply.
	ModulesFile string `env:"MODAPPLY_MODULES_FILE,default=modules_file.txt"`

	// ScratchDir is the clone directory, relative to Root unless absolute.
	ScratchDir string `env:"MODAPPLY_SCRATCH_DIR,default=temp"`

	// Manifest is the manifest file, relative to Root unless absolute.
	Manifest string `env:"MODAPPLY_MANIFEST,default=.applied_modules"`

	// Git is the git executable looked up on PATH.
	Git string `env:"MODAPPLY_GIT,default=git"`
}

// LoadEnv reads Env from the process environment.
func LoadEnv(ctx context.Context) (*Env, error) {
	return loadEnv(ctx, envconfig.OsLookuper())
}

func loadEnv(ctx context.Context, lookuper envconfig.Lookuper) (*Env, error) {
	var env Env
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &env,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}
	return &env, nil
}
