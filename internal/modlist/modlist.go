// Package modlist reads module list files.
//
// A module list names one repository location per line. Lines starting
// with '#' are comments and blank lines are ignored; there is no other
// syntax.
package modlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Source is one repository location from a module list.
type Source struct {
	// URL is the clone location (URL, scp-style host:path, or local path).
	URL string `json:"url"`

	// Line is the 1-based line number the location was read from.
	Line int `json:"line"`
}

// DirName returns the directory name git clone would create for the source.
func (s Source) DirName() string {
	name := strings.TrimRight(s.URL, "/\\")
	name = strings.TrimSuffix(name, "/.git")
	if i := strings.LastIndexAny(name, "/\\:"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, ".git")
	if name == "" || name == "." || name == ".." {
		return "repo"
	}
	return name
}

// Parse reads sources from r in order. Duplicates are kept.
func Parse(r io.Reader) ([]Source, error) {
	var sources []Source

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sources = append(sources, Source{URL: line, Line: lineNo})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read module list: %w", err)
	}

	return sources, nil
}

// Load reads the module list at path.
func Load(path string) ([]Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	return Parse(f)
}
