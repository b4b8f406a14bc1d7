package modlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Source
	}{
		{
			name:  "comment and blank lines skipped",
			input: "# comment\n\nhttps://example.com/repoA.git\n",
			want:  []Source{{URL: "https://example.com/repoA.git", Line: 3}},
		},
		{
			name:  "order and duplicates preserved",
			input: "b\na\nb\n",
			want: []Source{
				{URL: "b", Line: 1},
				{URL: "a", Line: 2},
				{URL: "b", Line: 3},
			},
		},
		{
			name:  "crlf and surrounding whitespace trimmed",
			input: "  https://example.com/x.git \r\n\t\r\n",
			want:  []Source{{URL: "https://example.com/x.git", Line: 1}},
		},
		{
			name:  "indented hash is not a comment",
			input: " #not-a-comment\n",
			want:  []Source{{URL: "#not-a-comment", Line: 1}},
		},
		{
			name:  "no trailing newline",
			input: "# only\ngit@example.com:org/mod.git",
			want:  []Source{{URL: "git@example.com:org/mod.git", Line: 2}},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_CommentsNeverProduceSources(t *testing.T) {
	input := "#https://example.com/a.git\n# https://example.com/b.git\n#\n"
	got, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no sources, got %v", got)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modules_file.txt")
	if err := os.WriteFile(path, []byte("# mods\n/srv/git/toml_gd\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := []Source{{URL: "/srv/git/toml_gd", Line: 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	if !os.IsNotExist(err) {
		t.Errorf("Load() error = %v, want not-exist", err)
	}
}

func TestSource_DirName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/repoA.git", "repoA"},
		{"https://example.com/org/repoB", "repoB"},
		{"https://example.com/org/repoC/", "repoC"},
		{"git@github.com:org/toml_gd.git", "toml_gd"},
		{"host:mod", "mod"},
		{"/srv/git/redirect/.git", "redirect"},
		{"../local-module", "local-module"},
		{"file:///srv/git/x.git", "x"},
		{"/", "repo"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := (Source{URL: tt.url}).DirName(); got != tt.want {
				t.Errorf("DirName(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
