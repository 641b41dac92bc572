package core_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const modulePath = "github.com/leapstack-labs/evaldbt"

// TestPublicPackageImports keeps pkg/ free of internal packages and pins the
// few non-stdlib imports each public package may use.
func TestPublicPackageImports(t *testing.T) {
	tests := []struct {
		name    string
		dir     string
		allowed map[string]bool
	}{
		{
			name:    "core is stdlib only",
			dir:     ".",
			allowed: map[string]bool{},
		},
		{
			name: "lint builds on core",
			dir:  "../lint",
			allowed: map[string]bool{
				modulePath + "/pkg/core":     true,
				"golang.org/x/sync/errgroup": true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for file, imports := range sourceImports(t, tt.dir) {
				for _, imp := range imports {
					if strings.HasPrefix(imp, modulePath+"/internal/") {
						t.Errorf("%s imports internal package %s", file, imp)
						continue
					}
					if strings.Contains(imp, ".") && !tt.allowed[imp] {
						t.Errorf("%s imports forbidden package %s", file, imp)
					}
				}
			}
		})
	}
}

// sourceImports maps each non-test Go file in dir to its import paths.
func sourceImports(t *testing.T, dir string) map[string][]string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read %s: %v", dir, err)
	}

	fset := token.NewFileSet()
	result := make(map[string][]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}

		path := filepath.Join(dir, name)
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			t.Errorf("failed to parse %s: %v", path, err)
			continue
		}
		for _, imp := range f.Imports {
			result[path] = append(result[path], strings.Trim(imp.Path.Value, `"`))
		}
	}
	return result
}
