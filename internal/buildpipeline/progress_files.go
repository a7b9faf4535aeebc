package buildpipeline

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DisplayNames renders inputs for progress output: relative to baseDir
// when they live below it, slash-separated. Order follows files.
func DisplayNames(files []string, baseDir string) []string {
	base := strings.TrimSpace(baseDir)
	if base != "" {
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
	}
	out := make([]string, len(files))
	for i, file := range files {
		path := filepath.Clean(file)
		if base != "" {
			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}
			if rel, err := filepath.Rel(base, path); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
				path = rel
			}
		}
		out[i] = filepath.ToSlash(path)
	}
	return out
}

// outputPaths maps every input to <outDir>/<name>.ll. Two inputs with the
// same base name would overwrite each other and are rejected.
func outputPaths(outDir string, inputs []string) ([]string, error) {
	out := make([]string, len(inputs))
	seen := make(map[string]string, len(inputs))
	for i, in := range inputs {
		name := filepath.Base(in)
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ".ll"
		path := filepath.Join(outDir, name)
		if prev, dup := seen[path]; dup {
			return nil, fmt.Errorf("inputs %s and %s both write %s", prev, in, path)
		}
		seen[path] = in
		out[i] = path
	}
	return out, nil
}
