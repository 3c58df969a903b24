// Copyright © 2026 The sexp authors

package cmd

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// SourceExt is the file extension of source files.
const SourceExt = ".sexp"

// expandArgs expands arguments, resolving patterns ending with "/..." to all
// source files found recursively under the given directory. Non-pattern
// arguments pass through unchanged.
func expandArgs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if dir, ok := strings.CutSuffix(arg, "/..."); ok {
			if dir == "" {
				dir = "."
			}
			files, err := findSourceFiles(dir)
			if err != nil {
				return nil, fmt.Errorf("expanding %s: %w", arg, err)
			}
			out = append(out, files...)
		} else {
			out = append(out, arg)
		}
	}
	return out, nil
}

func findSourceFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == SourceExt {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// moduleName returns the module name of the source file at path: its base
// name without extension.
func moduleName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
