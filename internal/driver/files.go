package driver

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cslayout/internal/config"
)

// SourceExt is the extension of the files directory runs pick up.
const SourceExt = ".cs"

// ListFiles возвращает отсортированный список всех *.cs файлов в директории,
// пропуская исключённые конфигурацией пути.
func ListFiles(dir string, cfg *config.Config) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil || rel == "." {
			return nil
		}
		if cfg != nil && cfg.Excluded(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// ExpandPaths turns the command-line paths into a sorted, duplicate-free file
// list. Files named explicitly are kept even when excluded.
func ExpandPaths(paths []string, cfg *config.Config) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		clean := filepath.Clean(p)
		if !seen[clean] {
			seen[clean] = true
			out = append(out, clean)
		}
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		files, err := ListFiles(p, cfg)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			add(f)
		}
	}
	sort.Strings(out)
	return out, nil
}

// baseDir is the directory paths are shown relative to: the only directory
// argument, or the working directory.
func baseDir(paths []string) string {
	if len(paths) == 1 {
		if info, err := os.Stat(paths[0]); err == nil && info.IsDir() {
			return paths[0]
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
