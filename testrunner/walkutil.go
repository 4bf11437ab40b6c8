package testrunner

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// collectFiles returns every file under root (or root itself) whose name ends with ext,
// in lexical order. VCS, vendor and hidden directories below root are skipped.
func collectFiles(root string, ext string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if p == root {
				return nil
			}

			name := d.Name()
			if name == "vendor" || name == "node_modules" || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}

			return nil
		}

		if strings.HasSuffix(d.Name(), ext) {
			files = append(files, p)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)

	return files, nil
}
