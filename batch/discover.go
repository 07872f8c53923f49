package batch

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// PNGExt is the input extension matched during discovery, compared
// case-insensitively so .png, .PNG and .Png are all units of work.
const PNGExt = ".png"

// Discover walks sourceRoot recursively and returns every regular file
// whose extension matches PNGExt, sorted lexicographically so processing
// order is deterministic across runs. Subdirectories are traversed
// unconditionally. Each call re-walks the tree.
func Discover(sourceRoot string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(sourceRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), PNGExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
