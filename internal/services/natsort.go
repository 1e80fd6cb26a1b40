package services

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// listFiles returns the files in dir with extension ext, in natural order:
// "2.pdf" sorts before "10.pdf".
func listFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &FilesystemError{Op: "list", Path: dir, Err: err}
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ext) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Stable(natural.StringSlice(names))

	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	return paths, nil
}

// ListPDFs returns the PDFs in dir in natural order.
func ListPDFs(dir string) ([]string, error) {
	return listFiles(dir, ".pdf")
}
