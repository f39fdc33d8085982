package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/backmassage/faststart/internal/naming"
)

// DiscoverOptions select which files under a root are candidates.
type DiscoverOptions struct {
	Extension     string // Without the leading dot.
	IgnoreCase    bool
	StagingSuffix string
}

// Discovery is the result of one walk.
type Discovery struct {
	Candidates []string // Sorted lexicographically.
	Leftovers  []string // Candidates shaped like staging files, sorted.
}

// Discover walks root recursively and collects regular files whose
// extension matches. A symlinked root is followed; symlinks and other
// non-regular entries below it are ignored. Returned paths are under root
// as given, not under its resolved target.
//
// Files named like staging outputs are still candidates. They are also
// listed in Leftovers so the caller can warn about them. Any walk error
// aborts the enumeration.
func Discover(root string, opts DiscoverOptions) (Discovery, error) {
	walkRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return Discovery{}, err
	}

	var d Discovery
	err = filepath.WalkDir(walkRoot, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		if !MatchesExtension(path, opts.Extension, opts.IgnoreCase) {
			return nil
		}
		rel, err := filepath.Rel(walkRoot, path)
		if err != nil {
			return err
		}
		path = filepath.Join(root, rel)

		d.Candidates = append(d.Candidates, path)
		if opts.StagingSuffix != "" && naming.IsStaging(path, opts.StagingSuffix) {
			d.Leftovers = append(d.Leftovers, path)
		}
		return nil
	})
	if err != nil {
		return Discovery{}, err
	}
	sort.Strings(d.Candidates)
	sort.Strings(d.Leftovers)
	return d, nil
}
