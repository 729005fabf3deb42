// Package diff pairwise-classifies two drives' FileEntry sets by relative
// path.
//
// The classifier never produces core.DiffConflict: doing so would require a
// persisted last-known-sync baseline per path, which diffr does not
// maintain (see ConflictResolver, which still knows how to expand a
// DiffConflict entry if one is constructed by another means). Two-sided
// changes are always reported as Modified, which the planner turns into an
// Overwrite from the side with the newer mtime; the cluster's conflict
// strategy is not consulted for them.
package diff

import (
	"sort"

	"github.com/crussella0129/diffr/internal/core"
)

// Compute compares two drives' file sets, matching entries by RelPath, and
// returns a deterministically-ordered diff.
func Compute(left, right []core.FileEntry) []core.DiffEntry {
	leftByPath := make(map[string]core.FileEntry, len(left))
	for _, e := range left {
		leftByPath[e.RelPath] = e
	}
	rightByPath := make(map[string]core.FileEntry, len(right))
	for _, e := range right {
		rightByPath[e.RelPath] = e
	}

	var entries []core.DiffEntry

	for path, l := range leftByPath {
		l := l
		if r, ok := rightByPath[path]; ok {
			r := r
			entries = append(entries, core.DiffEntry{
				RelPath: path,
				Kind:    classifyPair(l, r),
				Left:    &l,
				Right:   &r,
			})
		} else {
			entries = append(entries, core.DiffEntry{
				RelPath: path,
				Kind:    core.DiffOnlyLeft,
				Left:    &l,
			})
		}
	}

	for path, r := range rightByPath {
		r := r
		if _, ok := leftByPath[path]; !ok {
			entries = append(entries, core.DiffEntry{
				RelPath: path,
				Kind:    core.DiffOnlyRight,
				Right:   &r,
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].RelPath < entries[j].RelPath })
	return entries
}

// classifyPair classifies a path present on both sides. Directories are
// always identical to each other (their contents are classified entry by
// entry). When both sides carry an XXH3 fingerprint, that is authoritative;
// otherwise the classifier falls back to (size, mtime) metadata comparison.
func classifyPair(left, right core.FileEntry) core.DiffKind {
	if left.IsDir && right.IsDir {
		return core.DiffIdentical
	}

	if left.HasXXH3() && right.HasXXH3() {
		if left.XXH3 == right.XXH3 {
			return core.DiffIdentical
		}
		return core.DiffModified
	}

	if left.Size == right.Size && left.ModTime.Equal(right.ModTime) {
		return core.DiffIdentical
	}
	return core.DiffModified
}

// Summary tallies a diff's entries by kind.
type Summary struct {
	OnlyLeft  int
	OnlyRight int
	Modified  int
	Conflicts int
	Identical int
}

// Summarize tallies entries into a Summary.
func Summarize(entries []core.DiffEntry) Summary {
	var s Summary
	for _, e := range entries {
		switch e.Kind {
		case core.DiffOnlyLeft:
			s.OnlyLeft++
		case core.DiffOnlyRight:
			s.OnlyRight++
		case core.DiffModified:
			s.Modified++
		case core.DiffConflict:
			s.Conflicts++
		case core.DiffIdentical:
			s.Identical++
		}
	}
	return s
}

// HasChanges reports whether any actionable entries were found.
func (s Summary) HasChanges() bool {
	return s.OnlyLeft > 0 || s.OnlyRight > 0 || s.Modified > 0 || s.Conflicts > 0
}

// TotalChanges returns the count of actionable entries.
func (s Summary) TotalChanges() int {
	return s.OnlyLeft + s.OnlyRight + s.Modified + s.Conflicts
}
