package scan

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ignoreSet holds the patterns loaded from a drive's .diffrignore file, plus
// the always-ignored .diffr control directory.
//
// A pattern matches a scanned rel_path if it equals any path component
// exactly, equals the full rel_path exactly, or matches the full rel_path as
// a doublestar glob. The first two rules reproduce the original literal
// component/path matching; the glob rule is an enrichment layered underneath
// it for users who want real wildcard patterns.
type ignoreSet struct {
	literal map[string]bool
	globs   []string
}

// loadIgnoreSet reads <root>/.diffrignore, tolerating its absence.
func loadIgnoreSet(root string) (*ignoreSet, error) {
	set := &ignoreSet{literal: map[string]bool{".diffr": true}}

	f, err := os.Open(filepath.Join(root, ".diffrignore"))
	if os.IsNotExist(err) {
		return set, nil
	} else if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set.literal[line] = true
		if strings.ContainsAny(line, "*?[") {
			set.globs = append(set.globs, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return set, nil
}

// matches reports whether relPath (forward-slash separated, already
// normalized) should be excluded from a scan.
func (s *ignoreSet) matches(relPath string) bool {
	if s.literal[relPath] {
		return true
	}
	for _, component := range strings.Split(relPath, "/") {
		if s.literal[component] {
			return true
		}
	}
	for _, pattern := range s.globs {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}
