package linter

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrPathNotFound is returned for an input path that does not exist.
var ErrPathNotFound = errors.New("path does not exist")

// PathOptions controls file discovery. Zero values fall back to the
// linter's config.
type PathOptions struct {
	IgnoreNonExistentFiles bool
	// SkipIgnoreFiles disables ignore-file handling.
	SkipIgnoreFiles bool
	IgnoreFileName  string
	// WorkingPath bounds the search for ignore files in ancestor
	// directories. Defaults to the current directory.
	WorkingPath string
	SQLFileExts []string
}

// ignoreSet holds the patterns of one ignore file, relative to its directory.
type ignoreSet struct {
	dir      string
	patterns []string
}

// matches reports whether path, or any directory between the ignore file
// and path, is excluded by the set. Checking the ancestors keeps the answer
// the same however the user names the path.
func (s ignoreSet) matches(path string, isDir bool) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(s.dir, abs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	for i := range parts {
		last := i == len(parts)-1
		if s.matchOne(strings.Join(parts[:i+1], "/"), parts[i], isDir || !last) {
			return true
		}
	}
	return false
}

// matchOne tests a single slash-separated path relative to the set.
func (s ignoreSet) matchOne(rel, base string, isDir bool) bool {
	for _, p := range s.patterns {
		dirOnly := strings.HasSuffix(p, "/")
		p = strings.TrimSuffix(p, "/")
		if dirOnly && !isDir {
			continue
		}
		anchored := strings.Contains(p, "/")
		p = strings.TrimPrefix(p, "/")
		if anchored {
			if ok, _ := filepath.Match(p, rel); ok {
				return true
			}
			continue
		}
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
	}
	return false
}

// PathsFromPath returns the SQL files under path, sorted and de-duplicated.
//
// A file path is returned as is, whatever its extension, unless an ignore
// file excludes it. A directory is walked and files are kept when their name
// ends with one of the configured extensions, compared case-insensitively.
func (l *Linter) PathsFromPath(path string, opts PathOptions) ([]string, error) {
	if opts.IgnoreFileName == "" {
		opts.IgnoreFileName = l.cfg.IgnoreFileName
	}
	if len(opts.SQLFileExts) == 0 {
		opts.SQLFileExts = l.cfg.SQLFileExts
	}
	if !opts.IgnoreNonExistentFiles {
		opts.IgnoreNonExistentFiles = l.cfg.IgnoreNonExistentFiles
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if opts.IgnoreNonExistentFiles {
				l.logger.Warn("skipping missing path", "path", path)
				return nil, nil
			}
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var ignores []ignoreSet
	if !opts.SkipIgnoreFiles && opts.IgnoreFileName != "" {
		ignores = l.ancestorIgnores(path, info.IsDir(), opts)
	}

	if !info.IsDir() {
		if isIgnored(ignores, path, false) {
			l.logger.Warn("explicitly given file is ignored by an ignore file", "path", path)
			return nil, nil
		}
		return []string{filepath.Clean(path)}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != path && isIgnored(ignores, p, true) {
				return filepath.SkipDir
			}
			if !opts.SkipIgnoreFiles && opts.IgnoreFileName != "" && p != path {
				if set, ok := loadIgnoreFile(filepath.Join(p, opts.IgnoreFileName)); ok {
					ignores = append(ignores, set)
				}
			}
			return nil
		}
		if d.Name() == opts.IgnoreFileName || !hasSQLExt(d.Name(), opts.SQLFileExts) {
			return nil
		}
		if isIgnored(ignores, p, false) {
			return nil
		}
		files = append(files, filepath.Clean(p))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", path, err)
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

// ancestorIgnores loads ignore files from the directory of path up to the
// working path. The walked directory itself is included.
func (l *Linter) ancestorIgnores(path string, isDir bool, opts PathOptions) []ignoreSet {
	dir, err := filepath.Abs(path)
	if err != nil {
		return nil
	}
	if !isDir {
		dir = filepath.Dir(dir)
	}
	working := opts.WorkingPath
	if working == "" {
		working, _ = os.Getwd()
	}
	working, _ = filepath.Abs(working)

	var sets []ignoreSet
	for {
		if set, ok := loadIgnoreFile(filepath.Join(dir, opts.IgnoreFileName)); ok {
			sets = append(sets, set)
		}
		if dir == working || !within(working, dir) {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return sets
}

// within reports whether dir is root or below it.
func within(root, dir string) bool {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func loadIgnoreFile(path string) (ignoreSet, bool) {
	f, err := os.Open(path)
	if err != nil {
		return ignoreSet{}, false
	}
	defer f.Close()

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return ignoreSet{}, false
	}
	set := ignoreSet{dir: dir}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set.patterns = append(set.patterns, line)
	}
	return set, true
}

func isIgnored(sets []ignoreSet, path string, isDir bool) bool {
	for _, s := range sets {
		if s.matches(path, isDir) {
			return true
		}
	}
	return false
}

func hasSQLExt(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
