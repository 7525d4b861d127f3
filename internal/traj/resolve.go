package traj

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// MissingFileError reports an input file that could not be located, after the
// single configured fallback name (if any) was also tried.
type MissingFileError struct {
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("traj: input file not found: %s", e.Path)
}

// IsMissingFile reports whether err wraps a MissingFileError.
func IsMissingFile(err error) bool {
	var missing *MissingFileError
	return errors.As(err, &missing)
}

// Resolve locates an input file inside dir. The contract is deliberately
// narrow: try the default name; on absence try the alternate name exactly
// once; otherwise fail with MissingFileError for the default path. An empty
// alternate disables the retry.
func Resolve(dir, name, alternate string) (string, error) {
	path := filepath.Join(dir, name)
	if fileExists(path) {
		return path, nil
	}
	if alternate != "" {
		alt := filepath.Join(dir, alternate)
		if fileExists(alt) {
			return alt, nil
		}
	}
	return "", &MissingFileError{Path: path}
}

// ReplicateFiles resolves the trajectory and topology file for each replicate
// directory base/run1 .. base/run<replicates>. The two returned lists are
// always the same length, with element i belonging to run<i+1>. The first
// unresolvable file aborts the whole resolution.
func ReplicateFiles(base string, replicates int, trajName, trajAlt, topName, topAlt string) (trajFiles, topFiles []string, err error) {
	if replicates < 1 {
		return nil, nil, fmt.Errorf("traj: replicate count must be >= 1, got %d", replicates)
	}
	trajFiles = make([]string, 0, replicates)
	topFiles = make([]string, 0, replicates)
	for n := 1; n <= replicates; n++ {
		dir := filepath.Join(base, fmt.Sprintf("run%d", n))
		trajFile, err := Resolve(dir, trajName, trajAlt)
		if err != nil {
			return nil, nil, fmt.Errorf("traj: replicate %d trajectory: %w", n, err)
		}
		topFile, err := Resolve(dir, topName, topAlt)
		if err != nil {
			return nil, nil, fmt.Errorf("traj: replicate %d topology: %w", n, err)
		}
		trajFiles = append(trajFiles, trajFile)
		topFiles = append(topFiles, topFile)
	}
	return trajFiles, topFiles, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
