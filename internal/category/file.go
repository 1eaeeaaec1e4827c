// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package category

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"grimm.is/dnswatch/internal/errors"
)

// FileName returns the on-disk list file name for a category.
func FileName(category string) string {
	return category + "_domains.txt"
}

// WriteListFile persists a domain set as a sorted, newline-delimited
// list. The write goes to a temp file in the same directory which is
// then renamed over the target, so concurrent readers never observe a
// partial file.
func WriteListFile(path string, domains map[string]struct{}) error {
	sorted := make([]string, 0, len(domains))
	for d := range domains {
		sorted = append(sorted, d)
	}
	sort.Strings(sorted)

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return errors.Wrapf(err, errors.KindPersistence, "cannot create temp file in %s", dir)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := bufio.NewWriter(tmp)
	for _, d := range sorted {
		if _, err := w.WriteString(d + "\n"); err != nil {
			tmp.Close()
			return errors.Wrapf(err, errors.KindPersistence, "cannot write %s", tmpName)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return errors.Wrapf(err, errors.KindPersistence, "cannot flush %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, errors.KindPersistence, "cannot close %s", tmpName)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return errors.Wrapf(err, errors.KindPersistence, "cannot chmod %s", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, errors.KindPersistence, "cannot replace %s", path)
	}
	return nil
}

// ReadListFile loads a domain list file written by WriteListFile.
// Blank lines and '#' comments are tolerated.
func ReadListFile(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	domains := make(map[string]struct{})
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		domains[line] = struct{}{}
	}
	return domains, sc.Err()
}
