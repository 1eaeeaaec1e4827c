// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package category holds the domain category lists: parsing downloaded
// block lists, persisting them as plain-text files and classifying
// domains against the loaded sets.
package category

import (
	"bufio"
	"io"
	"strings"
)

// Sinkhole addresses recognized in hosts-file formatted lists.
var sinkholeAddrs = map[string]bool{
	"0.0.0.0":   true,
	"127.0.0.1": true,
}

// ParseList extracts the domain set from a downloaded list. Two formats
// are accepted, line by line:
//
//   - hosts-file entries ("0.0.0.0 ads.example.com" or
//     "127.0.0.1 ads.example.com"), where the second token is the
//     domain and "localhost" entries are dropped;
//   - bare domains, one per line, taken verbatim.
//
// Blank lines and lines starting with '#' are skipped. Domains are not
// lowercased here; matching lowercases at lookup time.
func ParseList(r io.Reader) map[string]struct{} {
	domains := make(map[string]struct{})

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) >= 2 && sinkholeAddrs[fields[0]] {
			if fields[1] != "localhost" {
				domains[fields[1]] = struct{}{}
			}
			continue
		}

		domains[line] = struct{}{}
	}

	return domains
}
