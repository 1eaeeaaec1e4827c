// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package category

import (
	"os"
	"path/filepath"
	"strings"

	"grimm.is/dnswatch/internal/logging"
)

// Uncategorized is returned for domains no category claims.
const Uncategorized = "uncategorized"

// Category is one named domain set.
type Category struct {
	Name    string
	domains map[string]struct{}
}

// NewCategory builds a Category from a domain slice. Used by tests and
// by callers that already hold a parsed set.
func NewCategory(name string, domains []string) Category {
	set := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		set[d] = struct{}{}
	}
	return Category{Name: name, domains: set}
}

// Size returns the number of domains in the category.
func (c Category) Size() int {
	return len(c.domains)
}

// Store holds the loaded categories in a fixed order. Classification is
// first-match over that order, so the order is behavior, not an
// implementation detail: a domain present in two categories always goes
// to the one loaded first. The store is read-only after construction;
// picking up fresh list files means building a new Store.
type Store struct {
	categories []Category
}

// NewStore builds a Store from pre-parsed categories, preserving order.
func NewStore(categories []Category) *Store {
	return &Store{categories: categories}
}

// LoadStore reads the list files for the named categories from dir, in
// the given order. Categories whose file is missing are skipped with a
// warning; a partially updated domains directory should not take
// classification down.
func LoadStore(dir string, names []string, logger *logging.Logger) *Store {
	categories := make([]Category, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, FileName(name))
		domains, err := ReadListFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Warn("category list file missing, skipping", "category", name, "path", path)
			} else {
				logger.Error("cannot load category list", "category", name, "path", path, "error", err)
			}
			continue
		}
		categories = append(categories, Category{Name: name, domains: domains})
		logger.Info("loaded category", "category", name, "domains", len(domains))
	}
	return &Store{categories: categories}
}

// Categorize returns the first category that contains the domain,
// either exactly or as a parent domain (input "a.b.example.com" matches
// a category entry "example.com"). Matching is case-insensitive; the
// input is trimmed first. Domains no category claims return
// Uncategorized.
func (s *Store) Categorize(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))

	for _, c := range s.categories {
		if _, ok := c.domains[domain]; ok {
			return c.Name
		}
		for d := range c.domains {
			if domain == d || strings.HasSuffix(domain, "."+d) {
				return c.Name
			}
		}
	}
	return Uncategorized
}

// Categories returns the loaded category names in classification order.
func (s *Store) Categories() []string {
	names := make([]string, len(s.categories))
	for i, c := range s.categories {
		names[i] = c.Name
	}
	return names
}

// TotalDomains returns the number of domains across all categories.
func (s *Store) TotalDomains() int {
	n := 0
	for _, c := range s.categories {
		n += len(c.domains)
	}
	return n
}
