// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package querylog

// Record is one resolved DNS query from the resolver's log. Records are
// created by the resolver process and read-only here.
type Record struct {
	Client    string `json:"client"`
	Domain    string `json:"domain"`
	Timestamp int64  `json:"timestamp"` // Unix seconds
	Status    int    `json:"status"`    // resolver status code
}

// Resolver status codes. Anything other than StatusAllowed counts as
// blocked for summary purposes, including StatusUnknown.
const (
	StatusUnknown           = 0
	StatusBlockedGravity    = 1
	StatusAllowed           = 2
	StatusBlockedRegex      = 3
	StatusBlockedExact      = 4
	StatusBlockedCNAME      = 5
	StatusBlockedGravityCN  = 9
	StatusBlockedRegexCN    = 10
	StatusBlockedExactCN    = 11
)

var statusDescriptions = map[int]string{
	StatusUnknown:          "Unknown",
	StatusBlockedGravity:   "Blocked (gravity)",
	StatusAllowed:          "Allowed",
	StatusBlockedRegex:     "Blocked (regex)",
	StatusBlockedExact:     "Blocked (exact)",
	StatusBlockedCNAME:     "Blocked (CNAME)",
	StatusBlockedGravityCN: "Blocked (gravity, CNAME)",
	StatusBlockedRegexCN:   "Blocked (regex, CNAME)",
	StatusBlockedExactCN:   "Blocked (exact, CNAME)",
}

// StatusDescription maps a resolver status code to its human-readable
// form. Unrecognized codes are "Unknown".
func StatusDescription(code int) string {
	if desc, ok := statusDescriptions[code]; ok {
		return desc
	}
	return "Unknown"
}

// Blocked reports whether the record counts as blocked.
func (r Record) Blocked() bool {
	return r.Status != StatusAllowed
}
