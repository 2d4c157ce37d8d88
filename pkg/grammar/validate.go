package grammar

import (
	"fmt"
	"slices"
	"strings"
)

// Validate cross-checks a follower table against a lexicon and returns a
// *ConfigError listing every problem that could make a walk fail, or nil.
// Issues are reported in a stable order.
func Validate(table FollowerTable, lexicon *Lexicon) error {
	var issues []Issue

	if lexicon.Len() == 0 {
		issues = append(issues, Issue{Kind: IssueEmptyLexicon, Detail: "no words registered"})
	}

	referencedBy := make(map[string][]string)
	for _, t := range table.Types() {
		followers := table[t]
		if len(followers) == 0 {
			issues = append(issues, Issue{Kind: IssueEmptyFollowers, Type: t, Detail: "follower list is empty"})
			continue
		}
		for _, f := range followers {
			if lexicon.CountOfType(f) > 0 {
				continue
			}
			if !slices.Contains(referencedBy[f], t) {
				referencedBy[f] = append(referencedBy[f], t)
			}
		}
	}

	missing := make([]string, 0, len(referencedBy))
	for f := range referencedBy {
		missing = append(missing, f)
	}
	slices.Sort(missing)
	for _, f := range missing {
		issues = append(issues, Issue{
			Kind:   IssueFollowerNoWords,
			Type:   f,
			Detail: fmt.Sprintf("may follow %s but has no words", strings.Join(referencedBy[f], ", ")),
		})
	}

	for _, t := range lexicon.Types() {
		if _, ok := table[t]; !ok {
			issues = append(issues, Issue{
				Kind:   IssueTypeWithoutEntry,
				Type:   t,
				Detail: fmt.Sprintf("has %d word(s) but no follower table entry", lexicon.CountOfType(t)),
			})
		}
	}

	if len(issues) == 0 {
		return nil
	}
	return &ConfigError{Issues: issues}
}
