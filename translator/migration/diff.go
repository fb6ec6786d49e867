// File: migration/diff.go
package migration

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dangerclosesec/transpiler/translator/grammar"
)

// GrammarDiff represents the differences between two grammars
type GrammarDiff struct {
	AddedNonterminals    []string
	RemovedNonterminals  []string
	ModifiedNonterminals map[string]*RuleDiff
}

// RuleDiff represents the alternatives added to or removed from one nonterminal
type RuleDiff struct {
	AddedAlternatives   []string
	RemovedAlternatives []string
	Reordered           bool
}

// IsEmpty checks if the rule diff is empty
func (d *RuleDiff) IsEmpty() bool {
	return len(d.AddedAlternatives) == 0 && len(d.RemovedAlternatives) == 0 && !d.Reordered
}

// GenerateDiff generates a diff between two grammars. A nil old grammar
// stands for an empty database.
func GenerateDiff(oldGrammar, newGrammar *grammar.Grammar) *GrammarDiff {
	diff := &GrammarDiff{
		ModifiedNonterminals: make(map[string]*RuleDiff),
	}

	oldNames := make(map[string]bool)
	newNames := make(map[string]bool)

	if oldGrammar != nil {
		for _, name := range oldGrammar.Nonterminals() {
			oldNames[name] = true
		}
	}
	if newGrammar != nil {
		for _, name := range newGrammar.Nonterminals() {
			newNames[name] = true
		}
	}

	for name := range newNames {
		if !oldNames[name] {
			diff.AddedNonterminals = append(diff.AddedNonterminals, name)
		}
	}
	for name := range oldNames {
		if !newNames[name] {
			diff.RemovedNonterminals = append(diff.RemovedNonterminals, name)
		}
	}
	sort.Strings(diff.AddedNonterminals)
	sort.Strings(diff.RemovedNonterminals)

	for name := range newNames {
		if !oldNames[name] {
			continue // Already handled as added nonterminal
		}
		ruleDiff := compareAlternatives(oldGrammar.Alternatives(name), newGrammar.Alternatives(name))
		if !ruleDiff.IsEmpty() {
			diff.ModifiedNonterminals[name] = ruleDiff
		}
	}

	return diff
}

// compareAlternatives compares the alternatives of one nonterminal. The
// parser explores alternatives in order, so a pure reordering counts too.
func compareAlternatives(oldAlts, newAlts []string) *RuleDiff {
	diff := &RuleDiff{}

	oldSet := make(map[string]bool)
	newSet := make(map[string]bool)
	for _, alt := range oldAlts {
		oldSet[alt] = true
	}
	for _, alt := range newAlts {
		newSet[alt] = true
	}

	for _, alt := range newAlts {
		if !oldSet[alt] {
			diff.AddedAlternatives = append(diff.AddedAlternatives, alt)
		}
	}
	for _, alt := range oldAlts {
		if !newSet[alt] {
			diff.RemovedAlternatives = append(diff.RemovedAlternatives, alt)
		}
	}

	if len(diff.AddedAlternatives) == 0 && len(diff.RemovedAlternatives) == 0 {
		diff.Reordered = strings.Join(oldAlts, "|") != strings.Join(newAlts, "|")
	}
	return diff
}

// IsEmpty checks if the grammar diff is empty
func (d *GrammarDiff) IsEmpty() bool {
	return len(d.AddedNonterminals) == 0 &&
		len(d.RemovedNonterminals) == 0 &&
		len(d.ModifiedNonterminals) == 0
}

// String returns a string representation of the diff
func (d *GrammarDiff) String() string {
	if d.IsEmpty() {
		return "No changes"
	}

	var sb strings.Builder

	if len(d.AddedNonterminals) > 0 {
		sb.WriteString("Added nonterminals:\n")
		for _, name := range d.AddedNonterminals {
			sb.WriteString(fmt.Sprintf("  + %s\n", name))
		}
		sb.WriteString("\n")
	}

	if len(d.RemovedNonterminals) > 0 {
		sb.WriteString("Removed nonterminals:\n")
		for _, name := range d.RemovedNonterminals {
			sb.WriteString(fmt.Sprintf("  - %s\n", name))
		}
		sb.WriteString("\n")
	}

	if len(d.ModifiedNonterminals) > 0 {
		names := make([]string, 0, len(d.ModifiedNonterminals))
		for name := range d.ModifiedNonterminals {
			names = append(names, name)
		}
		sort.Strings(names)

		sb.WriteString("Modified nonterminals:\n")
		for _, name := range names {
			ruleDiff := d.ModifiedNonterminals[name]
			sb.WriteString(fmt.Sprintf("  %s:\n", name))
			for _, alt := range ruleDiff.AddedAlternatives {
				sb.WriteString(fmt.Sprintf("    + %s\n", alt))
			}
			for _, alt := range ruleDiff.RemovedAlternatives {
				sb.WriteString(fmt.Sprintf("    - %s\n", alt))
			}
			if ruleDiff.Reordered {
				sb.WriteString("    ~ alternatives reordered\n")
			}
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}
