// Package parsing normalizes skill, certification and free-text tokens and defines the
// errors raised at the model boundary.
package parsing

import (
	"sort"
	"strings"
	"unicode"
)

// skillAliases maps common skill spellings (after separator folding) to a canonical form.
// Every value is a fixed point of NormalizeSkill.
var skillAliases = map[string]string{
	"golang":    "go",
	"go lang":   "go",
	"k8s":       "kubernetes",
	"js":        "javascript",
	"ts":        "typescript",
	"reactjs":   "react",
	"react js":  "react",
	"vuejs":     "vue",
	"vue js":    "vue",
	"node js":   "nodejs",
	"postgres":  "postgresql",
	"psql":      "postgresql",
	"py":        "python",
	"ml":        "machine learning",
	"gcp cloud": "gcp",
}

// skillSeparators folds hyphens, underscores and periods into spaces
var skillSeparators = strings.NewReplacer("-", " ", "_", " ", ".", " ")

// NormalizeSkill canonicalizes a skill for comparison: lowercase, trimmed,
// separators folded to spaces, whitespace collapsed, well-known aliases resolved.
// NormalizeSkill(NormalizeSkill(x)) == NormalizeSkill(x).
func NormalizeSkill(text string) string {
	if text == "" {
		return ""
	}
	s := skillSeparators.Replace(strings.ToLower(text))
	s = strings.Join(strings.Fields(s), " ")
	if canonical, ok := skillAliases[s]; ok {
		return canonical
	}
	return s
}

// NormalizeCertification canonicalizes a certification name: lowercase with every
// punctuation or symbol rune removed, so "Oracle: Java" and "Oracle Java" compare equal.
func NormalizeCertification(text string) string {
	if text == "" {
		return ""
	}
	s := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return ' '
		}
		return unicode.ToLower(r)
	}, text)
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeSkills normalizes, deduplicates and sorts a skill list
func NormalizeSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, skill := range skills {
		n := NormalizeSkill(skill)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Tokens splits skill-normalized text into words
func Tokens(text string) []string {
	return strings.Fields(skillSeparators.Replace(strings.ToLower(stripPunctuation(text))))
}

// TokenSet returns the distinct tokens of text, excluding any in stop
func TokenSet(text string, stop map[string]bool) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokens(text) {
		if stop[tok] {
			continue
		}
		set[tok] = struct{}{}
	}
	return set
}

// stripPunctuation drops punctuation other than the skill separators, keeping
// symbols such as '+' and '#' that carry meaning in names like C++ and C#.
func stripPunctuation(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '-' || r == '_' || r == '.' || r == '+' || r == '#':
			return r
		case unicode.IsPunct(r):
			return ' '
		default:
			return r
		}
	}, text)
}
