// Package heuristics holds the domain-specific rule table used by the lexical
// prefilter, the snippet extractor and the retriever's exact-match shortcut.
package heuristics

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Shortcut returns a chunk directly when the question mentions Trigger and the
// chunk contains Marker verbatim.
type Shortcut struct {
	Trigger string `yaml:"trigger"`
	Marker  string `yaml:"marker"`
}

// Profile is the configurable rule table.
type Profile struct {
	Name string `yaml:"name"`
	// MinKeywordLength: question tokens must be longer than this to count.
	MinKeywordLength int `yaml:"min_keyword_length"`
	// TrimPunctuation strips leading and trailing punctuation from question
	// tokens before the length test, so "covered?" becomes "covered".
	TrimPunctuation bool `yaml:"trim_punctuation"`
	// MarkerPrefixes introduce numbered clauses, e.g. "Surgery for".
	MarkerPrefixes []string   `yaml:"marker_prefixes"`
	Shortcuts      []Shortcut `yaml:"shortcuts"`
}

// InsurancePolicy is the default profile for health-insurance policy wordings.
func InsurancePolicy() Profile {
	return Profile{
		Name:             "insurance-policy",
		MinKeywordLength: 3,
		MarkerPrefixes:   []string{"Surgery for"},
		Shortcuts:        []Shortcut{{Trigger: "cataract", Marker: "Surgery for cataract"}},
	}
}

// Rules is a compiled Profile. It is read-only and safe for concurrent use.
type Rules struct {
	profile  Profile
	prefixes []string
	clause   *regexp.Regexp
}

var clauseFollow = regexp.MustCompile(`^\d+[.\s]`)

// New compiles a profile.
func New(p Profile) (*Rules, error) {
	if p.MinKeywordLength < 0 {
		return nil, fmt.Errorf("min keyword length must not be negative: %d", p.MinKeywordLength)
	}
	r := &Rules{profile: p}
	var alts []string
	for _, prefix := range p.MarkerPrefixes {
		prefix = strings.TrimSpace(prefix)
		if prefix == "" {
			continue
		}
		r.prefixes = append(r.prefixes, strings.ToLower(prefix))
		alts = append(alts, regexp.QuoteMeta(prefix))
	}
	for _, s := range p.Shortcuts {
		if strings.TrimSpace(s.Trigger) == "" || s.Marker == "" {
			return nil, fmt.Errorf("shortcut needs both trigger and marker: %+v", s)
		}
	}
	// A clause is "<n>[. ]<prefix> <phrase>" where the phrase has no digits or
	// full stops. Without prefixes any numbered phrase counts.
	pattern := `\d+[.\s]+[^.0-9]+`
	if len(alts) > 0 {
		pattern = `\d+[.\s]*(?:` + strings.Join(alts, "|") + `) [^.0-9]+`
	}
	clause, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile clause pattern: %w", err)
	}
	r.clause = clause
	return r, nil
}

// MustNew is New for static profiles.
func MustNew(p Profile) *Rules {
	r, err := New(p)
	if err != nil {
		panic(err)
	}
	return r
}

// Default returns the compiled InsurancePolicy profile.
func Default() *Rules { return MustNew(InsurancePolicy()) }

func (r *Rules) Profile() Profile { return r.profile }

// Keywords returns the lower-cased whitespace-delimited question tokens longer
// than the minimum length, in question order, without duplicates. Tokens keep
// their punctuation unless the profile trims it.
func (r *Rules) Keywords(question string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(question)) {
		if r.profile.TrimPunctuation {
			tok = strings.TrimFunc(tok, func(c rune) bool { return unicode.IsPunct(c) || unicode.IsSymbol(c) })
		}
		if len([]rune(tok)) <= r.profile.MinKeywordLength {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// MarkerPhrases returns the lower-cased "<prefix> <keyword>" phrases.
func (r *Rules) MarkerPhrases(keywords []string) []string {
	out := make([]string, 0, len(keywords)*len(r.prefixes))
	for _, kw := range keywords {
		for _, p := range r.prefixes {
			out = append(out, p+" "+kw)
		}
	}
	return out
}

// Clauses finds numbered clauses in text. A clause runs until the next
// "<digits><full stop or space>" or the end of text; candidates followed by
// anything else are discarded.
func (r *Rules) Clauses(text string) []string {
	var out []string
	for _, loc := range r.clause.FindAllStringIndex(text, -1) {
		rest := text[loc[1]:]
		if rest != "" && !clauseFollow.MatchString(rest) {
			continue
		}
		out = append(out, strings.TrimSpace(text[loc[0]:loc[1]]))
	}
	return out
}

// Shortcut reports the index of the first text containing the marker of a
// shortcut triggered by the question.
func (r *Rules) Shortcut(question string, texts []string) (int, bool) {
	q := strings.ToLower(question)
	for _, s := range r.profile.Shortcuts {
		if !strings.Contains(q, strings.ToLower(s.Trigger)) {
			continue
		}
		for i, t := range texts {
			if strings.Contains(t, s.Marker) {
				return i, true
			}
		}
	}
	return -1, false
}
