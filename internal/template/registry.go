package template

import (
	"fmt"
	"strings"
)

// MinScore is the floor assigned when no template matches; classification
// always succeeds, falling back to the generic template at this score.
const MinScore = 0.3

// Match is the result of classifying a document.
type Match struct {
	Template *Template
	Variant  *Variant
	Score    float64
	// Generic is set when the match is the no-template fallback rather than
	// a scored hit.
	Generic bool
}

// Registry holds templates in registration order. Registration order is the
// final tie-breaker during classification, so loading custom templates after
// the built-ins lets them win ties against the defaults.
type Registry struct {
	templates []*Template
	byName    map[string]*Template
}

// NewRegistry creates a registry seeded with the built-in templates.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]*Template)}
	for _, t := range Builtin() {
		r.Register(t)
	}
	return r
}

// Register adds or replaces a template. Re-registering a name keeps the new
// definition and moves it to the end of the order.
func (r *Registry) Register(t *Template) {
	if old, ok := r.byName[t.Name]; ok {
		for i, existing := range r.templates {
			if existing == old {
				r.templates = append(r.templates[:i], r.templates[i+1:]...)
				break
			}
		}
	}
	r.templates = append(r.templates, t)
	r.byName[t.Name] = t
}

// Get returns a template by name.
func (r *Registry) Get(name string) (*Template, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// All returns the templates in registration order.
func (r *Registry) All() []*Template {
	out := make([]*Template, len(r.templates))
	copy(out, r.templates)
	return out
}

// Names returns template names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for _, t := range r.templates {
		names = append(names, t.Name)
	}
	return names
}

// Classify scores every variant against the document text and returns the
// best match. Scoring is the variant confidence scaled by the fraction of
// its headers present in the text. Ties are broken toward the variant that
// matched more headers, then toward the later-registered template, making
// the result deterministic for a given registry state.
func (r *Registry) Classify(text string) Match {
	upper := strings.ToUpper(text)

	var (
		best      Match
		bestFound int
	)
	for _, t := range r.templates {
		for vi := range t.Variants {
			v := &t.Variants[vi]
			if len(v.Headers) == 0 {
				continue
			}
			found := 0
			for _, h := range v.Headers {
				if strings.Contains(upper, strings.ToUpper(h)) {
					found++
				}
			}
			score := v.Confidence * float64(found) / float64(len(v.Headers))
			if score == 0 {
				continue
			}
			// On equal scores the variant with more matched headers wins;
			// equality on both lets the later registration take over.
			if score > best.Score || (score == best.Score && found >= bestFound) {
				best = Match{Template: t, Variant: v, Score: score}
				bestFound = found
			}
		}
	}

	if best.Template == nil || best.Score < MinScore {
		generic := r.byName[GenericName]
		return Match{Template: generic, Score: MinScore, Generic: true}
	}
	return best
}

// String renders a match for logs.
func (m Match) String() string {
	name := GenericName
	if m.Template != nil {
		name = m.Template.Name
	}
	return fmt.Sprintf("%s (%.2f)", name, m.Score)
}
