// Package dispatch routes tasks to producers. Routing is deterministic:
// an explicit hint wins, then a keyword heuristic over the task text, then
// the workflow producer as the default.
package dispatch

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/kweiss/deskpilot/internal/producer"
)

// triggers are the per-producer keyword lists the heuristic scores against.
// Matched as whole words in the lowercased task text.
var triggers = map[string][]string{
	"document": {
		"document", "report", "letter", "memo", "notes", "write", "draft", "essay", "summary",
	},
	"presentation": {
		"presentation", "slides", "slide", "deck", "pitch", "powerpoint",
	},
	"spreadsheet": {
		"spreadsheet", "workbook", "table", "excel", "sheet", "csv", "budget", "tracker", "data",
	},
	"communication": {
		"email", "message", "reply", "respond", "inbox", "notify", "announcement",
	},
	"workflow": {
		"workflow", "plan", "organize", "coordinate", "schedule", "process",
	},
}

// defaultProducer handles tasks no keyword claims.
const defaultProducer = "workflow"

// stopwords are filler tokens excluded when mining descriptor descriptions
// for match terms.
var stopwords = map[string]bool{
	"and": true, "the": true, "that": true, "with": true, "such": true,
	"may": true, "per": true, "one": true, "other": true, "main": true,
}

// Dispatcher routes tasks across a fixed set of producers. The set and order
// are established at construction and never change.
type Dispatcher struct {
	log       zerolog.Logger
	producers []producer.Producer
	byName    map[string]producer.Producer
	// terms is each producer's match vocabulary: its trigger list plus the
	// content words of its role description.
	terms map[string][]string
}

// New builds a dispatcher over the given producers, in registration order.
func New(log zerolog.Logger, producers ...producer.Producer) *Dispatcher {
	d := &Dispatcher{
		log:       log,
		producers: producers,
		byName:    make(map[string]producer.Producer, len(producers)),
		terms:     make(map[string][]string, len(producers)),
	}
	enabled := 0
	for _, p := range producers {
		desc := p.Descriptor()
		d.byName[desc.Name] = p
		d.terms[desc.Name] = matchTerms(desc)
		if desc.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		log.Warn().Msg("no producers enabled, dispatch will fail every task")
	}
	return d
}

// matchTerms combines a producer's fixed trigger list with the content words
// of its role description, deduplicated.
func matchTerms(desc producer.Descriptor) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(t string) {
		if t == "" || len(t) < 4 || stopwords[t] || seen[t] {
			return
		}
		seen[t] = true
		out = append(out, t)
	}
	for _, t := range triggers[desc.Name] {
		// trigger terms bypass the length filter
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for w := range tokenize(desc.Description) {
		add(w)
	}
	return out
}

// Dispatch selects the producer for the task text with an optional explicit
// hint. A hint naming an unknown producer fails; a hint naming a disabled
// producer fails rather than falling through to the heuristic.
func (d *Dispatcher) Dispatch(text, hint string) (producer.Producer, error) {
	if hint != "" {
		p, ok := d.byName[hint]
		if !ok {
			return nil, &UnknownProducerError{Name: hint}
		}
		if !p.Descriptor().Enabled {
			return nil, &NoProducerError{Hint: hint}
		}
		return p, nil
	}

	words := tokenize(text)
	var best producer.Producer
	bestScore := 0
	for _, p := range d.producers {
		desc := p.Descriptor()
		if !desc.Enabled {
			continue
		}
		score := matchScore(words, d.terms[desc.Name])
		switch {
		case score > bestScore:
			best, bestScore = p, score
		case score == bestScore && score > 0 && desc.Name == defaultProducer:
			// equal scores prefer the broadest producer
			best = p
		}
	}
	if best != nil {
		d.log.Debug().Str("producer", best.Descriptor().Name).Int("score", bestScore).Msg("dispatched by keyword")
		return best, nil
	}

	// No keyword claimed the task. Fall back to the workflow producer,
	// then to the first enabled one.
	if p, ok := d.byName[defaultProducer]; ok && p.Descriptor().Enabled {
		return p, nil
	}
	for _, p := range d.producers {
		if p.Descriptor().Enabled {
			return p, nil
		}
	}
	return nil, &NoProducerError{}
}

// Lookup returns the producer registered under name, enabled or not.
func (d *Dispatcher) Lookup(name string) (producer.Producer, bool) {
	p, ok := d.byName[name]
	return p, ok
}

// Descriptors returns every producer's metadata in registration order.
func (d *Dispatcher) Descriptors() []producer.Descriptor {
	out := make([]producer.Descriptor, 0, len(d.producers))
	for _, p := range d.producers {
		out = append(out, p.Descriptor())
	}
	return out
}

func tokenize(text string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		words[strings.Trim(w, ".,!?:;()\"'")] = true
	}
	return words
}

func matchScore(words map[string]bool, terms []string) int {
	score := 0
	for _, t := range terms {
		if words[t] {
			score++
		}
	}
	return score
}
