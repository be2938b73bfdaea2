// ═══════════════════════════════════════════════════════════════════════════════
// TEXT SEARCH PLANNER
// ═══════════════════════════════════════════════════════════════════════════════
// Search tokenizes a term, fans the tokens out over the radix trees of the
// requested properties, and accumulates per-document scores weighted by each
// property's boost.
//
// SCORING:
// --------
// Every matched word contributes boost × tf × ln(1 + N/(1 + df)) to the
// documents containing it (see radix.go). Contributions from different
// properties and tokens simply add up.
//
// ORDERING:
// ---------
// Results come back in the order documents first entered the score map, NOT
// sorted by score: ranking is the caller's job, and reordering here would
// destroy information the caller's ranker relies on.
// ═══════════════════════════════════════════════════════════════════════════════

package orama

import "log/slog"

// ScoredDocument pairs an internal id with its accumulated score.
type ScoredDocument struct {
	ID    InternalID
	Score float32
}

// ScoreMap accumulates id → score while remembering first-insertion order.
type ScoreMap struct {
	order  []InternalID
	scores map[InternalID]float32
}

// NewScoreMap creates an empty accumulator.
func NewScoreMap() *ScoreMap {
	return &ScoreMap{scores: make(map[InternalID]float32)}
}

// Add accumulates delta onto id's score.
func (m *ScoreMap) Add(id InternalID, delta float32) {
	if _, seen := m.scores[id]; !seen {
		m.order = append(m.order, id)
	}
	m.scores[id] += delta
}

// Entries returns the accumulated scores in insertion order.
func (m *ScoreMap) Entries() []ScoredDocument {
	out := make([]ScoredDocument, len(m.order))
	for i, id := range m.order {
		out[i] = ScoredDocument{ID: id, Score: m.scores[id]}
	}
	return out
}

// Len returns the number of scored documents.
func (m *ScoreMap) Len() int { return len(m.order) }

// Search runs a tokenized text search over the given properties.
//
// Every property must resolve to a text index (WRONG_SEARCH_PROPERTY_TYPE
// otherwise) and its boost, defaulting to 1, must be positive
// (INVALID_BOOST_VALUE). An empty term that tokenizes to nothing matches
// everything in each selected text index. Tolerance 0 behaves exactly like
// exact matching.
func (dir *IndexDirectory) Search(term string, tok Tokenizer, language string, properties []string, exact bool, tolerance int, boost map[string]float64) ([]ScoredDocument, error) {
	tokens := tok.Tokenize(term, language, "")
	if len(tokens) == 0 && term == "" {
		// The empty token matches every terminal in a radix tree.
		tokens = []string{""}
	}

	slog.Debug("text search",
		slog.String("term", term),
		slog.Int("tokens", len(tokens)),
		slog.Int("properties", len(properties)))

	results := NewScoreMap()
	for _, prop := range properties {
		tree, ok := dir.indexes[prop]
		if !ok || tree.Type != TreeRadix {
			return nil, errWrongSearchPropertyType(prop)
		}

		b := 1.0
		if v, set := boost[prop]; set {
			b = v
		}
		if b <= 0 {
			return nil, errInvalidBoostValue(prop, b)
		}

		// Tokens are an OR at the word level: a word matched by several
		// tokens keeps its position and takes the last token's ids.
		found := NewFoundWords()
		for _, token := range tokens {
			found.Merge(tree.Radix.Find(FindParams{
				Term:      token,
				Exact:     exact,
				Tolerance: tolerance,
			}))
		}

		tree.Radix.CalculateScore(found, results, b, dir.docsCount)
	}

	return results.Entries(), nil
}
