package orama

import (
	"errors"
	"math"
	"testing"
)

// ═══════════════════════════════════════════════════════════════════════════════
// TEXT SEARCH
// ═══════════════════════════════════════════════════════════════════════════════

func searchScores(results []ScoredDocument) map[InternalID]float32 {
	out := make(map[InternalID]float32, len(results))
	for _, r := range results {
		out[r.ID] = r.Score
	}
	return out
}

// Fuzzy search finds both near matches; exact search finds neither.
func TestSearch_ExactVersusFuzzy(t *testing.T) {
	env := newTestEnv(t, Schema{"title": TypeString})
	env.insert(t, "doc1", map[string]any{"title": "hello world"})
	env.insert(t, "doc2", map[string]any{"title": "help"})

	results, err := env.dir.Search("helo", env.tok, "", []string{"title"}, false, 1, nil)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	scores := searchScores(results)
	if len(scores) != 2 {
		t.Fatalf("fuzzy search matched %d docs, want 2", len(scores))
	}
	if scores[1] <= 0 || scores[2] <= 0 {
		t.Errorf("scores must be positive: %v", scores)
	}

	results, err = env.dir.Search("helo", env.tok, "", []string{"title"}, true, 1, nil)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("exact search for a misspelling matched %v", results)
	}
}

// An empty term that tokenizes to nothing matches every document in each
// selected text property.
func TestSearch_EmptyTermMatchesAll(t *testing.T) {
	env := newTestEnv(t, Schema{"title": TypeString})
	env.insert(t, "doc1", map[string]any{"title": "alpha"})
	env.insert(t, "doc2", map[string]any{"title": "beta"})
	env.insert(t, "doc3", map[string]any{"title": "gamma"})

	results, err := env.dir.Search("", env.tok, "", []string{"title"}, false, 0, nil)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("empty term matched %d docs, want 3", len(results))
	}
}

func TestSearch_MultiProperty(t *testing.T) {
	env := newTestEnv(t, Schema{"title": TypeString, "body": TypeString})
	env.insert(t, "doc1", map[string]any{"title": "golang tutorial", "body": "tutorial text"})
	env.insert(t, "doc2", map[string]any{"title": "cooking", "body": "golang recipes"})

	results, err := env.dir.Search("golang", env.tok, "", []string{"title", "body"}, true, 0, nil)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	scores := searchScores(results)
	if len(scores) != 2 {
		t.Fatalf("matched %d docs across properties, want 2", len(scores))
	}
}

// Scoring with boost b must equal scoring with boost 1 times b.
func TestSearch_BoostLinearity(t *testing.T) {
	env := newTestEnv(t, Schema{"title": TypeString})
	env.insert(t, "doc1", map[string]any{"title": "golang golang golang"})
	env.insert(t, "doc2", map[string]any{"title": "golang"})

	plain, err := env.dir.Search("golang", env.tok, "", []string{"title"}, true, 0, nil)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	boosted, err := env.dir.Search("golang", env.tok, "", []string{"title"}, true, 0, map[string]float64{"title": 2.5})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}

	plainScores, boostedScores := searchScores(plain), searchScores(boosted)
	for id, s := range plainScores {
		want := 2.5 * float64(s)
		if math.Abs(float64(boostedScores[id])-want) > 1e-5 {
			t.Errorf("doc %d: boosted score = %v, want %v", id, boostedScores[id], want)
		}
	}
}

func TestSearch_Errors(t *testing.T) {
	env := newTestEnv(t, Schema{"title": TypeString, "age": TypeNumber})

	_, err := env.dir.Search("x", env.tok, "", []string{"age"}, true, 0, nil)
	if !errors.Is(err, &IndexError{Code: CodeWrongSearchPropertyType}) {
		t.Errorf("searching a number property: err = %v, want WRONG_SEARCH_PROPERTY_TYPE", err)
	}

	_, err = env.dir.Search("x", env.tok, "", []string{"missing"}, true, 0, nil)
	if !errors.Is(err, &IndexError{Code: CodeWrongSearchPropertyType}) {
		t.Errorf("searching an unknown property: err = %v, want WRONG_SEARCH_PROPERTY_TYPE", err)
	}

	_, err = env.dir.Search("x", env.tok, "", []string{"title"}, true, 0, map[string]float64{"title": 0})
	if !errors.Is(err, &IndexError{Code: CodeInvalidBoostValue}) {
		t.Errorf("zero boost: err = %v, want INVALID_BOOST_VALUE", err)
	}
	_, err = env.dir.Search("x", env.tok, "", []string{"title"}, true, 0, map[string]float64{"title": -1})
	if !errors.Is(err, &IndexError{Code: CodeInvalidBoostValue}) {
		t.Errorf("negative boost: err = %v, want INVALID_BOOST_VALUE", err)
	}
}

// Results come back in score-map insertion order; the core never sorts.
func TestSearch_PreservesInsertionOrder(t *testing.T) {
	env := newTestEnv(t, Schema{"title": TypeString})
	// doc1 matches weakly, doc2 strongly: sorted-by-score output would put
	// doc2 first, insertion order keeps doc1 first.
	env.insert(t, "doc1", map[string]any{"title": "golang"})
	env.insert(t, "doc2", map[string]any{"title": "golang golang golang"})

	results, err := env.dir.Search("golang", env.tok, "", []string{"title"}, true, 0, nil)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("matched %d docs, want 2", len(results))
	}
	if results[0].ID != 1 || results[1].ID != 2 {
		t.Errorf("result order = [%d %d], want discovery order [1 2]", results[0].ID, results[1].ID)
	}
	if results[1].Score <= results[0].Score {
		t.Errorf("tf weighting lost: %v", results)
	}
}

// Adding a document containing the query tokens never decreases any other
// document's score.
func TestSearch_Monotonicity(t *testing.T) {
	env := newTestEnv(t, Schema{"title": TypeString})
	env.insert(t, "doc1", map[string]any{"title": "golang systems"})

	before, err := env.dir.Search("golang", env.tok, "", []string{"title"}, true, 0, nil)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}

	env.insert(t, "doc2", map[string]any{"title": "golang networking"})
	after, err := env.dir.Search("golang", env.tok, "", []string{"title"}, true, 0, nil)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}

	beforeScores, afterScores := searchScores(before), searchScores(after)
	if afterScores[1] < beforeScores[1] {
		t.Errorf("doc1 score decreased from %v to %v", beforeScores[1], afterScores[1])
	}
}

func TestScoreMap(t *testing.T) {
	m := NewScoreMap()
	m.Add(5, 1.5)
	m.Add(3, 1.0)
	m.Add(5, 0.5)

	entries := m.Entries()
	if len(entries) != 2 {
		t.Fatalf("Len = %d, want 2", len(entries))
	}
	if entries[0].ID != 5 || entries[0].Score != 2.0 {
		t.Errorf("entries[0] = %+v, want id 5 score 2", entries[0])
	}
	if entries[1].ID != 3 || entries[1].Score != 1.0 {
		t.Errorf("entries[1] = %+v, want id 3 score 1", entries[1])
	}
}
