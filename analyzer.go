// ═══════════════════════════════════════════════════════════════════════════════
// TEXT ANALYSIS OVERVIEW
// ═══════════════════════════════════════════════════════════════════════════════
// Text analysis transforms raw text into searchable tokens through a multi-stage
// pipeline:
//
//  1. Tokenization   → Split text into words
//  2. Lowercasing    → Normalize case ("Quick" → "quick")
//  3. Stop word removal → Remove common words ("the", "a", etc.)
//  4. Length filtering  → Remove very short tokens (< 2 chars)
//  5. Stemming       → Reduce words to root form ("running" → "run")
//
// EXAMPLE TRANSFORMATION:
// -----------------------
// Input:  "The Quick Brown Fox Jumps!"
// Step 1: ["The", "Quick", "Brown", "Fox", "Jumps"]     (tokenize)
// Step 2: ["the", "quick", "brown", "fox", "jumps"]     (lowercase)
// Step 3: ["quick", "brown", "fox", "jumps"]            (remove stopwords)
// Step 4: ["quick", "brown", "fox", "jumps"]            (length filter - all pass)
// Step 5: ["quick", "brown", "fox", "jump"]             (stemming)
//
// The pipeline is pure: the same (text, language) input always yields the
// same tokens, which is what lets index insertion and query evaluation agree
// on what a "token" is. Because queries repeat the same short terms over and
// over, the default tokenizer memoizes its output in a small LRU cache.
// ═══════════════════════════════════════════════════════════════════════════════

package orama

import (
	"strings"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"
	snowballeng "github.com/kljensen/snowball/english"
	snowballfr "github.com/kljensen/snowball/french"
	snowballhu "github.com/kljensen/snowball/hungarian"
	snowballno "github.com/kljensen/snowball/norwegian"
	snowballru "github.com/kljensen/snowball/russian"
	snowballes "github.com/kljensen/snowball/spanish"
	snowballsv "github.com/kljensen/snowball/swedish"
)

// Tokenizer turns raw text into normalized tokens. Implementations must be
// pure functions of their input: empty input yields empty output, and the
// property name is advisory (a tokenizer may specialize per property but the
// default one does not).
type Tokenizer interface {
	Tokenize(text, language, property string) []string
}

// AnalyzerConfig holds configuration options for text analysis.
type AnalyzerConfig struct {
	MinTokenLength  int  // Minimum token length to keep (default: 2)
	EnableStemming  bool // Whether to apply stemming (default: true)
	EnableStopwords bool // Whether to remove stopwords (default: true)
	CacheSize       int  // LRU memo entries (default: 1024)
}

// DefaultAnalyzerConfig returns the standard analyzer configuration.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		MinTokenLength:  2,
		EnableStemming:  true,
		EnableStopwords: true,
		CacheSize:       1024,
	}
}

// DefaultTokenizer is the built-in language-aware analysis pipeline:
// unicode-split, lowercase, stopword filter, length filter, snowball
// stemming. Languages without a shipped stemmer or stopword list pass
// through those stages untouched.
type DefaultTokenizer struct {
	config AnalyzerConfig
	cache  *lru.Cache[string, []string]
}

// NewDefaultTokenizer creates a tokenizer with the default configuration.
func NewDefaultTokenizer() *DefaultTokenizer {
	return NewDefaultTokenizerWithConfig(DefaultAnalyzerConfig())
}

// NewDefaultTokenizerWithConfig creates a tokenizer with a custom configuration.
func NewDefaultTokenizerWithConfig(config AnalyzerConfig) *DefaultTokenizer {
	if config.CacheSize <= 0 {
		config.CacheSize = 1024
	}
	// lru.New only fails on a non-positive size, which is guarded above.
	cache, _ := lru.New[string, []string](config.CacheSize)
	return &DefaultTokenizer{config: config, cache: cache}
}

// Tokenize runs the full analysis pipeline on text.
//
// Example:
//
//	tok := NewDefaultTokenizer()
//	tok.Tokenize("The quick brown fox", "english", "title")
//	// Returns: ["quick", "brown", "fox"]
func (t *DefaultTokenizer) Tokenize(text, language, property string) []string {
	if text == "" {
		return nil
	}

	key := language + "\x00" + text
	if cached, ok := t.cache.Get(key); ok {
		return cached
	}

	tokens := splitWords(text)
	tokens = lowercaseFilter(tokens)

	if t.config.EnableStopwords {
		tokens = stopwordFilter(tokens, language)
	}

	tokens = lengthFilter(tokens, t.config.MinTokenLength)

	if t.config.EnableStemming {
		tokens = stemmerFilter(tokens, language)
	}

	t.cache.Add(key, tokens)
	return tokens
}

// splitWords splits text into individual words.
//
// Uses Unicode-aware splitting: any non-letter and non-digit character is a
// delimiter, so "user@email.com" → ["user", "email", "com"] and multi-byte
// letters survive ("café" stays whole).
func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// lowercaseFilter normalizes token casing.
//
// Without lowercasing, "Quick", "quick", and "QUICK" would be treated as
// different words.
func lowercaseFilter(tokens []string) []string {
	r := make([]string, len(tokens))
	for i, token := range tokens {
		r[i] = strings.ToLower(token)
	}
	return r
}

// stopwordFilter removes common words that don't add search value.
//
// Only languages with a shipped stopword list are filtered; any other
// language passes through unchanged.
func stopwordFilter(tokens []string, language string) []string {
	words, ok := stopwords[normalizeLanguage(language)]
	if !ok {
		return tokens
	}
	r := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, stop := words[token]; !stop {
			r = append(r, token)
		}
	}
	return r
}

// lengthFilter removes tokens that are too short to be meaningful. Very
// short tokens mostly produce false matches; the ones that carry meaning
// ("a", "i") are already caught by the stopword filter.
func lengthFilter(tokens []string, minLength int) []string {
	if minLength <= 0 {
		return tokens
	}
	r := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if len(token) >= minLength {
			r = append(r, token)
		}
	}
	return r
}

// stemmerFilter reduces words to their root form using the snowball stemmer
// for the requested language ("running", "runs" → "run"). Languages without
// a stemmer pass through unchanged.
func stemmerFilter(tokens []string, language string) []string {
	stem, ok := stemmers[normalizeLanguage(language)]
	if !ok {
		return tokens
	}
	r := make([]string, len(tokens))
	for i, token := range tokens {
		r[i] = stem(token, false)
	}
	return r
}

// normalizeLanguage maps a caller-supplied language name to a stemmer key.
// The empty string means english.
func normalizeLanguage(language string) string {
	if language == "" {
		return "english"
	}
	return strings.ToLower(language)
}

// stemmers routes each supported language to its snowball implementation.
var stemmers = map[string]func(string, bool) string{
	"english":   snowballeng.Stem,
	"french":    snowballfr.Stem,
	"spanish":   snowballes.Stem,
	"swedish":   snowballsv.Stem,
	"norwegian": snowballno.Stem,
	"russian":   snowballru.Stem,
	"hungarian": snowballhu.Stem,
}

// stopwords holds the per-language stopword sets. Only english ships a list
// for now; the map keeps the lookup shape uniform across languages.
var stopwords = map[string]map[string]struct{}{
	"english": englishStopwords,
}

// englishStopwords contains common English words to exclude from indexing.
//
// Uses struct{} (empty struct) as the value type for zero-byte entries.
var englishStopwords = map[string]struct{}{
	"a":            {},
	"about":        {},
	"above":        {},
	"across":       {},
	"after":        {},
	"afterwards":   {},
	"again":        {},
	"against":      {},
	"all":          {},
	"almost":       {},
	"alone":        {},
	"along":        {},
	"already":      {},
	"also":         {},
	"although":     {},
	"always":       {},
	"am":           {},
	"among":        {},
	"amongst":      {},
	"amoungst":     {},
	"amount":       {},
	"an":           {},
	"and":          {},
	"another":      {},
	"any":          {},
	"anyhow":       {},
	"anyone":       {},
	"anything":     {},
	"anyway":       {},
	"anywhere":     {},
	"are":          {},
	"around":       {},
	"as":           {},
	"at":           {},
	"back":         {},
	"be":           {},
	"became":       {},
	"because":      {},
	"become":       {},
	"becomes":      {},
	"becoming":     {},
	"been":         {},
	"before":       {},
	"beforehand":   {},
	"behind":       {},
	"being":        {},
	"below":        {},
	"beside":       {},
	"besides":      {},
	"between":      {},
	"beyond":       {},
	"bill":         {},
	"both":         {},
	"bottom":       {},
	"but":          {},
	"by":           {},
	"call":         {},
	"can":          {},
	"cannot":       {},
	"cant":         {},
	"co":           {},
	"con":          {},
	"could":        {},
	"couldnt":      {},
	"cry":          {},
	"de":           {},
	"describe":     {},
	"detail":       {},
	"do":           {},
	"done":         {},
	"down":         {},
	"due":          {},
	"during":       {},
	"each":         {},
	"eg":           {},
	"eight":        {},
	"either":       {},
	"eleven":       {},
	"else":         {},
	"elsewhere":    {},
	"empty":        {},
	"enough":       {},
	"etc":          {},
	"even":         {},
	"ever":         {},
	"every":        {},
	"everyone":     {},
	"everything":   {},
	"everywhere":   {},
	"except":       {},
	"few":          {},
	"fifteen":      {},
	"fify":         {},
	"fill":         {},
	"find":         {},
	"fire":         {},
	"first":        {},
	"five":         {},
	"for":          {},
	"former":       {},
	"formerly":     {},
	"forty":        {},
	"found":        {},
	"four":         {},
	"from":         {},
	"front":        {},
	"full":         {},
	"further":      {},
	"get":          {},
	"give":         {},
	"go":           {},
	"had":          {},
	"has":          {},
	"hasnt":        {},
	"have":         {},
	"he":           {},
	"hence":        {},
	"her":          {},
	"here":         {},
	"hereafter":    {},
	"hereby":       {},
	"herein":       {},
	"hereupon":     {},
	"hers":         {},
	"herself":      {},
	"him":          {},
	"himself":      {},
	"his":          {},
	"how":          {},
	"however":      {},
	"hundred":      {},
	"ie":           {},
	"if":           {},
	"in":           {},
	"inc":          {},
	"indeed":       {},
	"interest":     {},
	"into":         {},
	"is":           {},
	"it":           {},
	"its":          {},
	"itself":       {},
	"keep":         {},
	"last":         {},
	"latter":       {},
	"latterly":     {},
	"least":        {},
	"less":         {},
	"ltd":          {},
	"made":         {},
	"many":         {},
	"may":          {},
	"me":           {},
	"meanwhile":    {},
	"might":        {},
	"mill":         {},
	"mine":         {},
	"more":         {},
	"moreover":     {},
	"most":         {},
	"mostly":       {},
	"move":         {},
	"much":         {},
	"must":         {},
	"my":           {},
	"myself":       {},
	"name":         {},
	"namely":       {},
	"neither":      {},
	"never":        {},
	"nevertheless": {},
	"next":         {},
	"nine":         {},
	"no":           {},
	"nobody":       {},
	"none":         {},
	"noone":        {},
	"nor":          {},
	"not":          {},
	"nothing":      {},
	"now":          {},
	"nowhere":      {},
	"of":           {},
	"off":          {},
	"often":        {},
	"on":           {},
	"once":         {},
	"one":          {},
	"only":         {},
	"onto":         {},
	"or":           {},
	"other":        {},
	"others":       {},
	"otherwise":    {},
	"our":          {},
	"ours":         {},
	"ourselves":    {},
	"out":          {},
	"over":         {},
	"own":          {},
	"part":         {},
	"per":          {},
	"perhaps":      {},
	"please":       {},
	"put":          {},
	"rather":       {},
	"re":           {},
	"same":         {},
	"see":          {},
	"seem":         {},
	"seemed":       {},
	"seeming":      {},
	"seems":        {},
	"serious":      {},
	"several":      {},
	"she":          {},
	"should":       {},
	"show":         {},
	"side":         {},
	"since":        {},
	"sincere":      {},
	"six":          {},
	"sixty":        {},
	"so":           {},
	"some":         {},
	"somehow":      {},
	"someone":      {},
	"something":    {},
	"sometime":     {},
	"sometimes":    {},
	"somewhere":    {},
	"still":        {},
	"such":         {},
	"system":       {},
	"take":         {},
	"ten":          {},
	"than":         {},
	"that":         {},
	"the":          {},
	"their":        {},
	"them":         {},
	"themselves":   {},
	"then":         {},
	"thence":       {},
	"there":        {},
	"thereafter":   {},
	"thereby":      {},
	"therefore":    {},
	"therein":      {},
	"thereupon":    {},
	"these":        {},
	"they":         {},
	"thickv":       {},
	"thin":         {},
	"third":        {},
	"this":         {},
	"those":        {},
	"though":       {},
	"three":        {},
	"through":      {},
	"throughout":   {},
	"thru":         {},
	"thus":         {},
	"to":           {},
	"together":     {},
	"too":          {},
	"top":          {},
	"toward":       {},
	"towards":      {},
	"twelve":       {},
	"twenty":       {},
	"two":          {},
	"un":           {},
	"under":        {},
	"until":        {},
	"up":           {},
	"upon":         {},
	"us":           {},
	"very":         {},
	"via":          {},
	"was":          {},
	"we":           {},
	"well":         {},
	"were":         {},
	"what":         {},
	"whatever":     {},
	"when":         {},
	"whence":       {},
	"whenever":     {},
	"where":        {},
	"whereafter":   {},
	"whereas":      {},
	"whereby":      {},
	"wherein":      {},
	"whereupon":    {},
	"wherever":     {},
	"whether":      {},
	"which":        {},
	"while":        {},
	"whither":      {},
	"who":          {},
	"whoever":      {},
	"whole":        {},
	"whom":         {},
	"whose":        {},
	"why":          {},
	"will":         {},
	"with":         {},
	"within":       {},
	"without":      {},
	"would":        {},
	"yet":          {},
	"you":          {},
	"your":         {},
	"yours":        {},
	"yourself":     {},
	"yourselves":   {}}
