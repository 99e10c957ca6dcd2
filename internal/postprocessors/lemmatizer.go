package postprocessors

import (
	"strings"

	"github.com/custodia-labs/reelscout/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.TokenProcessor = (*Lemmatizer)(nil)

// irregularNouns maps plural forms that suffix rules get wrong.
var irregularNouns = map[string]string{
	"men":           "man",
	"women":         "woman",
	"children":      "child",
	"mice":          "mouse",
	"geese":         "goose",
	"feet":          "foot",
	"teeth":         "tooth",
	"lives":         "life",
	"wives":         "wife",
	"knives":        "knife",
	"wolves":        "wolf",
	"thieves":       "thief",
	"leaves":        "leaf",
	"halves":        "half",
	"selves":        "self",
	"elves":         "elf",
	"heroes":        "hero",
	"potatoes":      "potato",
	"tomatoes":      "tomato",
	"echoes":        "echo",
	"hitmen":        "hitman",
	"gunmen":        "gunman",
	"policemen":     "policeman",
	"firemen":       "fireman",
	"gentlemen":     "gentleman",
	"businessmen":   "businessman",
	"spacemen":      "spaceman",
	"criteria":      "criterion",
	"phenomena":     "phenomenon",
	"alumni":        "alumnus",
	"cacti":         "cactus",
	"fungi":         "fungus",
	"crises":        "crisis",
	"analyses":      "analysis",
	"theses":        "thesis",
	"oases":         "oasis",
	"dice":          "die",
	"people":        "people",
	"aircraft":      "aircraft",
	"matrices":      "matrix",
	"indices":       "index",
	"vertices":      "vertex",
	"appendices":    "appendix",
	"bacteria":      "bacterium",
	"antennae":      "antenna",
	"larvae":        "larva",
	"formulae":      "formula",
	"memoranda":     "memorandum",
	"stimuli":       "stimulus",
	"syllabi":       "syllabus",
	"nuclei":        "nucleus",
	"radii":         "radius",
	"octopi":        "octopus",
	"millennia":     "millennium",
	"curricula":     "curriculum",
	"strata":        "stratum",
	"genera":        "genus",
	"corpora":       "corpus",
	"oxen":          "ox",
	"brethren":      "brother",
	"lice":          "louse",
	"buses":         "bus",
	"superheroes":   "superhero",
	"torpedoes":     "torpedo",
	"volcanoes":     "volcano",
	"mosquitoes":    "mosquito",
	"dominoes":      "domino",
	"vetoes":        "veto",
	"cargoes":       "cargo",
	"tornadoes":     "tornado",
	"desperadoes":   "desperado",
	"buffaloes":     "buffalo",
	"grandchildren": "grandchild",
}

// invariantNouns end in "s" but are already in base form.
var invariantNouns = map[string]struct{}{
	"chaos": {}, "series": {}, "species": {}, "news": {}, "physics": {},
	"mathematics": {}, "politics": {}, "economics": {}, "ethics": {},
	"athletics": {}, "gymnastics": {}, "linguistics": {}, "logistics": {},
	"thanks": {}, "means": {}, "headquarters": {}, "barracks": {},
	"crossroads": {}, "gallows": {}, "innings": {}, "pants": {},
	"scissors": {}, "trousers": {}, "glasses": {}, "odds": {}, "clothes": {},
	"cosmos": {}, "pathos": {}, "ethos": {}, "atlas": {}, "canvas": {},
	"christmas": {}, "texas": {}, "paris": {}, "mars": {}, "venus": {},
	"zeus": {}, "hades": {}, "jesus": {}, "moses": {}, "athens": {},
	"vegas": {}, "bias": {}, "alias": {}, "iris": {}, "lens": {},
	"gas": {}, "yes": {}, "bus": {}, "plus": {}, "thus": {},
	"always": {}, "perhaps": {}, "afterwards": {}, "towards": {},
}

// ieNouns are singular nouns ending in "ie" whose plural must not take the
// "ies" -> "y" rule.
var ieNouns = map[string]struct{}{
	"movie": {}, "zombie": {}, "cookie": {}, "rookie": {}, "hippie": {},
	"tie": {}, "lie": {}, "pie": {}, "brownie": {}, "calorie": {},
	"goalie": {}, "genie": {}, "selfie": {}, "newbie": {}, "freebie": {},
	"bookie": {}, "yuppie": {}, "techie": {}, "groupie": {}, "smoothie": {},
	"prairie": {}, "pixie": {}, "auntie": {}, "sweetie": {}, "collie": {},
	"hoodie": {}, "indie": {}, "walkie": {}, "talkie": {}, "birdie": {},
}

// Lemmatizer reduces nouns to their dictionary base form using suffix rules
// and an exception table. Tokens it does not recognise as plurals are
// returned unchanged.
type Lemmatizer struct {
	exceptions map[string]string
	invariant  map[string]struct{}
}

// NewLemmatizer creates an English noun lemmatizer.
func NewLemmatizer() *Lemmatizer {
	return &Lemmatizer{
		exceptions: irregularNouns,
		invariant:  invariantNouns,
	}
}

// Process lemmatizes every token.
func (l *Lemmatizer) Process(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = l.Lemma(t)
	}
	return out
}

// Name returns the processor name.
func (l *Lemmatizer) Name() string {
	return "lemmatizer"
}

// Order returns 30 - lemmatization runs last.
func (l *Lemmatizer) Order() int {
	return 30
}

// Lemma returns the base form of a single token.
func (l *Lemmatizer) Lemma(word string) string {
	if base, ok := l.exceptions[word]; ok {
		return base
	}
	if _, ok := l.invariant[word]; ok {
		return word
	}
	if len(word) <= 3 || !strings.HasSuffix(word, "s") {
		return word
	}

	switch {
	case strings.HasSuffix(word, "ss"),
		strings.HasSuffix(word, "us"),
		strings.HasSuffix(word, "is"):
		return word
	case strings.HasSuffix(word, "ies") && len(word) > 4:
		if _, ok := ieNouns[word[:len(word)-1]]; ok {
			return word[:len(word)-1]
		}
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "sses"),
		strings.HasSuffix(word, "ches"),
		strings.HasSuffix(word, "shes"),
		strings.HasSuffix(word, "xes"),
		strings.HasSuffix(word, "zzes"):
		return word[:len(word)-2]
	default:
		return word[:len(word)-1]
	}
}
