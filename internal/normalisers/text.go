package normalisers

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/custodia-labs/reelscout/internal/core/domain"
	"github.com/custodia-labs/reelscout/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.Normaliser = (*TextNormaliser)(nil)

// asciiPunctuation is the ASCII punctuation set removed during normalisation.
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// wordPattern splits text into runs of word characters or runs of symbols.
var wordPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]+|[^\p{L}\p{M}\p{N}_\s]+`)

// TextNormaliser is the generic field normaliser. It applies the character
// level steps itself and hands the resulting tokens to a TokenPipeline for
// stop word removal, length filtering and lemmatisation.
type TextNormaliser struct {
	settings domain.TextSettings
	pipeline driven.TokenPipeline
}

// NewTextNormaliser creates a normaliser. pipeline may be nil, in which case
// tokens are joined as produced by tokenisation.
func NewTextNormaliser(settings domain.TextSettings, pipeline driven.TokenPipeline) *TextNormaliser {
	return &TextNormaliser{settings: settings, pipeline: pipeline}
}

// Normalise converts raw input into normalized tokens joined by single spaces.
// nil and non-string values yield "".
func (n *TextNormaliser) Normalise(raw any) string {
	text, ok := raw.(string)
	if !ok {
		return ""
	}
	return n.NormaliseString(text)
}

// NormaliseString runs the pipeline over a string.
func (n *TextNormaliser) NormaliseString(text string) string {
	if n.settings.Lowercase {
		text = strings.ToLower(text)
	}
	if n.settings.RemovePunctuation {
		text = replacePunctuation(text)
	}
	text = stripDigits(text)

	tokens := tokenize(text)
	if n.pipeline != nil {
		tokens = n.pipeline.Process(tokens)
	}
	return strings.Join(tokens, " ")
}

// SupportedFields returns "*"; this normaliser handles any field.
func (n *TextNormaliser) SupportedFields() []string {
	return []string{"*"}
}

// Priority returns 10 (generic).
func (n *TextNormaliser) Priority() int {
	return 10
}

// replacePunctuation turns every ASCII punctuation character into a space so
// that hyphenated words split into their parts.
func replacePunctuation(text string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && strings.ContainsRune(asciiPunctuation, r) {
			return ' '
		}
		return r
	}, text)
}

// stripDigits removes decimal digit runs.
func stripDigits(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}
		return r
	}, text)
}

// tokenize splits on whitespace, separating symbol runs from words.
func tokenize(text string) []string {
	return wordPattern.FindAllString(text, -1)
}
