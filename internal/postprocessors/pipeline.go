package postprocessors

import (
	"sort"
	"sync"

	"github.com/custodia-labs/reelscout/internal/core/domain"
	"github.com/custodia-labs/reelscout/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.TokenPipeline = (*Pipeline)(nil)

// Pipeline implements TokenPipeline.
// It chains token processors in ascending Order().
type Pipeline struct {
	mu         sync.RWMutex
	processors []driven.TokenProcessor
	sorted     bool
}

// NewPipeline creates a new token pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{
		processors: make([]driven.TokenProcessor, 0),
	}
}

// Add adds a processor to the pipeline.
// Processors are sorted by Order() before processing.
func (p *Pipeline) Add(processor driven.TokenProcessor) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.processors = append(p.processors, processor)
	p.sorted = false
}

// Process applies all processors in order.
func (p *Pipeline) Process(tokens []string) []string {
	for _, proc := range p.ordered() {
		tokens = proc.Process(tokens)
		if len(tokens) == 0 {
			return tokens
		}
	}
	return tokens
}

// List returns processor names in order.
func (p *Pipeline) List() []string {
	procs := p.ordered()
	names := make([]string, len(procs))
	for i, proc := range procs {
		names[i] = proc.Name()
	}
	return names
}

func (p *Pipeline) ordered() []driven.TokenProcessor {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.sorted {
		sort.SliceStable(p.processors, func(i, j int) bool {
			return p.processors[i].Order() < p.processors[j].Order()
		})
		p.sorted = true
	}

	processors := make([]driven.TokenProcessor, len(p.processors))
	copy(processors, p.processors)
	return processors
}

// ForSettings builds the pipeline matching the text normalisation toggles.
func ForSettings(settings domain.TextSettings) *Pipeline {
	p := NewPipeline()
	if settings.RemoveStopwords {
		p.Add(NewStopwordFilter(EnglishStopwords()))
	}
	if settings.MinWordLength > 0 {
		p.Add(NewLengthFilter(settings.MinWordLength))
	}
	if settings.Lemmatize {
		p.Add(NewLemmatizer())
	}
	return p
}

// DefaultPipeline creates a pipeline with every processor enabled.
func DefaultPipeline() *Pipeline {
	return ForSettings(domain.DefaultTextSettings())
}

// StopwordFilter drops tokens found in a stop word set.
type StopwordFilter struct {
	words map[string]struct{}
}

// Verify interface compliance
var _ driven.TokenProcessor = (*StopwordFilter)(nil)

// NewStopwordFilter creates a filter over the given words.
func NewStopwordFilter(words []string) *StopwordFilter {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return &StopwordFilter{words: set}
}

// Process removes stop words. Matching is exact; lower-casing happens upstream.
func (f *StopwordFilter) Process(tokens []string) []string {
	out := tokens[:0:0]
	for _, t := range tokens {
		if _, stop := f.words[t]; !stop {
			out = append(out, t)
		}
	}
	return out
}

// Name returns the processor name.
func (f *StopwordFilter) Name() string {
	return "stopword-filter"
}

// Order returns 10 - stop words go first.
func (f *StopwordFilter) Order() int {
	return 10
}

// LengthFilter drops tokens shorter than a minimum rune count.
type LengthFilter struct {
	min int
}

// Verify interface compliance
var _ driven.TokenProcessor = (*LengthFilter)(nil)

// NewLengthFilter creates a filter keeping tokens of at least min runes.
func NewLengthFilter(min int) *LengthFilter {
	return &LengthFilter{min: min}
}

// Process removes short tokens.
func (f *LengthFilter) Process(tokens []string) []string {
	out := tokens[:0:0]
	for _, t := range tokens {
		if len([]rune(t)) >= f.min {
			out = append(out, t)
		}
	}
	return out
}

// Name returns the processor name.
func (f *LengthFilter) Name() string {
	return "length-filter"
}

// Order returns 20 - runs after stop word removal.
func (f *LengthFilter) Order() int {
	return 20
}
