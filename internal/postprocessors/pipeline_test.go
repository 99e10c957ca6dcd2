package postprocessors

import (
	"reflect"
	"testing"

	"github.com/custodia-labs/reelscout/internal/core/domain"
	"github.com/custodia-labs/reelscout/internal/core/ports/driven"
)

// recordingProcessor appends its name to every token so ordering is visible.
type recordingProcessor struct {
	name  string
	order int
}

func (r *recordingProcessor) Process(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t + "+" + r.name
	}
	return out
}

func (r *recordingProcessor) Name() string { return r.name }
func (r *recordingProcessor) Order() int   { return r.order }

func TestNewPipeline(t *testing.T) {
	p := NewPipeline()
	if p == nil {
		t.Fatal("expected non-nil pipeline")
	}
	if len(p.List()) != 0 {
		t.Errorf("expected empty pipeline, got %v", p.List())
	}
}

func TestPipeline_Process_OrderedProcessors(t *testing.T) {
	p := NewPipeline()
	p.Add(&recordingProcessor{name: "late", order: 30})
	p.Add(&recordingProcessor{name: "early", order: 1})
	p.Add(&recordingProcessor{name: "middle", order: 15})

	got := p.Process([]string{"x"})
	if got[0] != "x+early+middle+late" {
		t.Errorf("unexpected processing order: %s", got[0])
	}

	want := []string{"early", "middle", "late"}
	if !reflect.DeepEqual(p.List(), want) {
		t.Errorf("expected %v, got %v", want, p.List())
	}
}

func TestPipeline_Process_Empty(t *testing.T) {
	p := DefaultPipeline()
	if got := p.Process(nil); len(got) != 0 {
		t.Errorf("expected no tokens, got %v", got)
	}
}

func TestDefaultPipeline(t *testing.T) {
	p := DefaultPipeline()
	want := []string{"stopword-filter", "length-filter", "lemmatizer"}
	if !reflect.DeepEqual(p.List(), want) {
		t.Errorf("expected %v, got %v", want, p.List())
	}
}

func TestForSettings_Toggles(t *testing.T) {
	tests := []struct {
		name     string
		settings domain.TextSettings
		want     []string
	}{
		{
			name:     "nothing enabled",
			settings: domain.TextSettings{},
			want:     []string{},
		},
		{
			name:     "length only",
			settings: domain.TextSettings{MinWordLength: 3},
			want:     []string{"length-filter"},
		},
		{
			name:     "stopwords and lemmatize",
			settings: domain.TextSettings{RemoveStopwords: true, Lemmatize: true},
			want:     []string{"stopword-filter", "lemmatizer"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ForSettings(tt.settings).List()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestStopwordFilter(t *testing.T) {
	f := NewStopwordFilter(EnglishStopwords())

	got := f.Process([]string{"the", "dark", "knight", "and", "his", "war"})
	want := []string{"dark", "knight", "war"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if f.Name() != "stopword-filter" || f.Order() != 10 {
		t.Errorf("unexpected name/order %s/%d", f.Name(), f.Order())
	}
}

func TestStopwordFilter_DoesNotMutateInput(t *testing.T) {
	f := NewStopwordFilter([]string{"a"})
	in := []string{"a", "b", "a", "c"}
	_ = f.Process(in)

	if !reflect.DeepEqual(in, []string{"a", "b", "a", "c"}) {
		t.Errorf("input was mutated: %v", in)
	}
}

func TestLengthFilter(t *testing.T) {
	f := NewLengthFilter(2)

	got := f.Process([]string{"a", "fi", "sci", "é", "ün"})
	want := []string{"fi", "sci", "ün"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestEnglishStopwords_ReturnsCopy(t *testing.T) {
	words := EnglishStopwords()
	words[0] = "mutated"

	if EnglishStopwords()[0] != "i" {
		t.Error("expected stop word list to be unaffected by caller mutation")
	}
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.TokenPipeline = (*Pipeline)(nil)
	var _ driven.TokenProcessor = (*StopwordFilter)(nil)
	var _ driven.TokenProcessor = (*LengthFilter)(nil)
	var _ driven.TokenProcessor = (*Lemmatizer)(nil)
}
