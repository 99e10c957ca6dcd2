package mocks

import (
	"strings"

	"github.com/custodia-labs/reelscout/internal/core/ports/driven"
)

// MockNormaliser is a mock implementation of Normaliser for testing.
// By default it lower-cases string input and returns "" for anything else.
type MockNormaliser struct {
	SupportedFieldsFn func() []string
	PriorityFn        func() int
	NormaliseFn       func(raw any) string

	Calls int
}

func NewMockNormaliser() *MockNormaliser {
	return &MockNormaliser{}
}

func (m *MockNormaliser) Normalise(raw any) string {
	m.Calls++
	if m.NormaliseFn != nil {
		return m.NormaliseFn(raw)
	}
	s, ok := raw.(string)
	if !ok {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(s))
}

func (m *MockNormaliser) SupportedFields() []string {
	if m.SupportedFieldsFn != nil {
		return m.SupportedFieldsFn()
	}
	return []string{"*"}
}

func (m *MockNormaliser) Priority() int {
	if m.PriorityFn != nil {
		return m.PriorityFn()
	}
	return 10
}

// MockNormaliserRegistry is a mock implementation of NormaliserRegistry for testing
type MockNormaliserRegistry struct {
	GetFn      func(field string) driven.Normaliser
	RegisterFn func(normaliser driven.Normaliser)
	normaliser driven.Normaliser
}

func NewMockNormaliserRegistry() *MockNormaliserRegistry {
	return &MockNormaliserRegistry{
		normaliser: NewMockNormaliser(),
	}
}

func (m *MockNormaliserRegistry) Get(field string) driven.Normaliser {
	if m.GetFn != nil {
		return m.GetFn(field)
	}
	return m.normaliser
}

func (m *MockNormaliserRegistry) GetAll(field string) []driven.Normaliser {
	if n := m.Get(field); n != nil {
		return []driven.Normaliser{n}
	}
	return nil
}

func (m *MockNormaliserRegistry) Register(normaliser driven.Normaliser) {
	if m.RegisterFn != nil {
		m.RegisterFn(normaliser)
	}
	m.normaliser = normaliser
}

// List returns all registered fields
func (m *MockNormaliserRegistry) List() []string {
	if m.normaliser != nil {
		return m.normaliser.SupportedFields()
	}
	return nil
}
