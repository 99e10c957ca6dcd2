package driven

// Normaliser turns a raw field value into a normalized token string.
type Normaliser interface {
	// Normalise converts raw input into space separated tokens.
	// Non-string input (including nil) yields "".
	Normalise(raw any) string

	// SupportedFields returns the corpus fields this normaliser handles.
	// "*" matches every field.
	SupportedFields() []string

	// Priority returns the normaliser priority (higher = more specific).
	// Priority ranges:
	//   50-100: Field-specific (e.g. a genres normaliser)
	//   1-49:   Generic text normalisation
	Priority() int
}

// NormaliserRegistry manages field normalisers.
// When multiple normalisers match a field, the highest priority one is used.
type NormaliserRegistry interface {
	// Get retrieves the best-matching normaliser for a field.
	// Returns nil if no normaliser is registered for the field.
	Get(field string) Normaliser

	// GetAll retrieves all normalisers that match a field, sorted by priority (highest first).
	GetAll(field string) []Normaliser

	// Register registers a normaliser.
	Register(normaliser Normaliser)

	// List returns all registered field names.
	List() []string
}

// TokenProcessor transforms a token stream.
// Processors form a pipeline: StopwordFilter -> LengthFilter -> Lemmatizer.
type TokenProcessor interface {
	// Process returns the transformed tokens.
	Process(tokens []string) []string

	// Name returns the processor name for logging/debugging.
	Name() string

	// Order returns the processor order in the pipeline (lower = earlier).
	Order() int
}

// TokenPipeline chains multiple token processors in order.
type TokenPipeline interface {
	// Process applies all processors in order.
	Process(tokens []string) []string

	// Add adds a processor to the pipeline.
	// Processors are sorted by Order() before processing.
	Add(processor TokenProcessor)

	// List returns processor names in order.
	List() []string
}
