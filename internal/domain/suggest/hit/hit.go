package hit

// Hit is a single suggestion returned by the search backend.
type Hit struct {
	id     string
	score  float64
	fields map[string]string
}

// New creates a suggestion hit.
func New(id string, score float64, fields map[string]string) Hit {
	return Hit{id: id, score: score, fields: fields}
}

// ID returns the document identifier.
func (h Hit) ID() string { return h.id }

// Score returns the backend relevance score.
func (h Hit) Score() float64 { return h.score }

// Fields returns the stored document fields.
func (h Hit) Fields() map[string]string { return h.fields }

// Field returns a single stored field value.
func (h Hit) Field(name string) (string, bool) {
	v, ok := h.fields[name]
	return v, ok
}
