package domain

// VectorRecord is a stored vector with its collection-unique id. Records are
// immutable once stored; the only mutations are insert and delete-by-id.
type VectorRecord struct {
	ID     int64     `json:"id"`
	Vector []float32 `json:"vector"`
}

// RecordKind discriminates the ingestion record union.
type RecordKind int

const (
	// RecordInvalid marks a record carrying neither text nor vector.
	RecordInvalid RecordKind = iota
	// RecordText marks a record whose vector must be produced by embedding.
	RecordText
	// RecordVector marks a record carrying a client-supplied vector.
	RecordVector
)

// RecordInput is the tagged union an ingestion record is reduced to at the
// transport boundary. Shape sniffing happens exactly once, there; downstream
// code switches on Kind.
type RecordInput struct {
	kind   RecordKind
	text   string
	vector []float32
}

// TextInput builds a record to be embedded.
func TextInput(text string) RecordInput {
	return RecordInput{kind: RecordText, text: text}
}

// VectorInput builds a record carrying a raw vector.
func VectorInput(vec []float32) RecordInput {
	return RecordInput{kind: RecordVector, vector: vec}
}

// InvalidInput builds a record that will be dropped by the pipeline.
func InvalidInput() RecordInput {
	return RecordInput{kind: RecordInvalid}
}

// Kind returns the union tag.
func (r RecordInput) Kind() RecordKind { return r.kind }

// Text returns the text payload of a RecordText input.
func (r RecordInput) Text() string { return r.text }

// Vector returns the vector payload of a RecordVector input.
func (r RecordInput) Vector() []float32 { return r.vector }

// DecodeRecord reduces a wire-level record to the union. Text takes
// precedence over an accompanying vector; any other fields are metadata the
// store does not persist and are discarded here.
func DecodeRecord(raw map[string]any) RecordInput {
	if text, ok := raw["text"].(string); ok && text != "" {
		return TextInput(text)
	}
	if rawVec, ok := raw["vector"].([]any); ok {
		vec := make([]float32, 0, len(rawVec))
		for _, v := range rawVec {
			f, ok := v.(float64)
			if !ok {
				return InvalidInput()
			}
			vec = append(vec, float32(f))
		}
		if len(vec) > 0 {
			return VectorInput(vec)
		}
	}
	return InvalidInput()
}
