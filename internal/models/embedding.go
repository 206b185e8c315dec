package models

// WordEmbedding is the unit keyed by (Word, Language); immutable once
// loaded. Metadata is optional and provider-specific (frequency, part
// of speech, ...).
type WordEmbedding struct {
	Word     string                 `json:"word" gorm:"primaryKey;size:128"`
	Language string                 `json:"language" gorm:"primaryKey;size:16"`
	Vector   Vector                 `json:"vector" gorm:"-"`
	Metadata map[string]interface{} `json:"metadata,omitempty" gorm:"-"`
}

// EmbeddingMetadata keys recognized by the rarity computation in the
// semantic scorer (internal/scorer). Other keys are passed through
// opaquely.
const (
	MetaFrequency = "frequency"
	MetaPOS       = "pos"
)

// Frequency returns the frequency metadata value and whether it was
// present and numeric.
func (e WordEmbedding) Frequency() (float64, bool) {
	if e.Metadata == nil {
		return 0, false
	}
	v, ok := e.Metadata[MetaFrequency]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
