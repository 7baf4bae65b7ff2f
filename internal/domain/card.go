package domain

// ModelType identifies which note-type grammar a card's content follows.
type ModelType string

const (
	ModelQA    ModelType = "qa"
	ModelCloze ModelType = "cloze"
	ModelMCQ   ModelType = "mcq"
)

// Valid reports whether t is one of the known model types.
func (t ModelType) Valid() bool {
	switch t {
	case ModelQA, ModelCloze, ModelMCQ:
		return true
	}
	return false
}

// CardSpec is one raw card as received from the generation layer:
// a model type tag plus unparsed, format-specific content.
type CardSpec struct {
	ModelType ModelType
	Content   string
}

// ParsedCard is the normalized form of one CardSpec. FieldValues is
// ordered to match the fields of the note model for ModelType, and
// Digest is a hash of the canonicalized values used for identifier
// derivation and duplicate detection.
type ParsedCard struct {
	ModelType   ModelType
	FieldValues []string
	Digest      [32]byte
}

// Note is one unit of knowledge bound to a note model, ready for
// serialization. FieldValues is aligned to the model's field order.
type Note struct {
	ID          int64
	GUID        string
	ModelID     int64
	FieldValues []string
	Tags        []string
}

// Deck is a named, ordered collection of notes. One deck per package.
type Deck struct {
	ID    int64
	Name  string
	Notes []Note
}
