// Package models holds the fixed note-type schemas. Model identifiers are
// hand-assigned once and never regenerated, so packages built in different
// runs stay compatible with earlier imports of the same note type.
package models

import (
	"fmt"

	"github.com/ankismith/ankismith/internal/domain"
)

// Template is one renderable front/back pair of a note model.
type Template struct {
	Name  string
	Front string
	Back  string
}

// NoteModel is the schema shared by all notes of one model type.
type NoteModel struct {
	ID        int64
	Name      string
	Fields    []string
	Templates []Template
	Styling   string
	Cloze     bool
}

const styling = `.card { font-family: arial; font-size: 20px; text-align: center; }`

var registry = map[domain.ModelType]*NoteModel{
	domain.ModelQA: {
		ID:     1607392319,
		Name:   "Simple Q&A Model",
		Fields: []string{"Question", "Answer"},
		Templates: []Template{{
			Name:  "Card 1",
			Front: "{{Question}}",
			Back:  `{{FrontSide}}<hr id="answer">{{Answer}}`,
		}},
		Styling: styling,
	},
	domain.ModelCloze: {
		ID:     1607392320,
		Name:   "Simple Cloze Model",
		Fields: []string{"Text"},
		Templates: []Template{{
			Name:  "Cloze",
			Front: "{{cloze:Text}}",
			Back:  "{{cloze:Text}}",
		}},
		Styling: styling,
		Cloze:   true,
	},
	domain.ModelMCQ: {
		ID:     1607392321,
		Name:   "Multiple Choice Model",
		Fields: []string{"Question", "OptionA", "OptionB", "OptionC", "OptionD", "OptionE", "OptionF", "Answer"},
		Templates: []Template{{
			Name: "Card 1",
			Front: `{{Question}}<br><br><div class="options">` +
				`A. {{OptionA}}<br>B. {{OptionB}}` +
				`{{#OptionC}}<br>C. {{OptionC}}{{/OptionC}}` +
				`{{#OptionD}}<br>D. {{OptionD}}{{/OptionD}}` +
				`{{#OptionE}}<br>E. {{OptionE}}{{/OptionE}}` +
				`{{#OptionF}}<br>F. {{OptionF}}{{/OptionF}}` +
				`</div>`,
			Back: `{{FrontSide}}<hr id="answer">{{Answer}}`,
		}},
		Styling: styling,
	},
}

// MaxOptions is how many option fields the mcq model carries.
const MaxOptions = 6

// ByType returns the schema for the given model type. The returned model
// is shared and must not be mutated.
func ByType(t domain.ModelType) (*NoteModel, error) {
	m, ok := registry[t]
	if !ok {
		return nil, fmt.Errorf("unknown model type %q", t)
	}
	return m, nil
}

// ByID returns the schema carrying the given model identifier.
func ByID(id int64) (*NoteModel, error) {
	for _, m := range registry {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, fmt.Errorf("unknown model id %d", id)
}
