package parser

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ankismith/ankismith/internal/domain"
)

func TestReadSpecs(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []domain.CardSpec
	}{
		{
			name: "single qa card",
			input: `@qa
What is Go?||A programming language.
`,
			expected: []domain.CardSpec{
				{ModelType: domain.ModelQA, Content: "What is Go?||A programming language."},
			},
		},
		{
			name: "cards separated by ---",
			input: `@qa
Q1||A1
---
@cloze
{{c1::hidden}} text
---
`,
			expected: []domain.CardSpec{
				{ModelType: domain.ModelQA, Content: "Q1||A1"},
				{ModelType: domain.ModelCloze, Content: "{{c1::hidden}} text"},
			},
		},
		{
			name: "marker starts a new card without separator",
			input: `@qa
Q1||A1
@qa
Q2||A2
`,
			expected: []domain.CardSpec{
				{ModelType: domain.ModelQA, Content: "Q1||A1"},
				{ModelType: domain.ModelQA, Content: "Q2||A2"},
			},
		},
		{
			name: "multi-line mcq content keeps its structure",
			input: `@mcq
Largest planet?||Mars
Jupiter
Venus||Jupiter
`,
			expected: []domain.CardSpec{
				{ModelType: domain.ModelMCQ, Content: "Largest planet?||Mars\nJupiter\nVenus||Jupiter"},
			},
		},
		{
			name: "comments and blank lines between cards are ignored",
			input: `# deck material
@qa
Q||A

# trailing comment
`,
			expected: []domain.CardSpec{
				{ModelType: domain.ModelQA, Content: "Q||A"},
			},
		},
		{
			name:     "unknown marker lines are not cards",
			input:    "@truefalse\nsome content\n",
			expected: nil,
		},
		{
			name:     "no cards at all",
			input:    "just prose, no markers",
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			specs, err := ReadSpecs(strings.NewReader(tc.input))
			if err != nil {
				t.Fatalf("ReadSpecs() returned an unexpected error: %v", err)
			}
			if !reflect.DeepEqual(specs, tc.expected) {
				t.Errorf("Expected specs %v, got %v", tc.expected, specs)
			}
		})
	}
}
