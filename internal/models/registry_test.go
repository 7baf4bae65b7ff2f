package models

import (
	"strings"
	"testing"

	"github.com/ankismith/ankismith/internal/domain"
)

func TestByType(t *testing.T) {
	testCases := []struct {
		modelType      domain.ModelType
		expectedID     int64
		expectedFields int
		cloze          bool
	}{
		{domain.ModelQA, 1607392319, 2, false},
		{domain.ModelCloze, 1607392320, 1, true},
		{domain.ModelMCQ, 1607392321, MaxOptions + 2, false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.modelType), func(t *testing.T) {
			m, err := ByType(tc.modelType)
			if err != nil {
				t.Fatalf("ByType() returned an unexpected error: %v", err)
			}
			// Hand-assigned ids must never change, or re-imports would
			// duplicate note types in the target application.
			if m.ID != tc.expectedID {
				t.Errorf("Expected model id %d, got %d", tc.expectedID, m.ID)
			}
			if len(m.Fields) != tc.expectedFields {
				t.Errorf("Expected %d fields, got %d", tc.expectedFields, len(m.Fields))
			}
			if m.Cloze != tc.cloze {
				t.Errorf("Expected cloze=%v", tc.cloze)
			}
			if len(m.Templates) == 0 {
				t.Error("Expected at least one template")
			}
		})
	}
}

func TestByTypeUnknown(t *testing.T) {
	if _, err := ByType("truefalse"); err == nil {
		t.Error("Expected an error for an unknown model type")
	}
}

func TestByID(t *testing.T) {
	m, err := ByID(1607392320)
	if err != nil {
		t.Fatalf("ByID() returned an unexpected error: %v", err)
	}
	if !m.Cloze {
		t.Error("Expected 1607392320 to be the cloze model")
	}
	if _, err := ByID(42); err == nil {
		t.Error("Expected an error for an unknown model id")
	}
}

func TestTemplatesReferenceModelFields(t *testing.T) {
	for _, modelType := range []domain.ModelType{domain.ModelQA, domain.ModelCloze, domain.ModelMCQ} {
		m, err := ByType(modelType)
		if err != nil {
			t.Fatalf("ByType() returned an unexpected error: %v", err)
		}
		rendered := false
		for _, tmpl := range m.Templates {
			for _, field := range m.Fields {
				if strings.Contains(tmpl.Front, field) || strings.Contains(tmpl.Back, field) {
					rendered = true
				}
			}
		}
		if !rendered {
			t.Errorf("Expected the %s templates to reference model fields", modelType)
		}
	}
}
