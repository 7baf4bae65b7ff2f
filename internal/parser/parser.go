// Package parser turns raw card specifications into normalized parsed
// cards. Parsing is pure: the same spec always yields the same result, and
// only structural problems are rejected, never content quality.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ankismith/ankismith/internal/domain"
	"github.com/ankismith/ankismith/internal/ident"
	"github.com/ankismith/ankismith/internal/models"
)

// Separator splits the parts of qa and mcq content.
const Separator = "||"

var clozeMarker = regexp.MustCompile(`\{\{c([0-9]+)::[^{}]*\}\}`)

// Parse validates spec.Content against the grammar of its model type and
// returns the normalized card. Malformed content yields a
// *domain.FormatError.
func Parse(spec domain.CardSpec) (domain.ParsedCard, error) {
	var (
		fields []string
		err    error
	)
	switch spec.ModelType {
	case domain.ModelQA:
		fields, err = parseQA(spec.Content)
	case domain.ModelCloze:
		fields, err = parseCloze(spec.Content)
	case domain.ModelMCQ:
		fields, err = parseMCQ(spec.Content)
	default:
		err = domain.NewFormatError(spec.ModelType, "unknown model type")
	}
	if err != nil {
		return domain.ParsedCard{}, err
	}
	return domain.ParsedCard{
		ModelType:   spec.ModelType,
		FieldValues: fields,
		Digest:      ident.Digest(spec.ModelType, fields),
	}, nil
}

func parseQA(content string) ([]string, error) {
	parts := strings.Split(content, Separator)
	if len(parts) != 2 {
		return nil, domain.NewFormatError(domain.ModelQA,
			"content must contain exactly one %q separating question and answer", Separator)
	}
	question := strings.TrimSpace(parts[0])
	answer := strings.TrimSpace(parts[1])
	if question == "" || answer == "" {
		return nil, domain.NewFormatError(domain.ModelQA, "question and answer must both be non-empty")
	}
	return []string{question, answer}, nil
}

func parseCloze(content string) ([]string, error) {
	matches := clozeMarker.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return nil, domain.NewFormatError(domain.ModelCloze,
			"content contains no {{cN::...}} cloze marker")
	}
	for _, m := range matches {
		index, convErr := strconv.Atoi(content[m[2]:m[3]])
		if convErr != nil || index < 1 {
			return nil, domain.NewFormatError(domain.ModelCloze,
				"cloze index must be a positive integer, got %q", content[m[2]:m[3]])
		}
	}
	// Every "{{c" opener must belong to a well-formed marker; an opener
	// outside all matched spans is an unterminated or malformed marker.
	for pos := 0; ; {
		i := strings.Index(content[pos:], "{{c")
		if i < 0 {
			break
		}
		pos += i
		covered := false
		for _, m := range matches {
			if pos >= m[0] && pos < m[1] {
				covered = true
				break
			}
		}
		if !covered {
			return nil, domain.NewFormatError(domain.ModelCloze,
				"unterminated or malformed cloze marker at offset %d", pos)
		}
		pos += len("{{c")
	}
	// The field keeps the markers verbatim; the template renders them.
	return []string{content}, nil
}

func parseMCQ(content string) ([]string, error) {
	parts := strings.Split(content, Separator)
	if len(parts) != 3 {
		return nil, domain.NewFormatError(domain.ModelMCQ,
			"content must contain exactly two %q separating question, options, and answer", Separator)
	}
	question := strings.TrimSpace(parts[0])
	answer := strings.TrimSpace(parts[2])
	if question == "" || answer == "" {
		return nil, domain.NewFormatError(domain.ModelMCQ, "question and answer must both be non-empty")
	}

	var options []string
	for _, line := range strings.Split(parts[1], "\n") {
		if opt := strings.TrimSpace(line); opt != "" {
			options = append(options, opt)
		}
	}
	if len(options) < 2 {
		return nil, domain.NewFormatError(domain.ModelMCQ, "need at least 2 options, got %d", len(options))
	}
	if len(options) > models.MaxOptions {
		return nil, domain.NewFormatError(domain.ModelMCQ,
			"need at most %d options, got %d", models.MaxOptions, len(options))
	}
	matched := false
	for _, opt := range options {
		if opt == answer {
			matched = true
			break
		}
	}
	if !matched {
		// Ambiguous correctness is rejected rather than guessed.
		return nil, domain.NewFormatError(domain.ModelMCQ, "answer %q does not match any option", answer)
	}

	fields := make([]string, 0, models.MaxOptions+2)
	fields = append(fields, question)
	fields = append(fields, options...)
	for i := len(options); i < models.MaxOptions; i++ {
		fields = append(fields, "")
	}
	return append(fields, answer), nil
}
