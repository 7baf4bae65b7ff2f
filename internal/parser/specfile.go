package parser

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/ankismith/ankismith/internal/domain"
)

type state int

const (
	seeking state = iota
	reading
)

// ReadSpecFile reads a .cards file from the given path and extracts all
// card specifications in order.
func ReadSpecFile(path string) ([]domain.CardSpec, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadSpecs(file)
}

// ReadSpecs reads card specifications from r. A line holding @qa, @cloze
// or @mcq starts a card; the following lines up to the next marker or a
// lone "---" are its raw content. Lines starting with # are comments.
// Content lines are passed through untouched so that multi-line formats
// keep their structure.
func ReadSpecs(r io.Reader) ([]domain.CardSpec, error) {
	scanner := bufio.NewScanner(r)
	var specs []domain.CardSpec
	var currentType domain.ModelType
	var currentBlock []string
	currentState := seeking

	finishCard := func() {
		if currentState == reading {
			content := strings.TrimSpace(strings.Join(currentBlock, "\n"))
			specs = append(specs, domain.CardSpec{ModelType: currentType, Content: content})
		}
		currentBlock = nil
		currentState = seeking
	}

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if trimmed == "---" {
			finishCard()
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			// Comment lines are dropped everywhere, so card content
			// cannot start a line with #.
			continue
		}
		if t, ok := markerType(trimmed); ok {
			finishCard()
			currentType = t
			currentState = reading
			continue
		}
		if currentState == seeking {
			// Only comments and blank lines live between cards.
			continue
		}
		currentBlock = append(currentBlock, line)
	}
	finishCard()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return specs, nil
}

func markerType(line string) (domain.ModelType, bool) {
	if !strings.HasPrefix(line, "@") {
		return "", false
	}
	t := domain.ModelType(strings.TrimPrefix(line, "@"))
	if t.Valid() {
		return t, true
	}
	return "", false
}
