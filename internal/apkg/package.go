// Package apkg assembles parsed cards into an importable .apkg archive:
// a zip holding the collection database plus a media manifest.
package apkg

import (
	"encoding/hex"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ankismith/ankismith/internal/domain"
	"github.com/ankismith/ankismith/internal/ident"
	"github.com/ankismith/ankismith/internal/models"
)

// fieldSep joins field values inside a notes row. It may never appear in
// a field value.
const fieldSep = "\x1f"

// PackageExt is the file extension of the emitted archive.
const PackageExt = ".apkg"

// Package is the fully assembled, write-once artifact: one deck with its
// note models and an optional set of media files.
type Package struct {
	Deck       domain.Deck
	Models     []*models.NoteModel
	MediaFiles []string

	built time.Time
}

// Build resolves models and identifiers for the given cards and assembles
// a Package. Duplicate cards (same digest) collapse into one note; two
// distinct cards reducing to the same identifier fail the whole build with
// a *domain.CollisionError. An empty card sequence is valid and yields an
// empty deck.
func Build(deckName string, cards []domain.ParsedCard, mediaFiles ...string) (*Package, error) {
	name := strings.TrimSpace(deckName)
	if name == "" {
		return nil, &domain.FormatError{Reason: "deck name must be non-empty"}
	}

	deck := domain.Deck{
		ID:   ident.DeckID(name),
		Name: name,
	}

	seen := make(map[int64][32]byte, len(cards))
	usedModels := make(map[int64]*models.NoteModel)
	for _, card := range cards {
		model, err := models.ByType(card.ModelType)
		if err != nil {
			return nil, err
		}
		if err := checkFields(model, card.FieldValues); err != nil {
			return nil, err
		}

		id := ident.NoteID(card.Digest)
		if prev, ok := seen[id]; ok {
			if prev == card.Digest {
				continue // same logical note, keep the first
			}
			return nil, &domain.CollisionError{
				ID:      id,
				DigestA: hex.EncodeToString(prev[:]),
				DigestB: hex.EncodeToString(card.Digest[:]),
			}
		}
		seen[id] = card.Digest

		deck.Notes = append(deck.Notes, domain.Note{
			ID:          id,
			GUID:        hex.EncodeToString(card.Digest[:8]),
			ModelID:     model.ID,
			FieldValues: card.FieldValues,
		})
		usedModels[model.ID] = model
	}

	// Stable output regardless of input order.
	sort.Slice(deck.Notes, func(i, j int) bool { return deck.Notes[i].ID < deck.Notes[j].ID })

	pkg := &Package{
		Deck:       deck,
		MediaFiles: mediaFiles,
		built:      time.Now(),
	}
	for _, m := range usedModels {
		pkg.Models = append(pkg.Models, m)
	}
	sort.Slice(pkg.Models, func(i, j int) bool { return pkg.Models[i].ID < pkg.Models[j].ID })
	return pkg, nil
}

// Serialize builds a package from the cards and writes it under outDir,
// returning the path of the emitted archive.
func Serialize(deckName string, cards []domain.ParsedCard, outDir string) (string, error) {
	pkg, err := Build(deckName, cards)
	if err != nil {
		return "", err
	}
	path := filepath.Join(outDir, Filename(pkg.Deck.Name))
	if err := pkg.WriteFile(path); err != nil {
		return "", err
	}
	return path, nil
}

func checkFields(model *models.NoteModel, values []string) error {
	if len(values) != len(model.Fields) {
		return domain.NewFormatError("", "model %q expects %d fields, got %d",
			model.Name, len(model.Fields), len(values))
	}
	for i, v := range values {
		if strings.Contains(v, fieldSep) {
			return domain.NewFormatError("", "field %q contains the reserved separator U+001F", model.Fields[i])
		}
	}
	return nil
}

// CardCount reports how many rendered cards the package's notes produce.
// Cloze notes yield one card per distinct cloze index.
func (p *Package) CardCount() int {
	n := 0
	for _, note := range p.Deck.Notes {
		n += len(noteOrdinals(note))
	}
	return n
}

var clozeIndex = regexp.MustCompile(`\{\{c([0-9]+)::`)

// noteOrdinals lists the template ordinals a note renders: ordinal 0 for
// standard models, one ordinal per distinct cloze index (N-1) for cloze.
func noteOrdinals(note domain.Note) []int {
	model, err := models.ByID(note.ModelID)
	if err != nil || !model.Cloze {
		return []int{0}
	}
	seen := make(map[int]bool)
	var ords []int
	for _, m := range clozeIndex.FindAllStringSubmatch(note.FieldValues[0], -1) {
		idx := 0
		for _, c := range m[1] {
			idx = idx*10 + int(c-'0')
		}
		if idx >= 1 && !seen[idx] {
			seen[idx] = true
			ords = append(ords, idx-1)
		}
	}
	sort.Ints(ords)
	if len(ords) == 0 {
		// The parser guarantees at least one marker; keep a single
		// rendering if a note was built without going through it.
		ords = []int{0}
	}
	return ords
}

var unsafeFilename = regexp.MustCompile(`[\x00-\x1f /\\:*?"<>|]`)

// Filename derives the archive file name from a deck name, with
// path-unsafe characters replaced.
func Filename(deckName string) string {
	name := unsafeFilename.ReplaceAllString(strings.TrimSpace(deckName), "_")
	if name == "" {
		name = "deck"
	}
	return name + PackageExt
}
