package apkg

import (
	"crypto/sha1"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// writeCollection creates the collection database at path and fills it
// with the package's deck, notes, and cards.
func writeCollection(path string, p *Package) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to create collection database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply collection schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin collection transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertCol(tx, p); err != nil {
		return err
	}
	if err := insertNotes(tx, p); err != nil {
		return err
	}
	if err := insertCards(tx, p); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit collection: %w", err)
	}
	return nil
}

func insertCol(tx *sql.Tx, p *Package) error {
	modelsBlob, err := modelsJSON(p)
	if err != nil {
		return err
	}
	decksBlob, err := decksJSON(p)
	if err != nil {
		return err
	}
	confBlob, err := confJSON(p)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		VALUES (1, ?, ?, ?, 11, 0, 0, 0, ?, ?, ?, ?, '{}')
	`,
		p.built.Unix(),
		p.built.UnixMilli(),
		p.built.UnixMilli(),
		confBlob,
		modelsBlob,
		decksBlob,
		dconfJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert col row: %w", err)
	}
	return nil
}

func insertNotes(tx *sql.Tx, p *Package) error {
	stmt, err := tx.Prepare(`
		INSERT INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
		VALUES (?, ?, ?, ?, -1, ?, ?, ?, ?, 0, '')
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare notes insert: %w", err)
	}
	defer stmt.Close()

	for _, note := range p.Deck.Notes {
		sortField := stripHTML(note.FieldValues[0])
		_, err := stmt.Exec(
			note.ID,
			note.GUID,
			note.ModelID,
			p.built.Unix(),
			tagsColumn(note.Tags),
			strings.Join(note.FieldValues, fieldSep),
			sortField,
			fieldChecksum(sortField),
		)
		if err != nil {
			return fmt.Errorf("failed to insert note %d: %w", note.ID, err)
		}
	}
	return nil
}

func insertCards(tx *sql.Tx, p *Package) error {
	stmt, err := tx.Prepare(`
		INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due,
		                   ivl, factor, reps, lapses, left, odue, odid, flags, data)
		VALUES (?, ?, ?, ?, ?, -1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, '')
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare cards insert: %w", err)
	}
	defer stmt.Close()

	// Notes are sorted by id, so sequential card ids are reproducible.
	cardID := int64(1)
	for _, note := range p.Deck.Notes {
		for _, ord := range noteOrdinals(note) {
			_, err := stmt.Exec(cardID, note.ID, p.Deck.ID, ord, p.built.Unix())
			if err != nil {
				return fmt.Errorf("failed to insert card %d for note %d: %w", cardID, note.ID, err)
			}
			cardID++
		}
	}
	return nil
}

// tagsColumn renders a tag set the way the importer expects: space
// separated with surrounding spaces, or empty.
func tagsColumn(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return " " + strings.Join(tags, " ") + " "
}

var htmlTag = regexp.MustCompile(`<[^>]+>`)

func stripHTML(s string) string {
	return htmlTag.ReplaceAllString(s, "")
}

// fieldChecksum is the importer's note checksum: the first 8 hex digits
// of the SHA-1 of the sort field, as an integer.
func fieldChecksum(sortField string) int64 {
	sum := sha1.Sum([]byte(sortField))
	return int64(binary.BigEndian.Uint32(sum[:4]))
}

type ankiField struct {
	Name   string   `json:"name"`
	Ord    int      `json:"ord"`
	Sticky bool     `json:"sticky"`
	RTL    bool     `json:"rtl"`
	Font   string   `json:"font"`
	Size   int      `json:"size"`
	Media  []string `json:"media"`
}

type ankiTemplate struct {
	Name  string `json:"name"`
	Ord   int    `json:"ord"`
	Qfmt  string `json:"qfmt"`
	Afmt  string `json:"afmt"`
	Bqfmt string `json:"bqfmt"`
	Bafmt string `json:"bafmt"`
	Did   *int64 `json:"did"`
}

type ankiModel struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Type      int            `json:"type"`
	Mod       int64          `json:"mod"`
	Usn       int            `json:"usn"`
	SortField int            `json:"sortf"`
	DeckID    int64          `json:"did"`
	Templates []ankiTemplate `json:"tmpls"`
	Fields    []ankiField    `json:"flds"`
	CSS       string         `json:"css"`
	LatexPre  string         `json:"latexPre"`
	LatexPost string         `json:"latexPost"`
	Req       [][]any        `json:"req,omitempty"`
	Tags      []string       `json:"tags"`
	Vers      []string       `json:"vers"`
}

type ankiDeck struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Desc             string `json:"desc"`
	Mod              int64  `json:"mod"`
	Usn              int    `json:"usn"`
	Collapsed        bool   `json:"collapsed"`
	BrowserCollapsed bool   `json:"browserCollapsed"`
	NewToday         [2]int `json:"newToday"`
	RevToday         [2]int `json:"revToday"`
	LrnToday         [2]int `json:"lrnToday"`
	TimeToday        [2]int `json:"timeToday"`
	Dyn              int    `json:"dyn"`
	ExtendNew        int    `json:"extendNew"`
	ExtendRev        int    `json:"extendRev"`
	Conf             int    `json:"conf"`
}

const (
	latexPre = "\\documentclass[12pt]{article}\n\\special{papersize=3in,5in}\n" +
		"\\usepackage[utf8]{inputenc}\n\\usepackage{amssymb,amsmath}\n" +
		"\\pagestyle{empty}\n\\setlength{\\parindent}{0in}\n\\begin{document}\n"
	latexPost = "\\end{document}"
)

// modelsJSON renders the models logical table: one entry per distinct
// note model actually used by the deck, keyed by model id.
func modelsJSON(p *Package) (string, error) {
	out := make(map[string]ankiModel, len(p.Models))
	for _, m := range p.Models {
		am := ankiModel{
			ID:        m.ID,
			Name:      m.Name,
			Mod:       p.built.Unix(),
			Usn:       -1,
			DeckID:    p.Deck.ID,
			CSS:       m.Styling,
			LatexPre:  latexPre,
			LatexPost: latexPost,
			Tags:      []string{},
			Vers:      []string{},
		}
		if m.Cloze {
			am.Type = 1
		} else {
			// The question side always renders the first field.
			am.Req = [][]any{{0, "all", []int{0}}}
		}
		for i, name := range m.Fields {
			am.Fields = append(am.Fields, ankiField{
				Name:  name,
				Ord:   i,
				Font:  "Arial",
				Size:  20,
				Media: []string{},
			})
		}
		for i, tmpl := range m.Templates {
			am.Templates = append(am.Templates, ankiTemplate{
				Name: tmpl.Name,
				Ord:  i,
				Qfmt: tmpl.Front,
				Afmt: tmpl.Back,
			})
		}
		out[strconv.FormatInt(m.ID, 10)] = am
	}
	blob, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("failed to encode models: %w", err)
	}
	return string(blob), nil
}

func decksJSON(p *Package) (string, error) {
	defaultDeck := ankiDeck{ID: 1, Name: "Default", Conf: 1}
	deck := ankiDeck{
		ID:   p.Deck.ID,
		Name: p.Deck.Name,
		Mod:  p.built.Unix(),
		Usn:  -1,
		Conf: 1,
	}
	blob, err := json.Marshal(map[string]ankiDeck{
		"1": defaultDeck,
		strconv.FormatInt(p.Deck.ID, 10): deck,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode decks: %w", err)
	}
	return string(blob), nil
}

func confJSON(p *Package) (string, error) {
	conf := map[string]any{
		"nextPos":       1,
		"estTimes":      true,
		"activeDecks":   []int64{1},
		"sortType":      "noteFld",
		"timeLim":       0,
		"sortBackwards": false,
		"addToCur":      true,
		"curDeck":       1,
		"newBury":       true,
		"newSpread":     0,
		"dueCounts":     true,
		"collapseTime":  1200,
	}
	if len(p.Models) > 0 {
		conf["curModel"] = strconv.FormatInt(p.Models[0].ID, 10)
	}
	blob, err := json.Marshal(conf)
	if err != nil {
		return "", fmt.Errorf("failed to encode conf: %w", err)
	}
	return string(blob), nil
}
