package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ankismith/ankismith/internal/apkg"
	"github.com/ankismith/ankismith/internal/config"
	"github.com/ankismith/ankismith/internal/domain"
	"github.com/ankismith/ankismith/internal/gitsource"
	"github.com/ankismith/ankismith/internal/parser"
)

func main() {
	flags := pflag.NewFlagSet("ankismith", pflag.ExitOnError)
	flags.String("config", "ankismith.yaml", "Path to the YAML config file")
	flags.String("deck", "", "Name of the deck to build")
	flags.String("out", ".", "Directory the package is written to")
	flags.StringSlice("sources", []string{"."}, "Directories or git URLs holding .cards files")
	flags.Bool("strict", false, "Abort on the first malformed card instead of skipping it")
	flags.String("cache-dir", "repos", "Directory git sources are checked out under")
	flags.Parse(os.Args[1:])

	cfg, err := config.Load(flags)
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	specs, err := collectSpecs(cfg)
	if err != nil {
		slog.Error("Failed to collect card specs", "error", err)
		os.Exit(1)
	}
	slog.Info("Collected card specs", "deck", cfg.Deck, "specs", len(specs))

	var cards []domain.ParsedCard
	var skipped int
	for _, spec := range specs {
		card, parseErr := parser.Parse(spec)
		if parseErr != nil {
			var formatErr *domain.FormatError
			if errors.As(parseErr, &formatErr) && !cfg.Strict {
				slog.Warn("Skipping malformed card", "error", parseErr)
				skipped++
				continue
			}
			slog.Error("Card rejected", "error", parseErr)
			os.Exit(1)
		}
		cards = append(cards, card)
	}

	pkg, err := apkg.Build(cfg.Deck, cards)
	if err != nil {
		slog.Error("Package build failed", "error", err)
		os.Exit(1)
	}

	path := filepath.Join(cfg.Out, apkg.Filename(pkg.Deck.Name))
	if err := pkg.WriteFile(path); err != nil {
		slog.Error("Package write failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Package written",
		"path", path,
		"notes", len(pkg.Deck.Notes),
		"cards", pkg.CardCount(),
		"skipped", skipped,
	)
}

// collectSpecs resolves each configured source to a local directory and
// gathers the card specs of every .cards file beneath it, in walk order.
func collectSpecs(cfg *config.Config) ([]domain.CardSpec, error) {
	var specs []domain.CardSpec
	for _, source := range cfg.Sources {
		dir := source
		if gitsource.IsGitURL(source) {
			checkout, err := gitsource.Fetch(cfg.CacheDir, source)
			if err != nil {
				return nil, err
			}
			dir = checkout
		}

		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".cards") {
				return nil
			}
			fileSpecs, readErr := parser.ReadSpecFile(path)
			if readErr != nil {
				return readErr
			}
			specs = append(specs, fileSpecs...)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return specs, nil
}
