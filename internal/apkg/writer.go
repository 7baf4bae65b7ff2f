package apkg

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// collectionName is the archive entry holding the collection database.
const collectionName = "collection.anki2"

// manifestName is the archive entry mapping media entry indices to
// filenames.
const manifestName = "media"

// WriteFile emits the package archive at path. The archive is assembled
// in temporary locations and renamed into place, so a failure never
// leaves a partial or corrupt file at the destination.
func (p *Package) WriteFile(path string) error {
	workDir, err := os.MkdirTemp("", "ankismith-*")
	if err != nil {
		return fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	dbPath := filepath.Join(workDir, collectionName)
	if err := writeCollection(dbPath, p); err != nil {
		return err
	}

	destDir := filepath.Dir(path)
	tmp, err := os.CreateTemp(destDir, ".ankismith-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary archive: %w", err)
	}
	tmpPath := tmp.Name()

	if err := p.writeArchive(tmp, dbPath); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush archive: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to place archive at %s: %w", path, err)
	}
	return nil
}

func (p *Package) writeArchive(w io.Writer, dbPath string) error {
	zw := zip.NewWriter(w)

	if err := addFileEntry(zw, collectionName, dbPath); err != nil {
		return err
	}

	manifest := make(map[string]string, len(p.MediaFiles))
	for i, mediaPath := range p.MediaFiles {
		entry := strconv.Itoa(i)
		manifest[entry] = filepath.Base(mediaPath)
		if err := addFileEntry(zw, entry, mediaPath); err != nil {
			return err
		}
	}
	blob, err := json.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("failed to encode media manifest: %w", err)
	}
	entry, err := zw.Create(manifestName)
	if err != nil {
		return fmt.Errorf("failed to create manifest entry: %w", err)
	}
	if _, err := entry.Write(blob); err != nil {
		return fmt.Errorf("failed to write manifest entry: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}

func addFileEntry(zw *zip.Writer, name, srcPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", srcPath, err)
	}
	defer src.Close()

	entry, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create archive entry %s: %w", name, err)
	}
	if _, err := io.Copy(entry, src); err != nil {
		return fmt.Errorf("failed to write archive entry %s: %w", name, err)
	}
	return nil
}
