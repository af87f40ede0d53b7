package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Pack zips the mirrored tree rooted at outputRoot into zipPath. Entry
// names are slash-separated paths relative to the root, so unzipping
// reproduces the tree as written.
func Pack(outputRoot, zipPath string) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}

	w := zip.NewWriter(out)

	err = filepath.WalkDir(outputRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(outputRoot, path)
		if err != nil {
			return err
		}

		entry, err := w.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(entry, f)
		return err
	})
	if err != nil {
		w.Close()
		out.Close()
		return fmt.Errorf("failed to pack %s: %w", outputRoot, err)
	}

	if err := w.Close(); err != nil {
		out.Close()
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return out.Close()
}

// Cleanup removes the mirrored tree after packaging.
func Cleanup(outputRoot string) error {
	if err := os.RemoveAll(outputRoot); err != nil {
		return fmt.Errorf("failed to remove %s: %w", outputRoot, err)
	}
	return nil
}
