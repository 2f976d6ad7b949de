package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/justsurfingit/cover-letter-studio/internal/models"
)

// FileDownloader saves documents into a directory under their fixed filename.
// The bytes go to a temp file first, which is removed on every failure path.
type FileDownloader struct {
	Dir  string
	Path string // set after a successful Download
}

func (d *FileDownloader) Download(_ context.Context, doc *models.Document) (err error) {
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(d.Dir, ".download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(doc.Data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", doc.Filename, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", doc.Filename, err)
	}

	target := filepath.Join(d.Dir, doc.Filename)
	if err = os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("save %s: %w", doc.Filename, err)
	}
	d.Path = target
	return nil
}
