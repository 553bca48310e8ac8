// Package backup writes xz-compressed snapshots of the database file.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ulikunitz/xz"
)

// Create copies the database at dbPath into destDir as an xz-compressed
// snapshot and returns the snapshot path. The caller should quiesce
// writers first; SQLite keeps the file consistent for readers, so a
// snapshot taken mid-write is at worst slightly stale.
func Create(dbPath, destDir string) (string, error) {
	src, err := os.Open(dbPath)
	if err != nil {
		return "", fmt.Errorf("open database: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s.xz",
		filepath.Base(dbPath), time.Now().UTC().Format("20060102-150405"))
	destPath := filepath.Join(destDir, name)

	dst, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create snapshot: %w", err)
	}
	defer dst.Close()

	zw, err := xz.NewWriter(dst)
	if err != nil {
		return "", fmt.Errorf("start compressor: %w", err)
	}
	if _, err := io.Copy(zw, src); err != nil {
		return "", fmt.Errorf("compress snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("finish snapshot: %w", err)
	}
	return destPath, nil
}

// Restore decompresses a snapshot back into a database file.
func Restore(snapshotPath, dbPath string) error {
	src, err := os.Open(snapshotPath)
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer src.Close()

	zr, err := xz.NewReader(src)
	if err != nil {
		return fmt.Errorf("start decompressor: %w", err)
	}

	dst, err := os.Create(dbPath)
	if err != nil {
		return fmt.Errorf("create database file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, zr); err != nil {
		return fmt.Errorf("decompress snapshot: %w", err)
	}
	return nil
}
