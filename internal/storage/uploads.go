package storage

import (
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// SaveUpload writes an uploaded file into dir under its client-provided
// filename and returns the local path. Distinct client filenames are the only
// collision protection; the file is expected to be removed right after
// processing.
func SaveUpload(file *multipart.FileHeader, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst := filepath.Join(dir, filepath.Base(file.Filename))
	if err := saveMultipartFile(file, dst); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return dst, nil
}

// SaveTemp writes an uploaded file to a uuid-prefixed path under dir (the OS
// temp directory when dir is empty) and returns the local path.
func SaveTemp(file *multipart.FileHeader, dir string) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	dst := filepath.Join(dir, uuid.NewString()+"_"+filepath.Base(file.Filename))
	if err := saveMultipartFile(file, dst); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return dst, nil
}

// Remove deletes a local upload. Deletion failures are logged and swallowed:
// cleanup must never fail a request that already has a result.
func Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("[Storage] Failed to remove %s: %v", path, err)
	}
}

/* helper */
func saveMultipartFile(file *multipart.FileHeader, dst string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = out.ReadFrom(src)
	return err
}
