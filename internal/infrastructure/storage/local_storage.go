package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"media-pipeline/internal/domain/dto"
	"media-pipeline/internal/domain/repositories"
)

// LocalStorage geliştirme ve testler için dosya sistemi backend'i.
type LocalStorage struct {
	BasePath string
}

func NewLocalStorage(basePath string) *LocalStorage {
	return &LocalStorage{BasePath: basePath}
}

func (l *LocalStorage) Transfer(ctx context.Context, payload *repositories.TransferPayload, onProgress repositories.ProgressFunc) (*dto.TransferResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := payload.Key
	total := int64(len(payload.Original) + len(payload.Thumbnail) + len(payload.Preview) + len(payload.Metadata))

	parts := []struct {
		relPath string
		data    []byte
	}{
		{filepath.Join("thumbnails", key), payload.Thumbnail},
		{filepath.Join("previews", key), payload.Preview},
		{filepath.Join("metadata", key+".json"), payload.Metadata},
		{filepath.Join("original", key), payload.Original},
	}

	var sent int64
	for _, part := range parts {
		fullPath := filepath.Join(l.BasePath, part.relPath)
		if err := l.writeFile(fullPath, part.data); err != nil {
			return nil, err
		}
		sent += int64(len(part.data))
		if onProgress != nil {
			onProgress(sent, total)
		}
	}

	originalPath := filepath.Join(l.BasePath, "original", key)
	return &dto.TransferResult{Key: key, URL: originalPath}, nil
}

func (l *LocalStorage) writeFile(fullPath string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(fullPath), os.ModePerm); err != nil {
		return fmt.Errorf("klasör oluşturulamadı: %w", err)
	}

	outFile, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("dosya oluşturulamadı: %w", err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("dosya yazılamadı: %w", err)
	}
	return nil
}

func (l *LocalStorage) Exists(ctx context.Context, key string) bool {
	_, err := os.Stat(filepath.Join(l.BasePath, "original", key))
	return err == nil
}

func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	paths := []string{
		filepath.Join(l.BasePath, "original", key),
		filepath.Join(l.BasePath, "thumbnails", key),
		filepath.Join(l.BasePath, "previews", key),
		filepath.Join(l.BasePath, "metadata", key+".json"),
	}

	var firstErr error
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
