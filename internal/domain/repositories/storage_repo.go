package repositories

import (
	"context"

	"media-pipeline/internal/domain/dto"
)

// ProgressFunc transfer sırasında onaylanan byte sayısıyla çağrılır.
type ProgressFunc func(sent, total int64)

// TransferPayload tek bir upload'ın storage'a giden kompozit içeriği.
type TransferPayload struct {
	Key         string // önerilen anahtar; HTTP backend sunucunun verdiğini döner
	Filename    string
	ContentType string
	Token       string // çağıranın bearer credential'ı
	Original    []byte
	Thumbnail   []byte
	Preview     []byte
	Metadata    []byte // serileştirilmiş metadata bloğu
}

type StorageStrategy interface {
	Transfer(ctx context.Context, payload *TransferPayload, onProgress ProgressFunc) (*dto.TransferResult, error)
	Exists(ctx context.Context, key string) bool
	Delete(ctx context.Context, key string) error
}
