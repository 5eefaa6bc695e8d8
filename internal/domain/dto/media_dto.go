package dto

import "time"

// DerivativeMeta orijinal ve türev boyutları. Video için Duration saniyedir.
type DerivativeMeta struct {
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	ThumbnailWidth  int     `json:"thumbnail_width"`
	ThumbnailHeight int     `json:"thumbnail_height"`
	PreviewWidth    int     `json:"preview_width"`
	PreviewHeight   int     `json:"preview_height"`
	AspectRatio     float64 `json:"aspect_ratio"`
	Duration        float64 `json:"duration,omitempty"`
}

// DerivativeSet orijinal bytelar (kopyalanmaz, referans geçer) + türevler.
type DerivativeSet struct {
	Original  []byte
	Thumbnail []byte
	Preview   []byte
	Meta      DerivativeMeta
}

// StoredMediaRecord harici metadata store'a yazılan açıklayıcı kayıt.
// Pipeline bunu doğrulanmış transferden sonra bir kez yazar.
type StoredMediaRecord struct {
	Key         string         `json:"key"`
	ContentType string         `json:"content_type"`
	MediaType   string         `json:"media_type"` // "image" | "video"
	Filename    string         `json:"filename"`
	Description string         `json:"description,omitempty"`
	Category    string         `json:"category,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Visibility  string         `json:"visibility"`
	Size        int64          `json:"size"`
	Hash        string         `json:"hash,omitempty"`
	Media       DerivativeMeta `json:"media"`
	UploadedAt  time.Time      `json:"uploaded_at"`
}

// TransferResult storage backend'in döndürdüğü anahtar ve erişim adresi.
type TransferResult struct {
	Key string `json:"key"`
	URL string `json:"url,omitempty"`
}
