package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"

	"media-pipeline/internal/domain/dto"
	"media-pipeline/internal/domain/repositories"
	"media-pipeline/internal/pkg/config"
)

// HTTPStorage upload endpointine tek multipart istek atan varsayılan backend.
// Timeout transport seviyesinde; pipeline kendi timeout'unu dayatmaz.
type HTTPStorage struct {
	uploadURL    string
	mediaBaseURL string
	client       *http.Client
}

func NewHTTPStorage(cfg config.EndpointConfig) *HTTPStorage {
	return &HTTPStorage{
		uploadURL:    cfg.UploadURL,
		mediaBaseURL: cfg.MediaBaseURL,
		client:       &http.Client{Timeout: 5 * time.Minute},
	}
}

type uploadEndpointResponse struct {
	Key string `json:"key"`
	ID  string `json:"id"`
	URL string `json:"url"`
}

func (s *HTTPStorage) Transfer(ctx context.Context, payload *repositories.TransferPayload, onProgress repositories.ProgressFunc) (*dto.TransferResult, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writeFilePart(writer, "original", payload.Filename, payload.ContentType, payload.Original); err != nil {
		return nil, err
	}
	if err := writeFilePart(writer, "thumbnail", "thumbnail.jpg", "image/jpeg", payload.Thumbnail); err != nil {
		return nil, err
	}
	if err := writeFilePart(writer, "preview", "preview.jpg", "image/jpeg", payload.Preview); err != nil {
		return nil, err
	}
	if err := writer.WriteField("metadata", string(payload.Metadata)); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	total := int64(body.Len())
	reader := &progressReader{r: body, total: total, onProgress: onProgress}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.uploadURL, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if payload.Token != "" {
		req.Header.Set("Authorization", "Bearer "+payload.Token)
	}
	req.ContentLength = total

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload isteği başarısız: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("upload endpoint %d döndü", resp.StatusCode)
	}

	var parsed uploadEndpointResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("upload cevabı parse edilemedi: %w", err)
	}

	key := parsed.Key
	if key == "" {
		key = parsed.ID
	}
	if key == "" {
		return nil, fmt.Errorf("upload endpoint object key döndürmedi")
	}

	return &dto.TransferResult{Key: key, URL: parsed.URL}, nil
}

// Exists hafif HEAD probe; 2xx = mevcut, diğer her şey = yok.
func (s *HTTPStorage) Exists(ctx context.Context, key string) bool {
	probeURL := fmt.Sprintf("%s/media/%s", s.mediaBaseURL, url.PathEscape(key))

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, probeURL, nil)
	if err != nil {
		return false
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func (s *HTTPStorage) Delete(ctx context.Context, key string) error {
	deleteURL := fmt.Sprintf("%s/media/%s", s.mediaBaseURL, url.PathEscape(key))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, deleteURL, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("delete endpoint %d döndü", resp.StatusCode)
	}
	return nil
}

func writeFilePart(writer *multipart.Writer, field, filename, contentType string, data []byte) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = part.Write(data)
	return err
}
