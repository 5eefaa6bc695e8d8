package usecases

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"media-pipeline/internal/domain/dto"
	"media-pipeline/internal/pkg/config"
	"media-pipeline/pkg/errors"
)

// MetadataService açıklayıcı kaydı harici metadata store'a yazar. Transfer
// adımına transaction ile bağlı değildir; hata PersistenceError olarak ayrı
// surface edilir ki çağıran dosyayı baştan yüklemek yerine sadece bu yazımı
// tekrarlayabilsin.
type MetadataService interface {
	Persist(ctx context.Context, key string, record *dto.StoredMediaRecord, token string) (*dto.StoredMediaRecord, error)
}

type metadataService struct {
	apiBaseURL string
	client     *http.Client
}

func NewMetadataService(cfg config.EndpointConfig) MetadataService {
	return &metadataService{
		apiBaseURL: cfg.APIBaseURL,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Persist aynı key/metadata çifti için idempotenttir: PUT var olan kaydın
// üzerine yazar, kopya üretmez.
func (s *metadataService) Persist(ctx context.Context, key string, record *dto.StoredMediaRecord, token string) (*dto.StoredMediaRecord, error) {
	record.Key = key

	body, err := json.Marshal(record)
	if err != nil {
		return nil, errors.ErrPersistence(err)
	}

	endpoint := fmt.Sprintf("%s/media/%s/metadata", s.apiBaseURL, url.PathEscape(key))

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.ErrPersistence(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.ErrPersistence(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.ErrPersistence(fmt.Errorf("metadata endpoint %d döndü", resp.StatusCode))
	}

	// Sunucu kaydı echo ediyorsa onu kullan, etmiyorsa gönderileni döndür
	var stored dto.StoredMediaRecord
	if decodeErr := json.NewDecoder(resp.Body).Decode(&stored); decodeErr == nil && stored.Key != "" {
		return &stored, nil
	}
	return record, nil
}
