package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"media-pipeline/internal/domain/dto"
	consts "media-pipeline/pkg/constants"

	"github.com/go-redis/redis/v8"
)

// CompletedEvent doğrulanmış her upload için yayınlanır; rozet/bildirim gibi
// "upload succeeded"e tepki veren tüketiciler bu kuyruğu dinler.
type CompletedEvent struct {
	UploadID    string    `json:"upload_id"`
	Key         string    `json:"key"`
	URL         string    `json:"url,omitempty"`
	MediaType   string    `json:"media_type"`
	Size        int64     `json:"size"`
	CompletedAt time.Time `json:"completed_at"`
}

// MetadataRetryJob doğrulanmış transferden sonra metadata yazımı başarısız
// olursa kuyruğa atılır; cmd/worker tüketir.
type MetadataRetryJob struct {
	Key      string                 `json:"key"`
	Record   *dto.StoredMediaRecord `json:"record"`
	Token    string                 `json:"token,omitempty"`
	Attempts int                    `json:"attempts"`
}

type Publisher struct {
	rdb *redis.Client
}

// NewPublisher rdb nil olabilir; o durumda yayın sessizce atlanır
// (Redis opsiyonel bir collaborator).
func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

func (p *Publisher) PublishCompleted(ctx context.Context, event CompletedEvent) error {
	return p.push(ctx, consts.QueueCompleted, event)
}

func (p *Publisher) PublishMetadataRetry(ctx context.Context, job MetadataRetryJob) error {
	return p.push(ctx, consts.QueueMetadataRetry, job)
}

func (p *Publisher) push(ctx context.Context, queue string, payload interface{}) error {
	if p == nil || p.rdb == nil {
		return nil
	}

	serialized, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("event serileştirilemedi: %w", err)
	}
	return p.rdb.LPush(ctx, queue, serialized).Err()
}

func DeserializeRetryJob(data string) (*MetadataRetryJob, error) {
	var job MetadataRetryJob
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		return nil, fmt.Errorf("retry job parse edilemedi: %w", err)
	}
	return &job, nil
}
