package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"media-pipeline/internal/domain/dto"
	"media-pipeline/internal/domain/repositories"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Storage struct {
	client     *s3.Client
	bucketName string
	region     string
}

func NewS3Storage(bucketName, region string) (*S3Storage, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("AWS config yüklenemedi: %w", err)
	}
	return &S3Storage{
		client:     s3.NewFromConfig(cfg),
		bucketName: bucketName,
		region:     region,
	}, nil
}

// Transfer türevleri ve metadata'yı önce, orijinali en son yazar; progress
// orijinalin gönderimi üzerinden raporlanır (toplamın ezici kısmı odur).
func (s *S3Storage) Transfer(ctx context.Context, payload *repositories.TransferPayload, onProgress repositories.ProgressFunc) (*dto.TransferResult, error) {
	key := payload.Key
	total := int64(len(payload.Original) + len(payload.Thumbnail) + len(payload.Preview) + len(payload.Metadata))

	smallParts := []struct {
		key         string
		contentType string
		data        []byte
	}{
		{"thumbnails/" + key, "image/jpeg", payload.Thumbnail},
		{"previews/" + key, "image/jpeg", payload.Preview},
		{"metadata/" + key + ".json", "application/json", payload.Metadata},
	}

	var sent int64
	for _, part := range smallParts {
		if err := s.put(ctx, part.key, part.contentType, bytes.NewReader(part.data)); err != nil {
			return nil, err
		}
		sent += int64(len(part.data))
		if onProgress != nil {
			onProgress(sent, total)
		}
	}

	reader := &progressReader{
		r:          bytes.NewReader(payload.Original),
		total:      total,
		offset:     sent,
		onProgress: onProgress,
	}
	if err := s.put(ctx, "original/"+key, payload.ContentType, reader); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/original/%s", s.bucketName, s.region, key)
	return &dto.TransferResult{Key: key, URL: url}, nil
}

func (s *S3Storage) put(ctx context.Context, key, contentType string, body io.Reader) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("S3 upload hatası: %w", err)
	}
	return nil
}

func (s *S3Storage) Exists(ctx context.Context, key string) bool {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String("original/" + key),
	})
	return err == nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	keys := []string{"original/" + key, "thumbnails/" + key, "previews/" + key, "metadata/" + key + ".json"}

	var firstErr error
	for _, k := range keys {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucketName),
			Key:    aws.String(k),
		})
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
