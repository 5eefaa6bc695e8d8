package usecases

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"media-pipeline/internal/domain/dto"
	"media-pipeline/internal/domain/repositories"
	"media-pipeline/internal/infrastructure/events"
	"media-pipeline/internal/infrastructure/processor"
	"media-pipeline/internal/infrastructure/progress"
	"media-pipeline/internal/pkg/config"
	consts "media-pipeline/pkg/constants"
	"media-pipeline/pkg/errors"
	pkgfile "media-pipeline/pkg/file"

	"github.com/google/uuid"
)

type UploadService interface {
	Validate(file *dto.CandidateFile) *dto.ValidationResult
	Upload(ctx context.Context, file *dto.CandidateFile, meta *dto.UploadMetadataDTO, token string) (*dto.UploadResult, error)
	UploadWithID(ctx context.Context, uploadID string, file *dto.CandidateFile, meta *dto.UploadMetadataDTO, token string) (*dto.UploadResult, error)
	UploadAll(ctx context.Context, files []*dto.CandidateFile, meta *dto.UploadMetadataDTO, token string) *dto.BatchResult
	Progress(uploadID string) (dto.ProgressEntry, bool)
	ClearProgress(uploadID string)
}

type uploadService struct {
	validator *Validator
	images    *processor.ImageProcessor
	videos    *processor.VideoProcessor
	storage   repositories.StorageStrategy
	registry  *progress.Registry
	events    *events.Publisher
}

func NewUploadService(cfg *config.Config, storage repositories.StorageStrategy, registry *progress.Registry, publisher *events.Publisher) UploadService {
	return &uploadService{
		validator: NewValidator(cfg.Upload),
		images:    processor.NewImageProcessor(cfg.Upload),
		videos:    processor.NewVideoProcessor(cfg.Upload),
		storage:   storage,
		registry:  registry,
		events:    publisher,
	}
}

func (s *uploadService) Validate(file *dto.CandidateFile) *dto.ValidationResult {
	return s.validator.Validate(file)
}

func (s *uploadService) Upload(ctx context.Context, file *dto.CandidateFile, meta *dto.UploadMetadataDTO, token string) (*dto.UploadResult, error) {
	return s.UploadWithID(ctx, uuid.NewString(), file, meta, token)
}

// UploadWithID tek dosyayı validate -> derive -> transfer -> verify hattından
// geçirir. Her aşama geçişi registry'ye kanal üzerinden akar; upload kimliği
// taze olduğu için entry'nin tek yazarı bu çağrıdır.
func (s *uploadService) UploadWithID(ctx context.Context, uploadID string, file *dto.CandidateFile, meta *dto.UploadMetadataDTO, token string) (*dto.UploadResult, error) {
	updates := make(chan dto.ProgressUpdate, 16)
	done := s.registry.Feed(uploadID, updates)

	finish := func() {
		close(updates)
		<-done
	}

	report := func(status string, pct int, stage string) {
		updates <- dto.ProgressUpdate{Status: status, Percentage: pct, Stage: stage}
	}

	failWith := func(ue *errors.UploadError) (*dto.UploadResult, error) {
		updates <- dto.ProgressUpdate{Status: consts.StatusError, Stage: "Upload failed", Error: ue.Message}
		finish()
		return nil, ue
	}

	// 1. Validation (0-25)
	report(consts.StatusProcessing, 0, "Validating file")

	vr := s.validator.Validate(file)
	if !vr.IsValid {
		return failWith(errors.ErrValidation(strings.Join(vr.Errors, ", ")))
	}

	// 2. Derivative üretimi
	report(consts.StatusProcessing, 10, "Generating thumbnail and preview")

	var set *dto.DerivativeSet
	var err error
	if vr.IsImage {
		set, err = s.images.DeriveImage(ctx, file)
		if err != nil {
			return failWith(errors.ErrDerivation("Failed to process image", err))
		}
	} else {
		set, err = s.videos.DeriveVideo(ctx, file)
		if err != nil {
			return failWith(errors.ErrDerivation("Failed to load video", err))
		}
	}

	report(consts.StatusProcessing, 25, "Derivatives ready")

	// Cancellation checkpoint: transfer başlamadan önce; iptal edildiyse
	// decode edilmiş bufferlar burada bırakılır.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return failWith(errors.ErrTransfer("Upload cancelled", ctxErr))
	}

	visibility := meta.Visibility
	if visibility == "" {
		visibility = consts.VisibilityPrivate
	}

	record := &dto.StoredMediaRecord{
		ContentType: file.ContentType,
		MediaType:   vr.FileType,
		Filename:    file.Name,
		Description: meta.Description,
		Category:    meta.Category,
		Tags:        meta.Tags,
		Visibility:  visibility,
		Size:        file.Size,
		Hash:        pkgfile.CalculateHash(file.Data),
		Media:       set.Meta,
		UploadedAt:  time.Now().UTC(),
	}

	metadataBlock, err := json.Marshal(record)
	if err != nil {
		return failWith(errors.ErrTransfer("Upload failed. Please try again.", err))
	}

	payload := &repositories.TransferPayload{
		Key:         pkgfile.MakeKey(uploadID, file.Name),
		Filename:    file.Name,
		ContentType: file.ContentType,
		Token:       token,
		Original:    set.Original,
		Thumbnail:   set.Thumbnail,
		Preview:     set.Preview,
		Metadata:    metadataBlock,
	}

	// 3. Transfer (50 sabit, 50-95 gönderilen byte oranında)
	report(consts.StatusUploading, 50, "Uploading to storage")

	result, err := s.storage.Transfer(ctx, payload, func(sent, total int64) {
		if total <= 0 {
			return
		}
		pct := 50 + int(float64(sent)/float64(total)*45.0)
		if pct > 95 {
			pct = 95
		}
		report(consts.StatusUploading, pct, "Uploading to storage")
	})
	if err != nil {
		return failWith(errors.ErrTransfer("Upload failed. Please try again.", err))
	}

	// 4. Verification (95-100)
	report(consts.StatusVerifying, 95, "Verifying upload")

	if !s.storage.Exists(ctx, result.Key) {
		return failWith(errors.ErrVerification(nil))
	}

	record.Key = result.Key

	uploadResult := &dto.UploadResult{
		UploadID: uploadID,
		Key:      result.Key,
		URL:      result.URL,
		Record:   record,
	}

	updates <- dto.ProgressUpdate{
		Status:     consts.StatusCompleted,
		Percentage: 100,
		Stage:      "Upload complete",
		Result:     uploadResult,
	}
	finish()

	if pubErr := s.events.PublishCompleted(ctx, events.CompletedEvent{
		UploadID:    uploadID,
		Key:         result.Key,
		URL:         result.URL,
		MediaType:   vr.FileType,
		Size:        file.Size,
		CompletedAt: time.Now().UTC(),
	}); pubErr != nil {
		log.Printf("Completed event yayınlanamadı: %v", pubErr)
	}

	return uploadResult, nil
}

func (s *uploadService) Progress(uploadID string) (dto.ProgressEntry, bool) {
	return s.registry.Get(uploadID)
}

func (s *uploadService) ClearProgress(uploadID string) {
	s.registry.Clear(uploadID)
}
