package handlers

import (
	"context"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"media-pipeline/internal/domain/dto"
	"media-pipeline/internal/infrastructure/events"
	"media-pipeline/internal/usecases"
	pkgerrors "media-pipeline/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UploadHandler struct {
	uploadService   usecases.UploadService
	metadataService usecases.MetadataService
	publisher       *events.Publisher
}

func NewUploadHandler(uploadService usecases.UploadService, metadataService usecases.MetadataService, publisher *events.Publisher) *UploadHandler {
	return &UploadHandler{
		uploadService:   uploadService,
		metadataService: metadataService,
		publisher:       publisher,
	}
}

// Validate
//
// @Summary      Validate File
// @Description  Runs validation rules only, collecting every violation at once
// @Tags         Upload
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Candidate file"
// @Success      200   {object}  dto.ValidationResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v1/validate [post]
func (h *UploadHandler) Validate(c *fiber.Ctx) error {
	file, err := h.readCandidate(c)
	if err != nil {
		return c.Status(400).JSON(dto.ErrorResponse{Error: "missing_file", Message: "No file selected"})
	}
	return c.JSON(h.uploadService.Validate(file))
}

// Upload
//
// @Summary      Upload Media
// @Description  Drives one file through validate, derive, transfer and verify, then persists metadata
// @Tags         Upload
// @Accept       multipart/form-data
// @Produce      json
// @Param        file         formData  file    true   "Media file"
// @Param        description  formData  string  false  "Free text description"
// @Param        category     formData  string  false  "Category"
// @Param        tags         formData  string  false  "Comma separated tags"
// @Param        visibility   formData  string  false  "private or public"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/v1/upload [post]
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	file, err := h.readCandidate(c)
	if err != nil {
		return c.Status(400).JSON(dto.ErrorResponse{Error: "missing_file", Message: "No file selected"})
	}

	meta := parseMetadata(c)
	token := bearerToken(c)

	result, err := h.uploadService.Upload(c.UserContext(), file, meta, token)
	if err != nil {
		return pkgerrors.HandleError(c, err)
	}

	stored, persistErr := h.persistMetadata(c.UserContext(), result, token)
	if persistErr != nil {
		// Obje storage'da duruyor ama keşfedilemez; çağıran sadece metadata
		// yazımını tekrarlayabilsin diye sonuç cevapla birlikte döner.
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":     pkgerrors.CodeOf(persistErr),
			"message":   pkgerrors.MessageOf(persistErr),
			"upload_id": result.UploadID,
			"media":     result,
		})
	}

	return c.JSON(fiber.Map{
		"upload_id": result.UploadID,
		"media":     fiber.Map{"key": result.Key, "url": result.URL},
		"metadata":  stored,
	})
}

// UploadAsync
//
// @Summary      Upload Media (async)
// @Description  Returns the upload id immediately; progress is observable via the progress endpoint
// @Tags         Upload
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Media file"
// @Success      202   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v1/upload/async [post]
func (h *UploadHandler) UploadAsync(c *fiber.Ctx) error {
	file, err := h.readCandidate(c)
	if err != nil {
		return c.Status(400).JSON(dto.ErrorResponse{Error: "missing_file", Message: "No file selected"})
	}

	meta := parseMetadata(c)
	token := bearerToken(c)
	uploadID := uuid.NewString()

	go func() {
		// request context handler dönünce ölür, arka plan işi kendi context'ini taşır
		ctx := context.Background()
		result, err := h.uploadService.UploadWithID(ctx, uploadID, file, meta, token)
		if err != nil {
			log.Printf("Async upload %s başarısız: %v", uploadID, err)
			return
		}
		if _, err := h.persistMetadata(ctx, result, token); err != nil {
			log.Printf("Async upload %s metadata yazımı başarısız: %v", uploadID, err)
		}
	}()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"upload_id": uploadID})
}

// UploadBatch
//
// @Summary      Upload Batch
// @Description  Uploads multiple files independently; one failure does not abort the others
// @Tags         Upload
// @Accept       multipart/form-data
// @Produce      json
// @Param        files  formData  file  true  "Media files"
// @Success      200    {object}  dto.BatchResult
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/v1/upload/batch [post]
func (h *UploadHandler) UploadBatch(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(400).JSON(dto.ErrorResponse{Error: "invalid_form", Message: "Multipart form could not be parsed"})
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		return c.Status(400).JSON(dto.ErrorResponse{Error: "missing_file", Message: "No file selected"})
	}

	files := make([]*dto.CandidateFile, 0, len(headers))
	for _, fh := range headers {
		file, err := readFileHeader(fh)
		if err != nil {
			return c.Status(400).JSON(dto.ErrorResponse{Error: "unreadable_file", Message: fh.Filename + " could not be read"})
		}
		files = append(files, file)
	}

	meta := parseMetadata(c)
	token := bearerToken(c)

	batch := h.uploadService.UploadAll(c.UserContext(), files, meta, token)

	// Başarılı transferlerin metadata'sı da yazılır; yazamayanlar ayrı listelenir
	metadataFailures := make([]dto.BatchFailure, 0)
	for _, success := range batch.Successes {
		if _, err := h.persistMetadata(c.UserContext(), success, token); err != nil {
			metadataFailures = append(metadataFailures, dto.BatchFailure{
				Filename: success.Record.Filename,
				Code:     pkgerrors.CodeOf(err),
				Reason:   pkgerrors.MessageOf(err),
			})
		}
	}

	return c.JSON(fiber.Map{
		"successes":         batch.Successes,
		"failures":          batch.Failures,
		"metadata_failures": metadataFailures,
		"error":             batch.ErrorSummary(),
	})
}

// Progress
//
// @Summary      Get Upload Progress
// @Description  Returns the current stage and percentage for an in-flight upload
// @Tags         Upload
// @Produce      json
// @Param        id   path      string  true  "Upload ID"
// @Success      200  {object}  dto.ProgressEntry
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/upload/progress/{id} [get]
func (h *UploadHandler) Progress(c *fiber.Ctx) error {
	id := c.Params("id")

	entry, ok := h.uploadService.Progress(id)
	if !ok {
		return c.Status(404).JSON(dto.ErrorResponse{Error: "not_found", Message: "No progress entry for upload id"})
	}
	return c.JSON(entry)
}

// ClearProgress
//
// @Summary      Clear Upload Progress
// @Description  Removes a terminal progress entry; callers must clear entries they created
// @Tags         Upload
// @Produce      json
// @Param        id   path      string  true  "Upload ID"
// @Success      200  {object}  map[string]string
// @Router       /api/v1/upload/progress/{id} [delete]
func (h *UploadHandler) ClearProgress(c *fiber.Ctx) error {
	h.uploadService.ClearProgress(c.Params("id"))
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *UploadHandler) persistMetadata(ctx context.Context, result *dto.UploadResult, token string) (*dto.StoredMediaRecord, error) {
	stored, err := h.metadataService.Persist(ctx, result.Key, result.Record, token)
	if err == nil {
		return stored, nil
	}

	// Retry kuyruğuna at; cmd/worker tekrar dener
	if pubErr := h.publisher.PublishMetadataRetry(ctx, events.MetadataRetryJob{
		Key:    result.Key,
		Record: result.Record,
		Token:  token,
	}); pubErr != nil {
		log.Printf("Metadata retry job kuyruğa atılamadı: %v", pubErr)
	}
	return nil, err
}

func (h *UploadHandler) readCandidate(c *fiber.Ctx) (*dto.CandidateFile, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, err
	}
	return readFileHeader(fh)
}

func readFileHeader(fh *multipart.FileHeader) (*dto.CandidateFile, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return &dto.CandidateFile{
		Name:        fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
		Data:        data,
	}, nil
}

func parseMetadata(c *fiber.Ctx) *dto.UploadMetadataDTO {
	meta := &dto.UploadMetadataDTO{
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		Visibility:  c.FormValue("visibility"),
	}

	if raw := c.FormValue("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(tag); trimmed != "" {
				meta.Tags = append(meta.Tags, trimmed)
			}
		}
	}
	return meta
}

func bearerToken(c *fiber.Ctx) string {
	auth := c.Get("Authorization")
	return strings.TrimPrefix(auth, "Bearer ")
}
