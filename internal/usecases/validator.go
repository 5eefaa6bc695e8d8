package usecases

import (
	"fmt"

	"media-pipeline/internal/domain/dto"
	"media-pipeline/internal/pkg/config"
	consts "media-pipeline/pkg/constants"
	pkgfile "media-pipeline/pkg/file"
)

// Validator tüm ihlalleri toplar, ilk hatada kesmez; kullanıcı her problemi
// tek seferde görebilsin diye.
type Validator struct {
	maxFileSize int64
	imageTypes  []string
	videoTypes  []string
}

func NewValidator(cfg config.UploadConfig) *Validator {
	return &Validator{
		maxFileSize: cfg.MaxFileSize,
		imageTypes:  cfg.ImageTypes,
		videoTypes:  cfg.VideoTypes,
	}
}

func (v *Validator) Validate(file *dto.CandidateFile) *dto.ValidationResult {
	if file == nil || len(file.Data) == 0 {
		return &dto.ValidationResult{
			IsValid:  false,
			Errors:   []string{"No file selected"},
			FileType: consts.MediaTypeUnknown,
		}
	}

	var violations []string

	if file.Size > v.maxFileSize {
		violations = append(violations, fmt.Sprintf(
			"File size (%s) exceeds the maximum allowed size (%s)",
			pkgfile.FormatFileSize(file.Size),
			pkgfile.FormatFileSize(v.maxFileSize),
		))
	}

	isImage := contains(v.imageTypes, file.ContentType)
	isVideo := contains(v.videoTypes, file.ContentType)

	if !isImage && !isVideo {
		violations = append(violations, fmt.Sprintf(
			`File type "%s" is not supported. Please use images (JPEG, PNG, WebP, GIF) or videos (MP4, WebM, MOV)`,
			file.ContentType,
		))
	}

	fileType := consts.MediaTypeUnknown
	if isImage {
		fileType = consts.MediaTypeImage
	} else if isVideo {
		fileType = consts.MediaTypeVideo
	}

	return &dto.ValidationResult{
		IsValid:  len(violations) == 0,
		Errors:   violations,
		IsImage:  isImage,
		IsVideo:  isVideo,
		FileType: fileType,
	}
}

func contains(slice []string, item string) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}
