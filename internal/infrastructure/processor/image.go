package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"media-pipeline/internal/domain/dto"
	"media-pipeline/internal/pkg/config"

	"github.com/disintegration/imaging"
)

type ImageProcessor struct {
	thumbMax       int
	previewMax     int
	thumbQuality   int
	previewQuality int
}

func NewImageProcessor(cfg config.UploadConfig) *ImageProcessor {
	return &ImageProcessor{
		thumbMax:       cfg.ThumbnailMaxSize,
		previewMax:     cfg.PreviewMaxSize,
		thumbQuality:   cfg.ThumbnailQuality,
		previewQuality: cfg.PreviewQuality,
	}
}

// DeriveImage görseli bir kez decode eder, thumbnail ve preview'u aynı
// decode'dan bağımsız render eder (ardışık küçültmede kalite kaybı birikiyordu).
func (p *ImageProcessor) DeriveImage(ctx context.Context, file *dto.CandidateFile) (*dto.DerivativeSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(file.Data))
	if err != nil {
		return nil, fmt.Errorf("image decode edilemedi: %w", err)
	}

	bounds := img.Bounds()
	origW, origH := bounds.Dx(), bounds.Dy()

	thumbW, thumbH := FitWithin(origW, origH, p.thumbMax)
	thumb, err := p.render(img, thumbW, thumbH, p.thumbQuality)
	if err != nil {
		return nil, fmt.Errorf("thumbnail oluşturulamadı: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	previewW, previewH := FitWithin(origW, origH, p.previewMax)
	preview, err := p.render(img, previewW, previewH, p.previewQuality)
	if err != nil {
		return nil, fmt.Errorf("preview oluşturulamadı: %w", err)
	}

	return &dto.DerivativeSet{
		Original:  file.Data,
		Thumbnail: thumb,
		Preview:   preview,
		Meta: dto.DerivativeMeta{
			Width:           origW,
			Height:          origH,
			ThumbnailWidth:  thumbW,
			ThumbnailHeight: thumbH,
			PreviewWidth:    previewW,
			PreviewHeight:   previewH,
			AspectRatio:     float64(origW) / float64(origH),
		},
	}, nil
}

// Oran koruyarak resize + JPEG kalite ayarı ile encode
func (p *ImageProcessor) render(img image.Image, w, h, quality int) ([]byte, error) {
	resized := imaging.Resize(img, w, h, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
