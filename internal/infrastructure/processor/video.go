package processor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"media-pipeline/internal/domain/dto"
	"media-pipeline/internal/pkg/config"

	"github.com/disintegration/imaging"
)

type VideoProcessor struct {
	thumbMax     int
	thumbQuality int
}

func NewVideoProcessor(cfg config.UploadConfig) *VideoProcessor {
	return &VideoProcessor{
		thumbMax:     cfg.ThumbnailMaxSize,
		thumbQuality: cfg.ThumbnailQuality,
	}
}

// DeriveVideo süreyi okur, %25 noktasına seek edip tek frame yakalar ve aynı
// still'i hem thumbnail hem preview olarak kullanır. 0. saniyedeki siyah
// açılış karelerinden kaçınmak için %25 seçildi.
func (p *VideoProcessor) DeriveVideo(ctx context.Context, file *dto.CandidateFile) (*dto.DerivativeSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmpDir, err := os.MkdirTemp("", "video-derive-*")
	if err != nil {
		return nil, fmt.Errorf("geçici klasör oluşturulamadı: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	inputName := filepath.Base(file.Name)
	if inputName == "." || inputName == "/" {
		inputName = "input"
	}
	inputPath := filepath.Join(tmpDir, inputName)
	if err := os.WriteFile(inputPath, file.Data, 0644); err != nil {
		return nil, fmt.Errorf("geçici dosya yazılamadı: %w", err)
	}

	duration, err := probeDuration(ctx, inputPath)
	if err != nil {
		return nil, err
	}

	origW, origH, err := probeDimensions(ctx, inputPath)
	if err != nil {
		return nil, err
	}

	framePath := filepath.Join(tmpDir, "frame.jpg")
	seek := duration * 0.25
	if _, err := extractFrame(ctx, inputPath, framePath, seek); err != nil {
		return nil, err
	}

	frame, err := imaging.Open(framePath)
	if err != nil {
		return nil, fmt.Errorf("frame decode edilemedi: %w", err)
	}

	thumbW, thumbH := FitWithin(origW, origH, p.thumbMax)
	resized := imaging.Resize(frame, thumbW, thumbH, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(p.thumbQuality)); err != nil {
		return nil, fmt.Errorf("frame encode edilemedi: %w", err)
	}
	still := buf.Bytes()

	// Video için ikinci, daha büyük bir still gerekmez; aynı kare iki rolde kullanılır.
	return &dto.DerivativeSet{
		Original:  file.Data,
		Thumbnail: still,
		Preview:   still,
		Meta: dto.DerivativeMeta{
			Width:           origW,
			Height:          origH,
			ThumbnailWidth:  thumbW,
			ThumbnailHeight: thumbH,
			PreviewWidth:    thumbW,
			PreviewHeight:   thumbH,
			AspectRatio:     float64(origW) / float64(origH),
			Duration:        duration,
		},
	}, nil
}

func probeDuration(ctx context.Context, filePath string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		filePath,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration okunamadı: %w", err)
	}
	return ParseDuration(string(out))
}

func probeDimensions(ctx context.Context, filePath string) (int, int, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=p=0",
		filePath,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, 0, fmt.Errorf("ffprobe dimensions okunamadı: %w", err)
	}
	return ParseDimensions(string(out))
}

func extractFrame(ctx context.Context, inputPath, outputPath string, seekSeconds float64) (string, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-ss", strconv.FormatFloat(seekSeconds, 'f', 2, 64),
		"-i", inputPath,
		"-vframes", "1",
		"-q:v", "2",
		outputPath,
	)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("frame çıkarılamadı (seek %.2fs): %w", seekSeconds, err)
	}
	return outputPath, nil
}

func ParseDuration(out string) (float64, error) {
	trimmed := strings.TrimSpace(out)
	d, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("geçersiz duration çıktısı: %q", trimmed)
	}
	return d, nil
}

func ParseDimensions(out string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(out), ",")
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("geçersiz dimension çıktısı: %q", out)
	}
	w, errW := strconv.Atoi(strings.TrimSpace(parts[0]))
	h, errH := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("geçersiz dimension çıktısı: %q", out)
	}
	return w, h, nil
}
