package processor

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"media-pipeline/internal/domain/dto"
	"media-pipeline/internal/pkg/config"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProcessorConfig() config.UploadConfig {
	return config.UploadConfig{
		ThumbnailMaxSize: 800,
		PreviewMaxSize:   1200,
		ThumbnailQuality: 60,
		PreviewQuality:   80,
	}
}

func makePNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 10 {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDeriveImage(t *testing.T) {
	p := NewImageProcessor(testProcessorConfig())

	file := &dto.CandidateFile{
		Name:        "photo.png",
		ContentType: "image/png",
		Data:        makePNG(t, 1600, 900),
	}
	file.Size = int64(len(file.Data))

	set, err := p.DeriveImage(context.Background(), file)
	require.NoError(t, err)

	assert.Equal(t, 1600, set.Meta.Width)
	assert.Equal(t, 900, set.Meta.Height)
	assert.Equal(t, 800, set.Meta.ThumbnailWidth)
	assert.Equal(t, 450, set.Meta.ThumbnailHeight)
	assert.Equal(t, 1200, set.Meta.PreviewWidth)
	assert.Equal(t, 675, set.Meta.PreviewHeight)
	assert.InDelta(t, 16.0/9.0, set.Meta.AspectRatio, 0.001)
	assert.Zero(t, set.Meta.Duration)

	// Orijinal kopyalanmaz, referans geçer
	assert.Same(t, &file.Data[0], &set.Original[0])

	// Türevler gerçekten belirtilen boyutlarda JPEG mi
	thumb, err := imaging.Decode(bytes.NewReader(set.Thumbnail))
	require.NoError(t, err)
	assert.Equal(t, 800, thumb.Bounds().Dx())
	assert.Equal(t, 450, thumb.Bounds().Dy())

	preview, err := imaging.Decode(bytes.NewReader(set.Preview))
	require.NoError(t, err)
	assert.Equal(t, 1200, preview.Bounds().Dx())
	assert.Equal(t, 675, preview.Bounds().Dy())
}

func TestDeriveImageSmallInputNotUpscaled(t *testing.T) {
	p := NewImageProcessor(testProcessorConfig())

	file := &dto.CandidateFile{Name: "small.png", ContentType: "image/png", Data: makePNG(t, 400, 300)}

	set, err := p.DeriveImage(context.Background(), file)
	require.NoError(t, err)

	assert.Equal(t, 400, set.Meta.ThumbnailWidth)
	assert.Equal(t, 300, set.Meta.ThumbnailHeight)
	assert.Equal(t, 400, set.Meta.PreviewWidth)
	assert.Equal(t, 300, set.Meta.PreviewHeight)
}

func TestDeriveImageCorruptData(t *testing.T) {
	p := NewImageProcessor(testProcessorConfig())

	_, err := p.DeriveImage(context.Background(), &dto.CandidateFile{
		Name:        "broken.png",
		ContentType: "image/png",
		Data:        []byte("definitely not an image"),
	})

	assert.Error(t, err)
}

func TestDeriveImageCancelledContext(t *testing.T) {
	p := NewImageProcessor(testProcessorConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.DeriveImage(ctx, &dto.CandidateFile{Name: "a.png", Data: makePNG(t, 100, 100)})
	assert.ErrorIs(t, err, context.Canceled)
}
