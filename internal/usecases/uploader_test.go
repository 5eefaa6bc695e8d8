package usecases

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"media-pipeline/internal/domain/dto"
	"media-pipeline/internal/domain/repositories"
	"media-pipeline/internal/infrastructure/events"
	"media-pipeline/internal/infrastructure/progress"
	"media-pipeline/internal/pkg/config"
	consts "media-pipeline/pkg/constants"
	pkgerrors "media-pipeline/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	mu           sync.Mutex
	transfers    []*repositories.TransferPayload
	failTransfer bool
	missing      bool // Exists false döner
	stepDelay    time.Duration
}

func (f *fakeStorage) Transfer(ctx context.Context, payload *repositories.TransferPayload, onProgress repositories.ProgressFunc) (*dto.TransferResult, error) {
	f.mu.Lock()
	f.transfers = append(f.transfers, payload)
	f.mu.Unlock()

	if f.failTransfer {
		return nil, fmt.Errorf("network down")
	}

	total := int64(len(payload.Original) + len(payload.Thumbnail) + len(payload.Preview) + len(payload.Metadata))
	for _, sent := range []int64{total / 4, total / 2, total} {
		if f.stepDelay > 0 {
			time.Sleep(f.stepDelay)
		}
		if onProgress != nil {
			onProgress(sent, total)
		}
	}

	return &dto.TransferResult{Key: payload.Key, URL: "mem://" + payload.Key}, nil
}

func (f *fakeStorage) Exists(ctx context.Context, key string) bool {
	return !f.missing
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	return nil
}

func (f *fakeStorage) transferCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.transfers)
}

func newTestService(store repositories.StorageStrategy) (UploadService, *progress.Registry) {
	cfg := &config.Config{Upload: testUploadConfig()}
	registry := progress.NewRegistry()
	return NewUploadService(cfg, store, registry, events.NewPublisher(nil)), registry
}

func pngFile(t *testing.T, name string, w, h int) *dto.CandidateFile {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 7 {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 90, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return &dto.CandidateFile{
		Name:        name,
		ContentType: "image/png",
		Size:        int64(buf.Len()),
		Data:        buf.Bytes(),
	}
}

func TestUploadHappyPath(t *testing.T) {
	store := &fakeStorage{}
	svc, _ := newTestService(store)

	file := pngFile(t, "photo.png", 1600, 900)
	result, err := svc.Upload(context.Background(), file, &dto.UploadMetadataDTO{Description: "tatil"}, "tok")
	require.NoError(t, err)

	assert.NotEmpty(t, result.UploadID)
	assert.NotEmpty(t, result.Key)
	require.NotNil(t, result.Record)
	assert.Equal(t, "image", result.Record.MediaType)
	assert.Equal(t, "tatil", result.Record.Description)
	assert.Equal(t, consts.VisibilityPrivate, result.Record.Visibility)
	assert.Equal(t, 1600, result.Record.Media.Width)
	assert.NotEmpty(t, result.Record.Hash)

	// Terminal entry registry'de kalır; temizlemek çağıranın işi
	entry, ok := svc.Progress(result.UploadID)
	require.True(t, ok)
	assert.Equal(t, consts.StatusCompleted, entry.Status)
	assert.Equal(t, 100, entry.Percentage)
	require.NotNil(t, entry.Result)

	svc.ClearProgress(result.UploadID)
	_, ok = svc.Progress(result.UploadID)
	assert.False(t, ok)

	// Transfer payload'ında token ve üç binary parça var
	require.Equal(t, 1, store.transferCount())
	payload := store.transfers[0]
	assert.Equal(t, "tok", payload.Token)
	assert.NotEmpty(t, payload.Thumbnail)
	assert.NotEmpty(t, payload.Preview)
	assert.NotEmpty(t, payload.Metadata)
}

func TestUploadProgressIsMonotonicAndObservableMidFlight(t *testing.T) {
	store := &fakeStorage{stepDelay: 15 * time.Millisecond}
	svc, _ := newTestService(store)

	uploadID := "upload-test-1"
	file := pngFile(t, "photo.png", 1200, 800)

	resultCh := make(chan error, 1)
	go func() {
		_, err := svc.UploadWithID(context.Background(), uploadID, file, &dto.UploadMetadataDTO{}, "")
		resultCh <- err
	}()

	var samples []dto.ProgressEntry
	deadline := time.After(5 * time.Second)
	for {
		if entry, ok := svc.Progress(uploadID); ok {
			samples = append(samples, entry)
			if entry.Status == consts.StatusCompleted || entry.Status == consts.StatusError {
				break
			}
		}
		select {
		case <-deadline:
			t.Fatal("upload terminal duruma ulaşmadı")
		case <-time.After(2 * time.Millisecond):
		}
	}
	require.NoError(t, <-resultCh)

	require.NotEmpty(t, samples)
	last := samples[len(samples)-1]
	assert.Equal(t, consts.StatusCompleted, last.Status)
	assert.Equal(t, 100, last.Percentage)

	for i := 1; i < len(samples); i++ {
		assert.GreaterOrEqual(t, samples[i].Percentage, samples[i-1].Percentage,
			"yüzde geri gitti: %d -> %d", samples[i-1].Percentage, samples[i].Percentage)
	}
}

func TestUploadValidationFailure(t *testing.T) {
	store := &fakeStorage{}
	svc, _ := newTestService(store)

	file := &dto.CandidateFile{
		Name:        "big.jpg",
		ContentType: "image/jpeg",
		Size:        60 * 1024 * 1024,
		Data:        []byte{1},
	}

	result, err := svc.UploadWithID(context.Background(), "upload-val", file, &dto.UploadMetadataDTO{}, "")
	assert.Nil(t, result)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	// Hiç network aktivitesi olmamalı
	assert.Zero(t, store.transferCount())

	entry, ok := svc.Progress("upload-val")
	require.True(t, ok)
	assert.Equal(t, consts.StatusError, entry.Status)
	assert.Contains(t, entry.Error, "60 MB")
}

func TestUploadDerivationFailure(t *testing.T) {
	store := &fakeStorage{}
	svc, _ := newTestService(store)

	file := &dto.CandidateFile{
		Name:        "broken.png",
		ContentType: "image/png",
		Size:        20,
		Data:        []byte("not an actual image"),
	}

	_, err := svc.Upload(context.Background(), file, &dto.UploadMetadataDTO{}, "")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDerivation, pkgerrors.CodeOf(err))
	assert.Zero(t, store.transferCount())
}

func TestUploadTransferFailure(t *testing.T) {
	store := &fakeStorage{failTransfer: true}
	svc, _ := newTestService(store)

	_, err := svc.UploadWithID(context.Background(), "upload-tf", pngFile(t, "p.png", 600, 400), &dto.UploadMetadataDTO{}, "")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeTransfer, pkgerrors.CodeOf(err))

	entry, _ := svc.Progress("upload-tf")
	assert.Equal(t, consts.StatusError, entry.Status)
}

func TestUploadVerificationFailure(t *testing.T) {
	store := &fakeStorage{missing: true}
	svc, _ := newTestService(store)

	_, err := svc.UploadWithID(context.Background(), "upload-vf", pngFile(t, "p.png", 600, 400), &dto.UploadMetadataDTO{}, "")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeVerification, pkgerrors.CodeOf(err))

	entry, ok := svc.Progress("upload-vf")
	require.True(t, ok)
	assert.Equal(t, consts.StatusError, entry.Status)
	assert.Equal(t, "Upload verification failed. Please try again.", entry.Error)
}

func TestUploadCancelledBeforeTransfer(t *testing.T) {
	store := &fakeStorage{}
	svc, _ := newTestService(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Upload(ctx, pngFile(t, "p.png", 600, 400), &dto.UploadMetadataDTO{}, "")
	require.Error(t, err)
	// İptal derive aşamasında yakalanabilir (derivation) ya da transfer
	// checkpoint'inde (transfer); her iki durumda da storage'a dokunulmaz
	assert.Zero(t, store.transferCount())
}
