package usecases

import (
	"context"
	"testing"

	"media-pipeline/internal/domain/dto"
	pkgerrors "media-pipeline/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadAllIsolatesFailures(t *testing.T) {
	store := &fakeStorage{}
	svc, _ := newTestService(store)

	files := []*dto.CandidateFile{
		pngFile(t, "file-1.png", 600, 400),
		{Name: "file-2.png", ContentType: "image/png", Size: 60 * 1024 * 1024, Data: []byte{1}}, // oversized
		pngFile(t, "file-3.png", 400, 600),
	}

	batch := svc.UploadAll(context.Background(), files, &dto.UploadMetadataDTO{}, "")

	assert.Len(t, batch.Successes, 2)
	require.Len(t, batch.Failures, 1)
	assert.Equal(t, "file-2.png", batch.Failures[0].Filename)
	assert.Equal(t, pkgerrors.CodeValidation, batch.Failures[0].Code)

	// Her girdi tam olarak bir listede
	seen := map[string]bool{}
	for _, s := range batch.Successes {
		seen[s.Record.Filename] = true
	}
	for _, f := range batch.Failures {
		assert.False(t, seen[f.Filename])
		seen[f.Filename] = true
	}
	assert.Len(t, seen, 3)

	summary := batch.ErrorSummary()
	assert.Contains(t, summary, "file-2.png: ")
	assert.Contains(t, summary, "File size")
}

func TestUploadAllAllSucceed(t *testing.T) {
	store := &fakeStorage{}
	svc, _ := newTestService(store)

	files := []*dto.CandidateFile{
		pngFile(t, "a.png", 300, 200),
		pngFile(t, "b.png", 200, 300),
	}

	batch := svc.UploadAll(context.Background(), files, &dto.UploadMetadataDTO{Category: "progress"}, "")

	assert.Len(t, batch.Successes, 2)
	assert.Empty(t, batch.Failures)
	assert.Empty(t, batch.ErrorSummary())

	// Upload kimlikleri dosya başına taze üretilir
	assert.NotEqual(t, batch.Successes[0].UploadID, batch.Successes[1].UploadID)
}

func TestUploadAllEmptyInput(t *testing.T) {
	svc, _ := newTestService(&fakeStorage{})

	batch := svc.UploadAll(context.Background(), nil, &dto.UploadMetadataDTO{}, "")

	assert.Empty(t, batch.Successes)
	assert.Empty(t, batch.Failures)
}
