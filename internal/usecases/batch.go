package usecases

import (
	"context"
	"sync"

	"media-pipeline/internal/domain/dto"
	"media-pipeline/pkg/errors"
)

// UploadAll her dosya için bağımsız bir orkestrasyon koşturur. Bir dosyanın
// hatası diğerlerini iptal etmez; her girdi tam olarak bir listeye düşer.
func (s *uploadService) UploadAll(ctx context.Context, files []*dto.CandidateFile, meta *dto.UploadMetadataDTO, token string) *dto.BatchResult {
	result := &dto.BatchResult{
		Successes: make([]*dto.UploadResult, 0, len(files)),
		Failures:  make([]dto.BatchFailure, 0),
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, f := range files {
		wg.Add(1)
		go func(file *dto.CandidateFile) {
			defer wg.Done()

			res, err := s.Upload(ctx, file, meta, token)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failures = append(result.Failures, dto.BatchFailure{
					Filename: file.Name,
					Code:     errors.CodeOf(err),
					Reason:   errors.MessageOf(err),
				})
				return
			}
			result.Successes = append(result.Successes, res)
		}(f)
	}

	wg.Wait()
	return result
}
