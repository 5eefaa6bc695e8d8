package storage

import (
	"io"

	"media-pipeline/internal/domain/repositories"
)

// progressReader okunan her parça için onaylanan toplam byte sayısını raporlar.
type progressReader struct {
	r          io.Reader
	total      int64
	offset     int64 // daha önce gönderilmiş sayılan byte'lar (çok parçalı transferler için)
	sent       int64
	onProgress repositories.ProgressFunc
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.sent += int64(n)
		if pr.onProgress != nil {
			pr.onProgress(pr.offset+pr.sent, pr.total)
		}
	}
	return n, err
}
