package dto

// CandidateFile yüklenmek üzere okunmuş ham dosya. Orkestrasyon boyunca
// sadece onu işleyen upload sahibidir, içeriği değiştirilmez.
type CandidateFile struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Data        []byte `json:"-"`
}

type ValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors,omitempty"`
	IsImage  bool     `json:"is_image"`
	IsVideo  bool     `json:"is_video"`
	FileType string   `json:"file_type"` // "image", "video", "unknown"
}

// UploadMetadataDTO çağıranın dosyayla birlikte gönderdiği açıklayıcı alanlar.
type UploadMetadataDTO struct {
	Description string   `json:"description" form:"description"`
	Category    string   `json:"category" form:"category"`
	Tags        []string `json:"tags"`
	Visibility  string   `json:"visibility" form:"visibility"`
}

type UploadResult struct {
	UploadID string             `json:"upload_id"`
	Key      string             `json:"key"`
	URL      string             `json:"url,omitempty"`
	Record   *StoredMediaRecord `json:"metadata,omitempty"`
}

// ProgressUpdate orkestratörün kanal üzerinden yaydığı tekil güncelleme.
type ProgressUpdate struct {
	Status     string        `json:"status"`
	Percentage int           `json:"percentage"`
	Stage      string        `json:"stage"`
	Error      string        `json:"error,omitempty"`
	Result     *UploadResult `json:"result,omitempty"`
}

// ProgressEntry registry'de tutulan güncel durum. UI poller'ları okur,
// terminal statüden sonra Clear etmek çağıranın sorumluluğudur.
type ProgressEntry struct {
	UploadID   string        `json:"upload_id"`
	Status     string        `json:"status"`
	Percentage int           `json:"percentage"`
	Stage      string        `json:"stage"`
	Error      string        `json:"error,omitempty"`
	Result     *UploadResult `json:"result,omitempty"`
}

type BatchFailure struct {
	Filename string `json:"filename"`
	Code     string `json:"code"`
	Reason   string `json:"reason"`
}

type BatchResult struct {
	Successes []*UploadResult `json:"successes"`
	Failures  []BatchFailure  `json:"failures"`
}

// ErrorSummary "{filename}: {reason}" satırlarını newline ile birleştirir.
func (b *BatchResult) ErrorSummary() string {
	if len(b.Failures) == 0 {
		return ""
	}
	out := ""
	for i, f := range b.Failures {
		if i > 0 {
			out += "\n"
		}
		out += f.Filename + ": " + f.Reason
	}
	return out
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
