package constants

const (
	StatusProcessing = "processing"
	StatusUploading  = "uploading"
	StatusVerifying  = "verifying"
	StatusCompleted  = "completed"
	StatusError      = "error"

	MediaTypeImage   = "image"
	MediaTypeVideo   = "video"
	MediaTypeUnknown = "unknown"

	VisibilityPrivate = "private"
	VisibilityPublic  = "public"
)

// Redis kuyruk isimleri
const (
	QueueCompleted     = "media:completed"
	QueueMetadataRetry = "media:metadata_retry"
)
