package file

import (
	"math"
	"strconv"
)

// FormatFileSize byte sayısını 1024 tabanlı, en fazla iki ondalıklı
// okunabilir bir stringe çevirir: 1536 -> "1.5 KB", 1048576 -> "1 MB".
func FormatFileSize(bytes int64) string {
	if bytes == 0 {
		return "0 Bytes"
	}

	const k = 1024
	sizes := []string{"Bytes", "KB", "MB", "GB", "TB"}

	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(k)))
	if i >= len(sizes) {
		i = len(sizes) - 1
	}
	if i < 0 {
		i = 0
	}

	value := math.Round(float64(bytes)/math.Pow(k, float64(i))*100) / 100
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + sizes[i]
}
