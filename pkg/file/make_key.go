package file

import "path/filepath"

// MakeKey upload kimliği ile orijinal dosya adından storage anahtarı üretir.
// Path traversal'a karşı sadece base name kullanılır.
func MakeKey(uploadID, filename string) string {
	return uploadID + "_" + filepath.Base(filename)
}
