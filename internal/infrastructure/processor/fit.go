package processor

import "math"

// FitWithin uzun kenarı maxSize'ı aşmayacak şekilde boyut hesaplar,
// aspect ratio birebir korunur, crop yapılmaz. Küçük görseller büyütülmez.
func FitWithin(origW, origH, maxSize int) (int, int) {
	if origW <= 0 || origH <= 0 {
		return origW, origH
	}

	aspect := float64(origW) / float64(origH)

	var newW, newH int
	if origW > origH {
		newW = origW
		if newW > maxSize {
			newW = maxSize
		}
		newH = int(math.Round(float64(newW) / aspect))
	} else {
		newH = origH
		if newH > maxSize {
			newH = maxSize
		}
		newW = int(math.Round(float64(newH) * aspect))
	}

	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	return newW, newH
}
