// Package media splits photo sets into albums Telegram accepts.
package media

// MaxGroupSize is the largest album Telegram sends in one media group.
const MaxGroupSize = 10

// Chunk splits photos into consecutive groups of at most size photos.
func Chunk(photos [][]byte, size int) [][][]byte {
	if size <= 0 {
		size = MaxGroupSize
	}
	var chunks [][][]byte
	for start := 0; start < len(photos); start += size {
		end := min(start+size, len(photos))
		chunks = append(chunks, photos[start:end])
	}
	return chunks
}

// Largest returns the last file id of a photo size list, which Telegram
// orders from the smallest to the largest rendition.
func Largest(fileIds []string) string {
	if len(fileIds) == 0 {
		return ""
	}
	return fileIds[len(fileIds)-1]
}
