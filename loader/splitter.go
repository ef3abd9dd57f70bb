package loader

// SplitText cuts text into rune-safe chunks of at most chunkSize runes,
// adjacent chunks sharing overlap runes of content. The final chunk may be
// shorter. Text at most chunkSize runes long comes back as a single chunk.
func SplitText(text string, chunkSize, overlap int) []string {
	runes := []rune(text)
	totalLen := len(runes)

	if totalLen == 0 || chunkSize <= 0 {
		return nil
	}
	if totalLen <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize
	}

	var chunks []string
	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		}
		chunks = append(chunks, string(runes[i:end]))
		if end == totalLen {
			break
		}
	}
	return chunks
}
