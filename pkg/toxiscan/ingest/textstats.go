package ingest

// TextStats describes the filtered stream of a document.
type TextStats struct {
	TotalWords        int     `json:"total_words"`
	UniqueWords       int     `json:"unique_words"`
	Sentences         int     `json:"sentences"`
	TotalChars        int     `json:"total_chars"`
	AvgSentenceLength float64 `json:"avg_sentence_length"`
	AvgWordLength     float64 `json:"avg_word_length"`
	LexicalDiversity  float64 `json:"lexical_diversity"`
	Diversity         string  `json:"diversity"`
}

// ComputeStats summarises a filtered stream. sentences comes from the capture;
// zero leaves the sentence average at zero.
func ComputeStats(filtered []string, sentences int) TextStats {
	seen := make(map[string]struct{}, len(filtered))
	chars := 0
	for _, tok := range filtered {
		seen[tok] = struct{}{}
		chars += len(tok)
	}

	st := TextStats{
		TotalWords:  len(filtered),
		UniqueWords: len(seen),
		Sentences:   sentences,
		TotalChars:  chars,
	}
	if sentences > 0 {
		st.AvgSentenceLength = float64(st.TotalWords) / float64(sentences)
	}
	if st.TotalWords > 0 {
		st.AvgWordLength = float64(chars) / float64(st.TotalWords)
		st.LexicalDiversity = float64(st.UniqueWords) / float64(st.TotalWords)
	}
	st.Diversity = DiversityBand(st.LexicalDiversity)
	return st
}

// DiversityBand labels a lexical diversity ratio.
func DiversityBand(d float64) string {
	switch {
	case d > 0.8:
		return "high"
	case d > 0.6:
		return "medium"
	case d > 0:
		return "low"
	default:
		return "none"
	}
}

// CountSentences counts runs of text ending in '.', '!' or '?' that contain
// at least one letter. Trailing text without a terminator counts as a sentence.
// The result is never below 1.
func CountSentences(text string) int {
	sentences := 0
	inSentence := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '.' || c == '!' || c == '?':
			if inSentence {
				sentences++
				inSentence = false
			}
		case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
			inSentence = true
		}
	}
	if inSentence {
		sentences++
	}
	if sentences == 0 {
		sentences = 1
	}
	return sentences
}
