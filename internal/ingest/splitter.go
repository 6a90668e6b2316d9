package ingest

import "strings"

// Splitter cuts document text into overlapping chunks, preferring to break on
// the larger separators first and only falling back to character boundaries
// when a span has no natural break point.
type Splitter struct {
	ChunkSize    int
	ChunkOverlap int
	Separators   []string
}

func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	return &Splitter{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		Separators:   []string{"\n\n", "\n", " ", ""},
	}
}

func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.splitText(text, s.Separators)
}

func (s *Splitter) splitText(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var next []string
	for i, sep := range separators {
		if sep == "" || strings.Contains(text, sep) {
			separator = sep
			next = separators[i+1:]
			break
		}
	}

	var chunks []string
	var pending []string
	for _, part := range splitOn(text, separator) {
		if len(part) < s.ChunkSize {
			pending = append(pending, part)
			continue
		}
		if len(pending) > 0 {
			chunks = append(chunks, s.merge(pending, separator)...)
			pending = nil
		}
		if len(next) == 0 {
			chunks = append(chunks, part)
		} else {
			chunks = append(chunks, s.splitText(part, next)...)
		}
	}
	if len(pending) > 0 {
		chunks = append(chunks, s.merge(pending, separator)...)
	}
	return chunks
}

// merge packs small splits back together into chunks up to ChunkSize, carrying
// a ChunkOverlap-sized tail from one chunk into the next.
func (s *Splitter) merge(splits []string, separator string) []string {
	sepLen := len(separator)
	var docs []string
	var current []string
	total := 0
	for _, sp := range splits {
		add := len(sp)
		if len(current) > 0 {
			add += sepLen
		}
		if total+add > s.ChunkSize && len(current) > 0 {
			if doc := strings.TrimSpace(strings.Join(current, separator)); doc != "" {
				docs = append(docs, doc)
			}
			for len(current) > 0 && (total > s.ChunkOverlap || total+len(sp) > s.ChunkSize) {
				total -= len(current[0])
				if len(current) > 1 {
					total -= sepLen
				}
				current = current[1:]
			}
		}
		current = append(current, sp)
		total += len(sp)
		if len(current) > 1 {
			total += sepLen
		}
	}
	if doc := strings.TrimSpace(strings.Join(current, separator)); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

func splitOn(text, separator string) []string {
	if separator == "" {
		parts := make([]string, 0, len(text))
		for _, r := range text {
			parts = append(parts, string(r))
		}
		return parts
	}
	raw := strings.Split(text, separator)
	parts := raw[:0]
	for _, p := range raw {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
