package ingest

import (
	"math"
	"unicode/utf8"
)

// ChunkStats summarizes a chunk sequence for status output and logs.
type ChunkStats struct {
	TotalChunks int     `json:"total_chunks"`
	TotalChars  int     `json:"total_chars"`
	AvgLength   float64 `json:"avg_length"`
	Shortest    int     `json:"shortest_chunk,omitempty"`
	Longest     int     `json:"longest_chunk,omitempty"`
}

// ComputeStats reports chunk count and character-length distribution.
// Lengths are in characters. AvgLength is rounded to one decimal place.
func ComputeStats(chunks []string) ChunkStats {
	if len(chunks) == 0 {
		return ChunkStats{}
	}
	s := ChunkStats{TotalChunks: len(chunks)}
	s.Shortest = math.MaxInt
	for _, ch := range chunks {
		n := utf8.RuneCountInString(ch)
		s.TotalChars += n
		if n < s.Shortest {
			s.Shortest = n
		}
		if n > s.Longest {
			s.Longest = n
		}
	}
	s.AvgLength = math.Round(float64(s.TotalChars)/float64(len(chunks))*10) / 10
	return s
}
