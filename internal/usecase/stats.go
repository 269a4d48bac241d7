package usecase

import (
	"ragchunk/internal/domain"
)

// DatasetStats summarizes one dataset.
type DatasetStats struct {
	Chunks    int
	Files     int
	AvgTokens float64
	MaxTokens int
	// Unbalanced counts chunks whose brackets do not pair up, i.e. chunks
	// that cut through a block.
	Unbalanced int
}

func (s DatasetStats) UnbalancedRate() float64 {
	if s.Chunks == 0 {
		return 0
	}
	return float64(s.Unbalanced) / float64(s.Chunks)
}

type StatsReport struct {
	Baseline   DatasetStats
	Semantic   DatasetStats
	Kinds      map[domain.ChunkKind]int
	Components int
}

// Summarize measures both datasets side by side.
func Summarize(ds domain.Datasets) StatsReport {
	report := StatsReport{Kinds: make(map[domain.ChunkKind]int)}

	var acc statsAcc
	for _, c := range ds.Baseline {
		acc.add(c.FilePath, c.Content, c.TokenCount)
	}
	report.Baseline = acc.stats()

	acc = statsAcc{}
	components := make(map[string]struct{})
	for _, c := range ds.Semantic {
		report.Kinds[c.Kind]++
		if c.Kind == domain.KindSignature {
			components[c.FilePath+"#"+c.Parent] = struct{}{}
		}
		acc.add(c.FilePath, c.Content, c.TokenCount)
	}
	report.Semantic = acc.stats()
	report.Components = len(components)

	return report
}

type statsAcc struct {
	chunks     int
	tokens     int
	maxTokens  int
	unbalanced int
	files      map[string]struct{}
}

func (a *statsAcc) add(file, content string, tokens int) {
	if a.files == nil {
		a.files = make(map[string]struct{})
	}
	a.files[file] = struct{}{}
	a.chunks++
	a.tokens += tokens
	if tokens > a.maxTokens {
		a.maxTokens = tokens
	}
	if !balanced(content) {
		a.unbalanced++
	}
}

func (a *statsAcc) stats() DatasetStats {
	s := DatasetStats{
		Chunks:     a.chunks,
		Files:      len(a.files),
		MaxTokens:  a.maxTokens,
		Unbalanced: a.unbalanced,
	}
	if a.chunks > 0 {
		s.AvgTokens = float64(a.tokens) / float64(a.chunks)
	}
	return s
}

// balanced reports whether every (, [ and { in s is closed in order.
// String and comment contents are not special-cased.
func balanced(s string) bool {
	var stack []rune
	pairs := map[rune]rune{')': '(', ']': '[', '}': '{'}
	for _, r := range s {
		switch r {
		case '(', '[', '{':
			stack = append(stack, r)
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != pairs[r] {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0
}
