package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ragchunk/internal/domain"
)

func TestBalanced(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"useState(0)", true},
		{"<div>{items.map((x) => [x])}</div>", true},
		{"function A() {\n  return (", false},
		{"})", false},
		{"(]", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, balanced(tt.in), tt.in)
	}
}

func TestSummarize(t *testing.T) {
	ds := domain.Datasets{
		Baseline: []domain.BaselineChunk{
			{Content: "export function A() {", TokenCount: 6, FilePath: "A.tsx"},
			{Content: "return <div/>; }", TokenCount: 4, FilePath: "A.tsx"},
			{Content: "const b = 1;", TokenCount: 5, FilePath: "B.tsx"},
		},
		Semantic: []domain.Chunk{
			{Kind: domain.KindSignature, Parent: "A", Content: "Component: A", TokenCount: 2, FilePath: "A.tsx"},
			{Kind: domain.KindLogic, Parent: "A", Content: "useState(0)", TokenCount: 4, FilePath: "A.tsx"},
			{Kind: domain.KindView, Parent: "A", Content: "<div/>", TokenCount: 3, FilePath: "A.tsx"},
			{Kind: domain.KindSignature, Parent: "A", Content: "Component: A", TokenCount: 2, FilePath: "C.tsx"},
		},
	}

	r := Summarize(ds)

	assert.Equal(t, 3, r.Baseline.Chunks)
	assert.Equal(t, 2, r.Baseline.Files)
	assert.Equal(t, 2, r.Baseline.Unbalanced)
	assert.InDelta(t, 5.0, r.Baseline.AvgTokens, 0.001)
	assert.Equal(t, 6, r.Baseline.MaxTokens)
	assert.InDelta(t, 2.0/3.0, r.Baseline.UnbalancedRate(), 0.001)

	assert.Equal(t, 4, r.Semantic.Chunks)
	assert.Zero(t, r.Semantic.Unbalanced)
	assert.Equal(t, 2, r.Kinds[domain.KindSignature])
	assert.Equal(t, 2, r.Components, "same component name in two files counts twice")
}

func TestSummarize_Empty(t *testing.T) {
	r := Summarize(domain.Datasets{})
	assert.Zero(t, r.Baseline.AvgTokens)
	assert.Zero(t, r.Semantic.UnbalancedRate())
}
