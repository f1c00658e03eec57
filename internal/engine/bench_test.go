package engine

import (
	"strings"
	"testing"

	"github.com/dshills/revdiff/internal/engine/model"
)

func setupLargeDocument(b *testing.B, paragraphs int) *Document {
	b.Helper()
	nodes := make([]model.Node, paragraphs)
	line := strings.Repeat("x", 80)
	for i := range nodes {
		nodes[i] = model.Paragraph(line)
	}
	return New(WithContent(nodes...), WithMaxHistory(100))
}

func BenchmarkDocumentChange(b *testing.B) {
	d := setupLargeDocument(b, 1000)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = d.Change("typing", func(w *Writer) error {
			return w.InsertText(Pos(i%1000, 0), "y", nil)
		})
	}
}

func BenchmarkDocumentText(b *testing.B) {
	d := setupLargeDocument(b, 1000)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = d.Text()
	}
}
