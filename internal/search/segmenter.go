package search

import (
	"fmt"
	"strings"

	"github.com/go-ego/gse"
)

// GseSegmenter — словарный сегментатор на базе gse (режим поисковой системы:
// помимо слов отдаются их значимые части, например 人工智能 -> 人工, 智能, 人工智能).
type GseSegmenter struct {
	seg gse.Segmenter
}

// NewGseSegmenter загружает словари gse; без аргументов — встроенный словарь zh.
func NewGseSegmenter(dictFiles ...string) (*GseSegmenter, error) {
	const op = "search.NewGseSegmenter"

	seg, err := gse.New(dictFiles...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &GseSegmenter{seg: seg}, nil
}

// Segment режет текст на слова.
func (g *GseSegmenter) Segment(text string) []string {
	var out []string
	for _, tok := range g.seg.CutSearch(text, true) {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// BigramSegmenter — бессловарный сегментатор перекрывающимися биграммами.
// Запасной вариант, если словари gse недоступны.
type BigramSegmenter struct{}

// Segment возвращает биграммы; прогон из одной руны возвращается как есть.
func (BigramSegmenter) Segment(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) == 1 {
		return []string{text}
	}

	out := make([]string, 0, len(runes)-1)
	for i := 0; i+1 < len(runes); i++ {
		out = append(out, string(runes[i:i+2]))
	}
	return out
}
