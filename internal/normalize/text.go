package normalize

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// Truncate обрезает строку до limit рун по границе руны.
// limit <= 0 отключает ограничение.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}

	n := 0
	for i := range s {
		if n == limit {
			return strings.TrimRightFunc(s[:i], unicode.IsSpace)
		}
		n++
	}

	return s
}

// PlainText снимает HTML-разметку и схлопывает пробельные символы.
// Строка без разметки возвращается как есть (с нормализованными пробелами).
func PlainText(s string) string {
	if s == "" {
		return ""
	}

	if strings.ContainsAny(s, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			doc.Find("script, style, noscript").Remove()
			s = doc.Text()
		}
	}

	return strings.Join(strings.Fields(s), " ")
}
