// search реализует токенизацию (включая сегментацию языков без пробелов между словами)
// и BM25-ранжирование для полнотекстового индекса.
//
// Индекс хранится в storage/sqlite; пакет не зависит от хранилища и оперирует
// только терминами, частотами и статистикой корпуса.
package search

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Segmenter расставляет границы слов в тексте без пробелов (китайский, японский, тайский).
// Реализация должна быть безопасна для конкурентного использования.
type Segmenter interface {
	Segment(text string) []string
}

// Field — поле документа, в котором встретился термин.
type Field int

const (
	FieldTitle Field = iota + 1
	FieldSummary
	FieldContent
)

// maxQueryTokens ограничивает число токенов запроса.
const maxQueryTokens = 16

// Tokenizer делит текст на «прогоны»: текст со словами через пробел приводится к нижнему
// регистру и режется по не-буквам, прогоны без пробелов отдаются сегментатору.
type Tokenizer struct {
	seg Segmenter
}

// NewTokenizer создаёт токенизатор; nil-сегментатор заменяется биграммным.
func NewTokenizer(seg Segmenter) *Tokenizer {
	if seg == nil {
		seg = BigramSegmenter{}
	}
	return &Tokenizer{seg: seg}
}

// Tokens возвращает термины текста в порядке появления (с повторами).
func (t *Tokenizer) Tokens(text string) []string {
	var out []string

	var run strings.Builder
	unspaced := false

	flush := func() {
		if run.Len() == 0 {
			return
		}
		s := run.String()
		run.Reset()

		if unspaced {
			for _, tok := range t.seg.Segment(s) {
				if tok = clean(tok); keep(tok) {
					out = append(out, tok)
				}
			}
			return
		}

		if tok := strings.ToLower(s); keep(tok) {
			out = append(out, tok)
		}
	}

	for _, r := range text {
		switch {
		case isUnspaced(r):
			if !unspaced {
				flush()
				unspaced = true
			}
			run.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r):
			if unspaced {
				flush()
				unspaced = false
			}
			run.WriteRune(r)
		default:
			flush()
		}
	}
	flush()

	return out
}

// QueryTokens — токены запроса без повторов, не больше maxQueryTokens.
func (t *Tokenizer) QueryTokens(query string) []string {
	seen := make(map[string]struct{})
	var out []string

	for _, tok := range t.Tokens(query) {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)

		if len(out) == maxQueryTokens {
			break
		}
	}

	return out
}

// Posting — частота термина в поле документа.
type Posting struct {
	Term  string
	Field Field
	TF    int
}

// Document — проиндексированное представление материала.
type Document struct {
	Postings []Posting
	// Length — суммарное число токенов во всех полях.
	Length int
}

// Document строит постинги для title/summary/content.
func (t *Tokenizer) Document(title, summary, content string) Document {
	var doc Document

	for _, f := range []struct {
		field Field
		text  string
	}{
		{FieldTitle, title},
		{FieldSummary, summary},
		{FieldContent, content},
	} {
		tokens := t.Tokens(f.text)
		doc.Length += len(tokens)

		tf := make(map[string]int, len(tokens))
		order := make([]string, 0, len(tokens))
		for _, tok := range tokens {
			if tf[tok] == 0 {
				order = append(order, tok)
			}
			tf[tok]++
		}

		for _, term := range order {
			doc.Postings = append(doc.Postings, Posting{Term: term, Field: f.field, TF: tf[term]})
		}
	}

	return doc
}

// PrefixRange возвращает полуинтервал [lo, hi) терминов, начинающихся с token,
// в бинарном порядке UTF-8.
func PrefixRange(token string) (lo, hi string) {
	return token, token + string(utf8.MaxRune)
}

// isUnspaced — письменности, где слова не разделяются пробелами.
func isUnspaced(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Thai, unicode.Lao, unicode.Khmer, unicode.Myanmar)
}

// clean убирает из токена сегментатора пробелы и знаки препинания по краям.
func clean(tok string) string {
	return strings.ToLower(strings.TrimFunc(tok, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}))
}

// keep отбрасывает пустые и однобуквенные латинские токены; цифры и иероглифы сохраняются.
func keep(tok string) bool {
	if tok == "" {
		return false
	}
	if utf8.RuneCountInString(tok) > 1 {
		return true
	}
	r, _ := utf8.DecodeRuneInString(tok)
	return unicode.IsDigit(r) || isUnspaced(r)
}
