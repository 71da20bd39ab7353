package normalize

import (
	"errors"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// CanonicalLayout — единый формат хранения времени: RFC3339 в UTC с точностью до секунды.
// Строки фиксированной ширины, поэтому лексикографический порядок совпадает с хронологическим.
const CanonicalLayout = time.RFC3339

// layouts — строгие форматы, которые пробуются до «свободного» разбора.
var layouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	time.RFC1123Z,                   // Mon, 02 Jan 2006 15:04:05 -0700
	time.RFC1123,                    // Mon, 02 Jan 2006 15:04:05 MST
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 02 Jan 06 15:04:05 -0700", // 2-digit year
	"Mon, 02 Jan 06 15:04:05 MST",
	time.RFC822Z,
	time.RFC822,
	"2006-01-02",
	"2006-01-02 15:04:05",
}

// ParseTime разбирает дату в одном из поддерживаемых форматов и возвращает UTC,
// усечённое до секунды. Даты без зоны трактуются как UTC.
func ParseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty date")
	}

	for _, l := range layouts {
		if t, err := time.Parse(l, value); err == nil {
			return withZoneOffset(t).UTC().Truncate(time.Second), nil
		}
	}

	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, err
	}

	return t.UTC().Truncate(time.Second), nil
}

// rfc822Zones — смещения буквенных зон RFC 822 (obs-zone), секунды к востоку от UTC.
var rfc822Zones = map[string]int{
	"EST": -5 * 3600, "EDT": -4 * 3600,
	"CST": -6 * 3600, "CDT": -5 * 3600,
	"MST": -7 * 3600, "MDT": -6 * 3600,
	"PST": -8 * 3600, "PDT": -7 * 3600,
}

// withZoneOffset исправляет результат time.Parse для буквенной зоны.
// Незнакомую локальной базе аббревиатуру time.Parse принимает с нулевым смещением,
// поэтому зоны RFC 822 переводятся в фиксированное смещение с тем же настенным временем.
func withZoneOffset(t time.Time) time.Time {
	name, offset := t.Zone()
	if offset != 0 {
		return t
	}

	fixed, ok := rfc822Zones[strings.ToUpper(name)]
	if !ok {
		return t
	}

	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(),
		time.FixedZone(name, fixed))
}

// PublishedAt — ParseTime с откатом на время загрузки для пустых и битых дат.
// ok=false сообщает, что был применён откат.
func PublishedAt(value string, fetchedAt time.Time) (time.Time, bool) {
	t, err := ParseTime(value)
	if err != nil {
		return fetchedAt.UTC().Truncate(time.Second), false
	}
	return t, true
}

// FormatTime переводит время в канонический вид для хранения.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Truncate(time.Second).Format(CanonicalLayout)
}

// ParseCanonical — обратная к FormatTime операция, пустая строка даёт нулевое время.
func ParseCanonical(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(CanonicalLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
