// redact маскирует секреты перед логированием и отдачей наружу.
package redact

import "unicode/utf8"

// Secret оставляет последние 4 символа ключа, остальное скрывает.
// Короткие значения скрываются полностью, пустая строка остаётся пустой.
func Secret(s string) string {
	if s == "" {
		return ""
	}

	n := utf8.RuneCountInString(s)
	if n <= 8 {
		return "***"
	}

	r := []rune(s)
	return "***" + string(r[n-4:])
}

// IsMasked сообщает, что значение получено из Secret и не является настоящим ключом.
// Используется при обновлении настроек: клиент присылает назад маску, а не ключ.
func IsMasked(s string) bool {
	return len(s) >= 3 && s[:3] == "***"
}
