// normalize приводит сырые кандидаты к инвариантам домена:
// канонический URL, единый формат времени, бюджет длины текста, отпечаток.
package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ErrBadURL — ссылка не является абсолютным http(s) URL.
var ErrBadURL = errors.New("bad url")

// trackingKeys — параметры запроса, не влияющие на содержимое страницы.
var trackingKeys = map[string]struct{}{
	"fbclid": {}, "gclid": {}, "yclid": {}, "igshid": {}, "mc_cid": {}, "mc_eid": {},
	"ref": {}, "ref_src": {}, "spm": {},
}

// CanonicalURL возвращает ключ дедупликации:
//   - пробелы по краям убираются;
//   - схема и хост в нижнем регистре, порт по умолчанию отбрасывается;
//   - фрагмент и трекинговые параметры (utm_*, *clid, mc_*) удаляются, порядок параметров сортируется;
//   - завершающий "/" пути убирается (корень превращается в пустой путь).
//
// Регистр пути сохраняется: для большинства серверов он значим.
func CanonicalURL(raw string) (string, error) {
	const op = "normalize.CanonicalURL"

	str := strings.TrimSpace(raw)
	if str == "" {
		return "", fmt.Errorf("%s: empty: %w", op, ErrBadURL)
	}

	u, err := url.Parse(str)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %v", op, ErrBadURL, err)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%s: scheme %q: %w", op, u.Scheme, ErrBadURL)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", fmt.Errorf("%s: no host: %w", op, ErrBadURL)
	}

	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		port = ""
	}
	switch {
	case port != "":
		u.Host = net.JoinHostPort(host, port)
	case strings.Contains(host, ":"):
		u.Host = "[" + host + "]"
	default:
		u.Host = host
	}

	u.User = nil
	u.Fragment = ""
	u.RawFragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if _, ok := trackingKeys[lk]; ok || strings.HasPrefix(lk, "utm_") || strings.HasSuffix(lk, "clid") || strings.HasPrefix(lk, "mc_") {
			q.Del(k)
		}
	}
	u.RawQuery = q.Encode()

	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""

	return u.String(), nil
}

// Fingerprint — стабильный отпечаток материала по каноническому URL и заголовку.
func Fingerprint(canonicalURL, title string) string {
	h := sha256.Sum256([]byte(canonicalURL + "\n" + strings.ToLower(strings.TrimSpace(title))))
	return hex.EncodeToString(h[:16])
}

// PlaceholderImage строит детерминированную заглушку обложки по отпечатку.
func PlaceholderImage(fingerprint string) string {
	seed := fingerprint
	if len(seed) > 12 {
		seed = seed[:12]
	}
	return "https://picsum.photos/seed/" + seed + "/640/360"
}

// Resolve превращает ссылку со страницы в абсолютную относительно base.
// Не-http(s) ссылки (mailto:, javascript:) отбрасываются.
func Resolve(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	abs := ref
	if base != nil {
		abs = base.ResolveReference(ref)
	}

	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}

	return abs.String(), true
}
