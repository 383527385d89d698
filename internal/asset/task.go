package asset

import (
	"net/url"
	"path"
	"strings"
	"unicode"
)

// scriptExt marks URLs served by a script; their extension says nothing about
// the payload.
const scriptExt = ".php"

// Task is a single URL to local file download unit.
type Task struct {
	URL       string `json:"url"`
	Kind      Kind   `json:"kind"`
	LocalName string `json:"local_name"`
}

// NewTask normalizes raw and derives the local file name from the result.
func NewTask(raw string, kind Kind) Task {
	u := NormalizeURL(raw)
	return Task{
		URL:       u,
		Kind:      kind,
		LocalName: LocalName(u, kind),
	}
}

// RelPath is the task's path relative to the output root.
func (t Task) RelPath() string {
	return path.Join(t.Kind.Dir(), t.LocalName)
}

// NormalizeURL prepends http:// to values that lack an HTTP(S) scheme. The
// result is not validated.
func NormalizeURL(raw string) string {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "http://" + raw
}

// LocalName keeps only the letters and digits of the whole URL and appends the
// extension of its path, falling back to the kind default.
func LocalName(rawURL string, kind Kind) string {
	ext := path.Ext(urlPath(rawURL))
	if ext == "" || strings.EqualFold(ext, scriptExt) {
		ext = kind.DefaultExt()
	}

	var b strings.Builder
	b.Grow(len(rawURL) + len(ext))
	for _, r := range rawURL {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	b.WriteString(ext)
	return b.String()
}

func urlPath(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		return u.EscapedPath()
	}

	// url.Parse rejects some hosted-content links (bad escapes, spaces in the
	// host); cut scheme, host, query and fragment by hand instead.
	s := rawURL
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
		if j := strings.IndexByte(s, '/'); j >= 0 {
			return s[j:]
		}
		return ""
	}
	return s
}
