// Package resolver picks the local file name for a download and keeps it
// from clobbering files that already exist.
package resolver

import (
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/vertextoedge/vidfetch/internal/domain/vo"
	"github.com/vertextoedge/vidfetch/internal/port"
)

// DefaultFallbackName is used when neither the response nor the URL yields a name
const DefaultFallbackName = "downloaded_video.mp4"

// maxCollisionProbes bounds the "stem (n)ext" search
const maxCollisionProbes = 10000

// Resolver derives destination paths
type Resolver struct {
	fs       port.FileSystem
	fallback vo.FileName
	logger   *zap.Logger
}

// New creates a resolver. An empty or invalid fallback is replaced by DefaultFallbackName.
func New(fs port.FileSystem, fallback string, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	fb, err := vo.NewFileName(fallback)
	if err != nil {
		fb = vo.MustFileName(DefaultFallbackName)
	}
	return &Resolver{
		fs:       fs,
		fallback: fb,
		logger:   logger,
	}
}

// Fallback returns the configured fallback name
func (r *Resolver) Fallback() string {
	return r.fallback.String()
}

// FileName picks a name from the response headers, then the URL, then the fallback.
// Within the header, filename* is tried before filename.
// It never fails: unusable candidates fall through to the next source.
func (r *Resolver) FileName(header http.Header, rawURL string) vo.FileName {
	if header != nil {
		extended, plain := DispositionNames(header.Get("Content-Disposition"))
		for _, candidate := range []string{extended, plain} {
			if name, ok := sanitize(candidate); ok {
				return name
			}
		}
	}
	if name, ok := sanitize(URLFileName(rawURL)); ok {
		return name
	}
	return r.fallback
}

// UniquePath returns dir/name, or the first "stem (n)ext" variant that does not exist yet.
// The check is advisory: a file created between this call and the open is overwritten.
func (r *Resolver) UniquePath(dir string, name vo.FileName) (string, error) {
	candidate := name.In(dir)
	for n := 1; n <= maxCollisionProbes; n++ {
		exists, err := r.fs.Exists(candidate)
		if err != nil {
			return "", fmt.Errorf("failed to probe %s: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
		r.logger.Debug("Destination exists, trying next name",
			zap.String("path", candidate),
			zap.Int("attempt", n))
		candidate = name.WithCounter(n).In(dir)
	}
	return "", fmt.Errorf("no free name for %s after %d attempts", name, maxCollisionProbes)
}

// Resolve combines FileName and UniquePath
func (r *Resolver) Resolve(header http.Header, rawURL, dir string) (string, error) {
	return r.UniquePath(dir, r.FileName(header, rawURL))
}

// DispositionFileName returns the non-empty filename* value of a Content-Disposition
// header, else its filename value, else "".
func DispositionFileName(value string) string {
	extended, plain := DispositionNames(value)
	if extended != "" {
		return extended
	}
	return plain
}

// DispositionNames returns the decoded filename* and filename parameters of a
// Content-Disposition value. Parsing is lenient: unquoted names with spaces,
// a missing disposition type and unknown charsets are all accepted.
func DispositionNames(value string) (extended, plain string) {
	for _, part := range splitParams(value) {
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "filename*":
			if extended == "" {
				extended = decodeExtValue(strings.TrimSpace(val))
			}
		case "filename":
			if plain == "" {
				plain = unquote(strings.TrimSpace(val))
			}
		}
	}
	return extended, plain
}

// splitParams splits on semicolons outside quoted strings
func splitParams(value string) []string {
	var (
		parts   []string
		current strings.Builder
		quoted  bool
		escaped bool
	)
	for _, c := range value {
		switch {
		case escaped:
			escaped = false
		case quoted && c == '\\':
			escaped = true
		case c == '"':
			quoted = !quoted
		case c == ';' && !quoted:
			parts = append(parts, current.String())
			current.Reset()
			continue
		}
		current.WriteRune(c)
	}
	return append(parts, current.String())
}

// unquote strips a quoted-string, undoing \" and \\ escapes
func unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		v = v[1 : len(v)-1]
		v = strings.NewReplacer(`\"`, `"`, `\\`, `\`).Replace(v)
	}
	return trimQuotes(v)
}

// decodeExtValue decodes charset'lang'pct-encoded
func decodeExtValue(v string) string {
	v = trimQuotes(v)
	charset, encoded := "", v
	if cs, rest, ok := strings.Cut(v, "'"); ok {
		charset = cs
		if _, after, ok := strings.Cut(rest, "'"); ok {
			encoded = after
		} else {
			encoded = rest
		}
	}
	decoded, err := url.PathUnescape(encoded)
	if err != nil {
		return encoded
	}
	return trimQuotes(decodeCharset(charset, decoded))
}

// decodeCharset converts s from the named charset to UTF-8.
// Unknown charsets leave s untouched.
func decodeCharset(charset, s string) string {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8", "us-ascii":
		return s
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return s
	}
	out, err := enc.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return out
}

// URLFileName returns the decoded last path segment of rawURL, or "" when there is none
func URLFileName(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	p := u.Path
	if p == "" || strings.HasSuffix(p, "/") {
		return ""
	}
	last := path.Base(p)
	if last == "/" || last == "." {
		return ""
	}
	return last
}

func sanitize(raw string) (vo.FileName, bool) {
	if raw == "" {
		return vo.FileName{}, false
	}
	name, err := vo.NewFileName(raw)
	if err != nil {
		return vo.FileName{}, false
	}
	return name, true
}

func trimQuotes(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}
