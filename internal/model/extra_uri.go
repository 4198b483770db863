package model

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var errEmptyURI = errors.New("empty uri")

// LinkExtra attaches a web link to a topic.
type LinkExtra struct {
	raw string
	uri *url.URL
}

// ParseLinkExtra validates raw as a URI. Surrounding blanks are trimmed.
func ParseLinkExtra(raw string) (*LinkExtra, error) {
	value, u, err := parseURI(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse link: %w", err)
	}
	return &LinkExtra{raw: value, uri: u}, nil
}

func (e *LinkExtra) Type() ExtraType { return ExtraLink }

func (e *LinkExtra) Value() string { return e.raw }

// URL returns a copy of the parsed link.
func (e *LinkExtra) URL() *url.URL {
	u := *e.uri
	return &u
}

// Equal compares the exact string form, so query parameter order matters.
func (e *LinkExtra) Equal(other Extra) bool {
	o, ok := other.(*LinkExtra)
	return ok && o.raw == e.raw
}

func (e *LinkExtra) ContainsPattern(_ string, pattern *regexp.Regexp) bool {
	return pattern.MatchString(e.raw)
}

// FileExtra attaches a file reference to a topic. Relative references are
// resolved against the document's base folder.
type FileExtra struct {
	raw string
	uri *url.URL
}

// ParseFileExtra validates raw as a URI. Surrounding blanks are trimmed.
func ParseFileExtra(raw string) (*FileExtra, error) {
	value, u, err := parseURI(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file reference: %w", err)
	}
	return &FileExtra{raw: value, uri: u}, nil
}

// NewFileExtraFromPath builds a file reference from a filesystem path.
// Absolute paths become file: URIs, relative paths stay relative.
// A positive line is stored as the "line" query parameter.
func NewFileExtraFromPath(path string, line int) (*FileExtra, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errEmptyURI
	}
	u := &url.URL{Path: filepath.ToSlash(path)}
	if filepath.IsAbs(path) {
		u.Scheme = "file"
		if !strings.HasPrefix(u.Path, "/") {
			u.Path = "/" + u.Path
		}
	}
	if line > 0 {
		u.RawQuery = url.Values{"line": []string{strconv.Itoa(line)}}.Encode()
	}
	return ParseFileExtra(u.String())
}

func (e *FileExtra) Type() ExtraType { return ExtraFile }

func (e *FileExtra) Value() string { return e.raw }

func (e *FileExtra) Equal(other Extra) bool {
	o, ok := other.(*FileExtra)
	return ok && o.raw == e.raw
}

// IsAbsolute reports whether the reference carries a scheme or an absolute path.
func (e *FileExtra) IsAbsolute() bool {
	return e.uri.Scheme != "" || strings.HasPrefix(e.uri.Path, "/")
}

// Line returns the line number stored with the reference, or 0.
func (e *FileExtra) Line() int {
	n, err := strconv.Atoi(e.uri.Query().Get("line"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// FilePath resolves the reference to a cleaned filesystem path.
func (e *FileExtra) FilePath(baseFolder string) string {
	p := filepath.FromSlash(e.uri.Path)
	if e.uri.Scheme == "" && !filepath.IsAbs(p) && baseFolder != "" {
		p = filepath.Join(baseFolder, p)
	}
	return filepath.Clean(p)
}

// ContainsPattern matches against the stored form and the resolved path.
func (e *FileExtra) ContainsPattern(baseFolder string, pattern *regexp.Regexp) bool {
	if pattern.MatchString(e.raw) {
		return true
	}
	return e.uri.Path != "" && pattern.MatchString(e.FilePath(baseFolder))
}

// withPath returns a copy pointing at a new path, keeping scheme and query.
func (e *FileExtra) withPath(baseFolder, newPath string) (*FileExtra, error) {
	u := *e.uri
	if e.uri.Scheme == "" && !filepath.IsAbs(filepath.FromSlash(e.uri.Path)) && baseFolder != "" {
		if rel, err := filepath.Rel(baseFolder, newPath); err == nil && !strings.HasPrefix(rel, "..") {
			newPath = rel
		}
	}
	u.Path = filepath.ToSlash(newPath)
	u.RawPath = ""
	return ParseFileExtra(u.String())
}

func parseURI(raw string) (string, *url.URL, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", nil, errEmptyURI
	}
	for _, r := range value {
		if r <= ' ' || r == 0x7f {
			return "", nil, fmt.Errorf("illegal character %q in uri %q", r, value)
		}
	}
	u, err := url.Parse(value)
	if err != nil {
		return "", nil, err
	}
	return value, u, nil
}
