// internal/textscan/urls.go
package textscan

import (
	"net/url"
	"strings"

	"github.com/storylens/storylens/pkg/types"
)

// Scanner parses URLs, emails and handle mentions out of free text and
// unwraps redirect-shim URLs. The zero value is not usable; construct with
// NewScanner.
type Scanner struct {
	// PlatformHost is the host used to build profile URLs for @handles.
	PlatformHost string
	// ShimHost is the single-hop redirect host whose true target hides in
	// the ShimParam query parameter.
	ShimHost  string
	ShimParam string
}

// NewScanner returns a scanner configured for the default platform hosts.
func NewScanner() *Scanner {
	return &Scanner{
		PlatformHost: DefaultPlatformHost,
		ShimHost:     DefaultShimHost,
		ShimParam:    DefaultShimParam,
	}
}

// Unwrap resolves a known redirect-shim URL to its true target. The target
// parameter is URL-decoded exactly once. Non-shim URLs pass through
// unchanged, which makes Unwrap idempotent: an already-unwrapped URL no
// longer matches the shim host.
func (s *Scanner) Unwrap(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if !strings.EqualFold(parsed.Host, s.ShimHost) {
		return raw
	}
	target := parsed.Query().Get(s.ShimParam)
	if target == "" {
		return raw
	}
	// Query().Get already applied one decode; the shim stores the target
	// percent-encoded once, so this is the fully decoded URL.
	return target
}

// URLsFromText extracts URL candidates from free text in three independent
// passes: absolute http(s) URLs (shim-unwrapped), email addresses (as
// mailto: URLs with the email domain as the resolved domain) and @handle
// mentions (as platform profile URLs). Results merge into one list
// deduplicated by lowercase text. The handle pass runs on a normalized copy
// of the text where the "handle@" artifact is rewritten to "@handle".
func (s *Scanner) URLsFromText(text string) []types.URLCandidate {
	out := NewURLSet()

	for _, raw := range absoluteURLPattern.FindAllString(text, -1) {
		u := strings.TrimSpace(raw)
		out.Add(types.URLCandidate{
			Text:           s.Unwrap(u),
			ResolvedDomain: ResolveDomain(u),
		})
	}

	for _, raw := range emailPattern.FindAllString(text, -1) {
		email := strings.TrimSpace(raw)
		domain := email[strings.Index(email, "@")+1:]
		out.Add(types.URLCandidate{
			Text:           "mailto:" + email,
			ResolvedDomain: ResolveDomain("http://" + domain),
		})
	}

	normalized := reversedHandlePattern.ReplaceAllString(text, "@$1")
	for _, m := range handlePattern.FindAllStringSubmatch(normalized, -1) {
		out.Add(types.URLCandidate{
			Text:           "https://" + s.PlatformHost + "/" + m[1],
			ResolvedDomain: s.PlatformHost,
		})
	}

	return out.Values()
}

// ResolveDomain returns the host component of a URL, or "" when the URL has
// none.
func ResolveDomain(raw string) string {
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return parsed.Host
}

// URLSet is an insertion-ordered set of URL candidates keyed by lowercase
// text. Re-adding an existing key overwrites the value in place without
// disturbing order, so a later spelling of the same URL wins while keeping
// its first-seen position.
type URLSet struct {
	order []string
	items map[string]types.URLCandidate
}

// NewURLSet returns an empty URL set.
func NewURLSet() *URLSet {
	return &URLSet{items: make(map[string]types.URLCandidate)}
}

// Add inserts a candidate. Blank texts are ignored.
func (s *URLSet) Add(c types.URLCandidate) {
	c.Text = strings.TrimSpace(c.Text)
	if c.Text == "" {
		return
	}
	key := strings.ToLower(c.Text)
	if _, exists := s.items[key]; !exists {
		s.order = append(s.order, key)
	}
	s.items[key] = c
}

// AddAll inserts every candidate in order.
func (s *URLSet) AddAll(cs []types.URLCandidate) {
	for _, c := range cs {
		s.Add(c)
	}
}

// Has reports whether a candidate with the given text is present.
func (s *URLSet) Has(text string) bool {
	_, ok := s.items[strings.ToLower(strings.TrimSpace(text))]
	return ok
}

// Len returns the number of distinct candidates.
func (s *URLSet) Len() int {
	return len(s.order)
}

// Values returns the candidates in first-insertion order.
func (s *URLSet) Values() []types.URLCandidate {
	out := make([]types.URLCandidate, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.items[key])
	}
	return out
}
