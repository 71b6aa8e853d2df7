// internal/textscan/harvest.go
package textscan

import (
	"strings"

	"github.com/storylens/storylens/pkg/types"
)

// Harvester recursively walks arbitrarily nested decoded-JSON values and
// collects every absolute http(s) string, excluding raw media files hosted
// on known CDN domains.
type Harvester struct {
	// CDNSuffixes are host suffixes of asset-delivery domains. A URL is
	// excluded only when its host matches one of these AND its path ends in
	// a known media file extension; either condition alone keeps the URL
	// (tracking pixels, API blobs and genuine link stickers survive).
	CDNSuffixes []string

	// Scanner unwraps shim URLs before they enter the accumulator, keeping
	// the no-shim-redirects invariant at every insertion point.
	Scanner *Scanner
}

// NewHarvester returns a harvester with the default CDN suffix set, sharing
// the given scanner for shim unwrapping.
func NewHarvester(scanner *Scanner) *Harvester {
	return &Harvester{
		CDNSuffixes: DefaultCDNSuffixes(),
		Scanner:     scanner,
	}
}

// Harvest walks v depth-first. Input is decoded API JSON, practically
// shallow, so recursion is unbounded. String values that are absolute URLs
// and survive the CDN-media exclusion are unwrapped and inserted into out.
func (h *Harvester) Harvest(v interface{}, out *URLSet) {
	switch val := v.(type) {
	case string:
		h.harvestString(val, out)
	case map[string]interface{}:
		for _, nested := range val {
			h.Harvest(nested, out)
		}
	case []interface{}:
		for _, nested := range val {
			h.Harvest(nested, out)
		}
	}
}

func (h *Harvester) harvestString(s string, out *URLSet) {
	u := strings.TrimSpace(s)
	if !absoluteURLPrefix.MatchString(u) {
		return
	}
	if h.isCDNMediaURL(u) {
		return
	}
	unwrapped := h.Scanner.Unwrap(u)
	out.Add(types.URLCandidate{
		Text:           unwrapped,
		ResolvedDomain: ResolveDomain(unwrapped),
	})
}

// isCDNMediaURL reports whether u is a raw media file on a known CDN host.
// Both conditions must hold for exclusion.
func (h *Harvester) isCDNMediaURL(u string) bool {
	host := strings.ToLower(ResolveDomain(u))
	if host == "" {
		return false
	}
	onCDN := false
	for _, suffix := range h.CDNSuffixes {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			onCDN = true
			break
		}
	}
	return onCDN && mediaFilePattern.MatchString(u)
}
