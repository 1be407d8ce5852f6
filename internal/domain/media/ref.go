// Package media normalizes stored image references into canonical CDN
// delivery URLs. Stored references accumulated several legacy shapes over
// the years: bare filenames, local /media/ paths, half-built Cloudinary
// paths and full URLs.
package media

import (
	"fmt"
	"regexp"
	"strings"
)

// RefKind discriminates the resolved shape of a stored image reference
type RefKind int

const (
	// RefEmpty means no image is stored
	RefEmpty RefKind = iota
	// RefAbsoluteURL means the reference is already a full http(s) URL
	RefAbsoluteURL
	// RefLegacyPath means the reference is a relative path in one of the
	// legacy shapes and needs cleanup
	RefLegacyPath
)

// Ref is a stored image reference classified once at the storage boundary
type Ref struct {
	Kind  RefKind
	Value string
}

// ParseRef classifies a raw stored reference
func ParseRef(raw string) Ref {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return Ref{Kind: RefEmpty}
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return Ref{Kind: RefAbsoluteURL, Value: raw}
	default:
		return Ref{Kind: RefLegacyPath, Value: raw}
	}
}

// ResolverConfig holds the CDN delivery settings for URL construction
type ResolverConfig struct {
	// CloudName is the Cloudinary cloud name used in delivery URLs
	CloudName string
	// CDNHost is the delivery host; a cleaned path already containing it
	// is returned as-is to avoid double-prefixing
	CDNHost string
	// LegacyPrefix is the obsolete project folder stripped from old paths
	LegacyPrefix string
}

// DefaultResolverConfig returns the delivery settings used in production
func DefaultResolverConfig(cloudName string) ResolverConfig {
	return ResolverConfig{
		CloudName:    cloudName,
		CDNHost:      "res.cloudinary.com",
		LegacyPrefix: "yoquet/",
	}
}

// Resolver deterministically resolves stored image references to a single
// canonical absolute URL. It is pure and never touches storage; the batch
// repair pass is the only writer of resolved URLs.
type Resolver struct {
	cfg           ResolverConfig
	uploadMarkers *regexp.Regexp
}

// NewResolver creates a Resolver with the given delivery settings
func NewResolver(cfg ResolverConfig) *Resolver {
	if cfg.CDNHost == "" {
		cfg.CDNHost = "res.cloudinary.com"
	}
	return &Resolver{
		cfg:           cfg,
		uploadMarkers: regexp.MustCompile(`(image/upload/)+`),
	}
}

// Resolve maps a raw stored reference to its canonical URL.
// ok is false when there is no image to serve.
func (r *Resolver) Resolve(raw string) (url string, ok bool) {
	return r.ResolveRef(ParseRef(raw))
}

// ResolveRef resolves an already-classified reference
func (r *Resolver) ResolveRef(ref Ref) (string, bool) {
	switch ref.Kind {
	case RefEmpty:
		return "", false
	case RefAbsoluteURL:
		// Already canonical, returned unchanged.
		return ref.Value, true
	}

	publicID := r.CleanPath(ref.Value)
	if publicID == "" {
		return "", false
	}
	if strings.Contains(publicID, r.cfg.CDNHost) {
		// A delivery URL missing its scheme; do not prefix it again.
		return publicID, true
	}

	return fmt.Sprintf("https://%s/%s/image/upload/%s", r.cfg.CDNHost, r.cfg.CloudName, publicID), true
}

// CleanPath strips the legacy junk out of a stored relative path and
// returns the CDN public identifier. The steps run in a fixed order: the
// redundant leading "productos/" folder is checked against the raw path
// before the legacy project prefix is removed, so "yoquet/productos/x"
// keeps its "productos/" folder while "productos/x" loses it.
func (r *Resolver) CleanPath(path string) string {
	path = strings.TrimLeft(strings.TrimSpace(path), "/")

	// Old migrations duplicated the delivery marker.
	path = r.uploadMarkers.ReplaceAllString(path, "image/upload/")

	path = strings.TrimPrefix(path, "productos/")
	if r.cfg.LegacyPrefix != "" {
		path = strings.ReplaceAll(path, r.cfg.LegacyPrefix, "")
	}
	path = strings.ReplaceAll(path, "media/", "")

	return path
}

// PublicID extracts the CDN public identifier from a canonical delivery
// URL, without the version segment or file extension. Used by the repair
// pass to verify asset existence.
func (r *Resolver) PublicID(url string) string {
	marker := "/image/upload/"
	idx := strings.Index(url, marker)
	if idx < 0 {
		return ""
	}
	id := url[idx+len(marker):]

	// Drop a leading version segment (v1234567890/).
	if strings.HasPrefix(id, "v") {
		if slash := strings.Index(id, "/"); slash > 1 {
			if isDigits(id[1:slash]) {
				id = id[slash+1:]
			}
		}
	}

	// Drop the file extension.
	if dot := strings.LastIndex(id, "."); dot > strings.LastIndex(id, "/") {
		id = id[:dot]
	}
	return id
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
