package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestResolver() *Resolver {
	return NewResolver(DefaultResolverConfig("demo"))
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		raw  string
		kind RefKind
	}{
		{"", RefEmpty},
		{"   ", RefEmpty},
		{"https://res.cloudinary.com/demo/image/upload/foo.jpg", RefAbsoluteURL},
		{"http://example.com/foo.jpg", RefAbsoluteURL},
		{"foo.jpg", RefLegacyPath},
		{"/media/productos/foo.jpg", RefLegacyPath},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.kind, ParseRef(tt.raw).Kind, "raw=%q", tt.raw)
	}
}

func TestResolve(t *testing.T) {
	r := newTestResolver()

	t.Run("empty reference has no image", func(t *testing.T) {
		url, ok := r.Resolve("")
		assert.False(t, ok)
		assert.Empty(t, url)
	})

	t.Run("absolute URL returned unchanged", func(t *testing.T) {
		canonical := "https://res.cloudinary.com/demo/image/upload/productos/foo.jpg"
		url, ok := r.Resolve(canonical)
		assert.True(t, ok)
		assert.Equal(t, canonical, url)
	})

	t.Run("idempotent on its own output", func(t *testing.T) {
		first, ok := r.Resolve("yoquet/productos/foo.jpg")
		assert.True(t, ok)
		second, ok := r.Resolve(first)
		assert.True(t, ok)
		assert.Equal(t, first, second)
	})

	t.Run("legacy project prefix stripped, folder kept", func(t *testing.T) {
		url, ok := r.Resolve("yoquet/productos/foo.jpg")
		assert.True(t, ok)
		assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/productos/foo.jpg", url)
	})

	t.Run("bare filename gets the delivery template", func(t *testing.T) {
		url, ok := r.Resolve("foo.jpg")
		assert.True(t, ok)
		assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/foo.jpg", url)
	})

	t.Run("leading productos folder on a bare path is dropped", func(t *testing.T) {
		url, ok := r.Resolve("productos/foo.jpg")
		assert.True(t, ok)
		assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/foo.jpg", url)
	})

	t.Run("local media path", func(t *testing.T) {
		url, ok := r.Resolve("/media/productos/foo.jpg")
		assert.True(t, ok)
		assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/productos/foo.jpg", url)
	})

	t.Run("repeated upload markers collapse", func(t *testing.T) {
		cleaned := r.CleanPath("image/upload/image/upload/foo.jpg")
		assert.Equal(t, "image/upload/foo.jpg", cleaned)
	})

	t.Run("path already naming the CDN host is not double-prefixed", func(t *testing.T) {
		url, ok := r.Resolve("res.cloudinary.com/demo/image/upload/foo.jpg")
		assert.True(t, ok)
		assert.Equal(t, "res.cloudinary.com/demo/image/upload/foo.jpg", url)
	})

	t.Run("path that cleans to nothing has no image", func(t *testing.T) {
		url, ok := r.Resolve("///yoquet/")
		assert.False(t, ok)
		assert.Empty(t, url)
	})

	t.Run("unknown extensions pass through untouched", func(t *testing.T) {
		url, ok := r.Resolve("foo.heic")
		assert.True(t, ok)
		assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/foo.heic", url)
	})
}

func TestPublicID(t *testing.T) {
	r := newTestResolver()

	tests := []struct {
		url  string
		want string
	}{
		{"https://res.cloudinary.com/demo/image/upload/productos/foo.jpg", "productos/foo"},
		{"https://res.cloudinary.com/demo/image/upload/v1712345678/productos/foo.webp", "productos/foo"},
		{"https://res.cloudinary.com/demo/image/upload/foo", "foo"},
		{"https://example.com/foo.jpg", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, r.PublicID(tt.url), "url=%q", tt.url)
	}
}
