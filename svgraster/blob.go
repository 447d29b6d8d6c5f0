package svgraster

import (
	"bytes"
	"io"
	"sync"

	"github.com/google/uuid"
)

// MIMETypeSVG is the content type of the sources handed to the decoder.
const MIMETypeSVG = "image/svg+xml"

// Blob is an immutable, addressable in-memory source.
type Blob struct {
	URL  string
	Type string
	data []byte
}

// Open returns a fresh reader over the blob content.
func (b *Blob) Open() io.Reader { return bytes.NewReader(b.data) }

// Size returns the content length in bytes.
func (b *Blob) Size() int { return len(b.data) }

// Registry maps blob URLs to their content, until revoked.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	blobs map[string]*Blob
}

func NewRegistry() *Registry {
	return &Registry{blobs: make(map[string]*Blob)}
}

// Create registers a copy of `data` and returns its handle.
// The handle must be released with Revoke.
func (r *Registry) Create(data []byte, mimeType string) *Blob {
	b := &Blob{
		URL:  "blob:svgpng/" + uuid.NewString(),
		Type: mimeType,
		data: append([]byte(nil), data...),
	}
	r.mu.Lock()
	r.blobs[b.URL] = b
	r.mu.Unlock()
	return b
}

// Lookup resolves a blob URL.
func (r *Registry) Lookup(url string) (*Blob, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blobs[url]
	return b, ok
}

// Revoke releases the blob. Revoking twice is a no-op.
func (r *Registry) Revoke(url string) {
	r.mu.Lock()
	delete(r.blobs, url)
	r.mu.Unlock()
}

// Len returns the number of live blobs.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.blobs)
}
