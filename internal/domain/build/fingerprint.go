package build

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint identifies one build's inputs. Two builds with the same RenderHash produce the
// same public directory.
type Fingerprint struct {
	CatalogHash  string
	ThemeHash    string
	ConfigHash   string
	RendererHash string
	RenderHash   string
}

func (f *Fingerprint) ComputeRenderHash() {
	h := sha256.New()
	for _, part := range []string{f.CatalogHash, f.ThemeHash, f.ConfigHash, f.RendererHash} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	f.RenderHash = hex.EncodeToString(h.Sum(nil))
}

func (f Fingerprint) Matches(other Fingerprint) bool {
	return f.RenderHash != "" && f.RenderHash == other.RenderHash
}
