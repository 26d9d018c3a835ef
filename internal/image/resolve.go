package image

import (
	"os"
	"path"
	"path/filepath"
)

// PlaceholderPath is served whenever an entity has no stored reference.
const PlaceholderPath = "assets/img/placeholder.png"

// Resolve turns a stored {reference, origin} pair into a displayable path.
// URL references pass through verbatim; uploads are rooted in the processor's
// upload directory. An empty reference always resolves to the placeholder.
func (p *Processor) Resolve(reference string, origin Origin) string {
	if reference == "" {
		return PlaceholderPath
	}
	if origin == OriginURL {
		return reference
	}
	return path.Join(filepath.ToSlash(p.uploadDir), reference)
}

// Retire deletes the stored file behind a retired contribution. It only acts
// on uploads that still exist; URL references never touch the filesystem.
// The boolean reports whether a file was actually removed.
func (p *Processor) Retire(reference string, origin Origin) bool {
	if origin != OriginUpload || reference == "" {
		return false
	}

	target := filepath.Join(p.uploadDir, filepath.Base(reference))
	if _, err := os.Stat(target); err != nil {
		return false
	}

	return os.Remove(target) == nil
}
