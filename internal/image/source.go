package image

import (
	"net/url"
	"strings"
)

// Origin discriminates whether an image reference is a locally stored upload
// or a remote URL.
type Origin string

const (
	OriginUpload Origin = "upload"
	OriginURL    Origin = "url"
)

// Contribution is the canonical result of ingesting one image source.
type Contribution struct {
	Origin    Origin `json:"origin"`
	Reference string `json:"reference"`
}

// MaxUploadSize is the inclusive upload ceiling: exactly this many bytes is
// still accepted.
const MaxUploadSize = 5 << 20

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var allowedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// FileMeta describes a not-yet-transmitted file as the client sees it.
type FileMeta struct {
	Name         string
	DeclaredType string
	Size         int64
}

type activeSource int

const (
	sourceNone activeSource = iota
	sourceFile
	sourceURL
)

// Picker is the pre-submission validator for one ingestion form. Each form
// owns its own Picker, so several forms can coexist on a page. Choosing one
// source locks the other input until Clear or a failed preview.
type Picker struct {
	active activeSource
	file   FileMeta
	url    string
}

func NewPicker() *Picker {
	return &Picker{}
}

// ChooseFile validates the declared type and size before any preview is
// rendered. A rejected file resets the input and leaves nothing selected.
func (p *Picker) ChooseFile(meta FileMeta) error {
	if p.active == sourceURL {
		return ErrInputLocked
	}

	if !allowedTypes[strings.ToLower(meta.DeclaredType)] {
		p.resetFile()
		return ErrBadImageType
	}
	if meta.Size > MaxUploadSize {
		p.resetFile()
		return ErrTooLarge
	}

	p.active = sourceFile
	p.file = meta
	return nil
}

// EnterURL mirrors ChooseFile for the URL input. The URL counts as selected
// only while its preview has not failed; see PreviewFailed.
func (p *Picker) EnterURL(rawURL string) error {
	if p.active == sourceFile {
		return ErrInputLocked
	}

	rawURL = strings.TrimSpace(rawURL)
	if !isAbsoluteURL(rawURL) {
		return ErrMalformedURL
	}

	p.active = sourceURL
	p.url = rawURL
	return nil
}

// PreviewFailed is called when the entered URL did not load as an image. It
// clears the URL and unlocks the file input again.
func (p *Picker) PreviewFailed() {
	if p.active == sourceURL {
		p.active = sourceNone
		p.url = ""
	}
}

// Clear resets both inputs to enabled and empty.
func (p *Picker) Clear() {
	p.active = sourceNone
	p.file = FileMeta{}
	p.url = ""
}

// Validate fails closed: submission is blocked unless one source is selected.
func (p *Picker) Validate() error {
	if p.active == sourceNone {
		return ErrNoSource
	}
	return nil
}

// Selected reports the active source for submission.
func (p *Picker) Selected() (origin Origin, ok bool) {
	switch p.active {
	case sourceFile:
		return OriginUpload, true
	case sourceURL:
		return OriginURL, true
	default:
		return "", false
	}
}

// URL returns the entered URL while it is the active source.
func (p *Picker) URL() string {
	if p.active != sourceURL {
		return ""
	}
	return p.url
}

// File returns the chosen file while it is the active source.
func (p *Picker) File() (FileMeta, bool) {
	if p.active != sourceFile {
		return FileMeta{}, false
	}
	return p.file, true
}

func (p *Picker) resetFile() {
	if p.active == sourceFile {
		p.active = sourceNone
	}
	p.file = FileMeta{}
}

func isAbsoluteURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
