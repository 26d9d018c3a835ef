package image

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"byteshop-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Processor is the authoritative half of image ingestion. It decides against
// the actually-received payload, never against what the client claimed.
type Processor struct {
	uploadDir string
	probe     Prober
}

func NewProcessor(uploadDir string, probe Prober) *Processor {
	return &Processor{uploadDir: uploadDir, probe: probe}
}

func (p *Processor) UploadDir() string {
	return p.uploadDir
}

// Process ingests one image source. When both a file and a URL arrive, the
// file wins and the URL is ignored entirely.
func (p *Processor) Process(ctx context.Context, file *multipart.FileHeader, rawURL string) (*Contribution, error) {
	hasFile := file != nil
	hasURL := strings.TrimSpace(rawURL) != ""

	switch {
	case hasFile:
		return p.processFile(ctx, file)
	case hasURL:
		return p.processURL(ctx, strings.TrimSpace(rawURL))
	default:
		return nil, ErrNoSource
	}
}

func (p *Processor) processFile(ctx context.Context, fh *multipart.FileHeader) (*Contribution, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "image"),
		zap.String("method", "processFile"),
		zap.String("filename", fh.Filename),
		zap.Int64("size", fh.Size),
	)

	if fh.Size > MaxUploadSize {
		return nil, ErrTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}
	defer f.Close()

	// Sniff the real media type from the first bytes; the client-declared
	// Content-Type is not trusted.
	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return nil, &StorageError{Op: "read", Err: err}
	}
	sniffed := http.DetectContentType(head[:n])
	if !allowedTypes[sniffed] {
		log.Warn("upload rejected", zap.String("sniffed_type", sniffed))
		return nil, ErrBadImageType
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, &StorageError{Op: "seek", Err: err}
	}

	if err := os.MkdirAll(p.uploadDir, 0o755); err != nil {
		return nil, &StorageError{Op: "mkdir", Err: err}
	}

	name := uuid.New().String() + extensionFor(fh.Filename, sniffed)
	dst := filepath.Join(p.uploadDir, name)

	out, err := os.Create(dst)
	if err != nil {
		return nil, &StorageError{Op: "create", Err: err}
	}

	if _, err := io.Copy(out, f); err != nil {
		out.Close()
		os.Remove(dst)
		return nil, &StorageError{Op: "write", Err: err}
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return nil, &StorageError{Op: "close", Err: err}
	}

	log.Info("upload stored", zap.String("reference", name))

	return &Contribution{Origin: OriginUpload, Reference: name}, nil
}

func (p *Processor) processURL(ctx context.Context, rawURL string) (*Contribution, error) {
	if !isAbsoluteURL(rawURL) {
		return nil, ErrMalformedURL
	}

	contentType, err := p.probe.Check(ctx, rawURL)
	if err != nil {
		return nil, &ReachabilityError{URL: rawURL, Err: err}
	}

	// Unrecognized path extensions fall back to the probe's content type.
	if !allowedExts[strings.ToLower(filepath.Ext(urlPath(rawURL)))] {
		if !strings.HasPrefix(contentType, "image/") {
			return nil, ErrBadImageType
		}
	}

	return &Contribution{Origin: OriginURL, Reference: rawURL}, nil
}

// extensionFor keeps the original extension when it is a known image
// extension, otherwise derives one from the sniffed type.
func extensionFor(filename, sniffed string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if allowedExts[ext] {
		return ext
	}

	switch sniffed {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ext
}

func urlPath(rawURL string) string {
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		rawURL = rawURL[:i]
	}
	return rawURL
}
