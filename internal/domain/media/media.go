package media

import (
	"errors"
	"path/filepath"
	"strings"
)

type MediaType string

const (
	TypeImage MediaType = "image"
	TypeVideo MediaType = "video"
)

const (
	MaxImageDimension = 10000
	MaxVideoDimension = 4096
	MaxVideoDuration  = 600.0
)

// Metadata is derived from uploaded bytes and never stored as an entity.
type Metadata struct {
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mime_type"`
	Size       int64     `json:"size"`
	MediaType  MediaType `json:"media_type"`
	Width      *int      `json:"width,omitempty"`
	Height     *int      `json:"height,omitempty"`
	Channels   *int      `json:"channels,omitempty"`
	Duration   *float64  `json:"duration,omitempty"`
	FPS        *float64  `json:"fps,omitempty"`
	FrameCount *int      `json:"frame_count,omitempty"`
}

// Validation failures produced by the ingestion pipeline.
var (
	ErrUnsupportedExtension = errors.New("unsupported extension")
	ErrUnsupportedMIME      = errors.New("unsupported MIME type")
	ErrCorruptedImage       = errors.New("corrupted image")
	ErrCorruptedVideo       = errors.New("corrupted video")
	ErrInvalidSVG           = errors.New("invalid SVG content")
	ErrInvalidDimensions    = errors.New("invalid dimensions")
	ErrVideoTooLong         = errors.New("video too long")
	ErrUnsafeFilename       = errors.New("unsafe filename")
)

var extensionMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".webm": "video/webm",
}

var imageMIME = map[string]struct{}{
	"image/jpeg":    {},
	"image/png":     {},
	"image/gif":     {},
	"image/svg+xml": {},
}

var videoMIME = map[string]struct{}{
	"video/mp4":       {},
	"video/quicktime": {},
	"video/x-msvideo": {},
	"video/webm":      {},
}

// Ext returns the lowercased extension of name, dot included.
func Ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// MIMEForExtension looks up the fixed table; ok is false for anything unsupported.
func MIMEForExtension(ext string) (string, bool) {
	m, ok := extensionMIME[strings.ToLower(ext)]
	return m, ok
}

// Classify maps a supported MIME type to its media class.
func Classify(mime string) (MediaType, bool) {
	if _, ok := imageMIME[mime]; ok {
		return TypeImage, true
	}
	if _, ok := videoMIME[mime]; ok {
		return TypeVideo, true
	}
	return "", false
}

// SupportedMIMEs lists every MIME type the pipeline accepts.
func SupportedMIMEs() []string {
	out := make([]string, 0, len(imageMIME)+len(videoMIME))
	for m := range imageMIME {
		out = append(out, m)
	}
	for m := range videoMIME {
		out = append(out, m)
	}
	return out
}

// SafeFilename rejects anything that could step outside the upload directory.
func SafeFilename(name string) error {
	if name == "" || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return ErrUnsafeFilename
	}
	return nil
}

type EventType string

const EventTypeStored EventType = "media.stored"

// StoredEvent announces a file that landed in upload storage.
type StoredEvent struct {
	EventType      EventType `json:"event_type"`
	StoredFilename string    `json:"stored_filename"`
	MimeType       string    `json:"mime_type"`
	MediaType      MediaType `json:"media_type"`
	Size           int64     `json:"size"`
	URL            string    `json:"url"`
}
