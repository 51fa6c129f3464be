package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/pjackim/webbuddy/adapters/metrics"
	"github.com/pjackim/webbuddy/internal/application/service"
	"github.com/pjackim/webbuddy/internal/domain/media"
	"github.com/pjackim/webbuddy/pkg/apperror"
	"github.com/pjackim/webbuddy/pkg/logger"
)

const sniffLen = 2048

// Pipeline turns uploaded bytes into validated metadata. It never touches
// the canvas store.
type Pipeline struct {
	prober  service.VideoProber
	probes  *semaphore.Weighted
	timeout time.Duration
	tempDir string
	logger  logger.Logger
}

func NewPipeline(prober service.VideoProber, workers int64, timeout time.Duration, log logger.Logger) *Pipeline {
	if workers <= 0 {
		workers = 1
	}
	return &Pipeline{
		prober:  prober,
		probes:  semaphore.NewWeighted(workers),
		timeout: timeout,
		logger:  log.With(zap.String("component", "media-pipeline")),
	}
}

func invalid(rule error, details string) error {
	return apperror.NewValidation(rule, details)
}

// Extract validates data against the declared filename and returns its metadata.
func (p *Pipeline) Extract(ctx context.Context, filename string, data []byte) (*media.Metadata, error) {
	ext := media.Ext(filename)
	extMIME, ok := media.MIMEForExtension(ext)
	if !ok {
		return nil, invalid(media.ErrUnsupportedExtension, fmt.Sprintf("extension %q is not supported", ext))
	}

	mime := sniff(data, extMIME)
	kind, ok := media.Classify(mime)
	if !ok {
		return nil, invalid(media.ErrUnsupportedMIME, fmt.Sprintf("content detected as %q", mime))
	}

	meta := &media.Metadata{
		Filename:  filename,
		MimeType:  mime,
		Size:      int64(len(data)),
		MediaType: kind,
	}

	start := time.Now()
	var err error
	switch {
	case mime == "image/svg+xml":
		err = checkSVG(data)
	case kind == media.TypeImage:
		err = p.fillImage(meta, data)
	default:
		err = p.fillVideo(ctx, meta, ext, data)
	}
	if err != nil {
		return nil, err
	}
	metrics.RecordProbe(string(kind), time.Since(start).Seconds())
	return meta, nil
}

// sniff inspects the leading bytes; a generic answer defers to the extension.
func sniff(data []byte, extMIME string) string {
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	detected := mimetype.Detect(head)
	if detected.Is("application/octet-stream") {
		return extMIME
	}
	for m := detected; m != nil; m = m.Parent() {
		for _, supported := range media.SupportedMIMEs() {
			if m.Is(supported) {
				return supported
			}
		}
	}
	mime, _, _ := strings.Cut(detected.String(), ";")
	return strings.TrimSpace(mime)
}

func checkSVG(data []byte) error {
	if !bytes.Contains(bytes.ToLower(data), []byte("<svg")) {
		return invalid(media.ErrInvalidSVG, "no <svg> root element found")
	}
	return nil
}

func (p *Pipeline) fillImage(meta *media.Metadata, data []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return invalid(media.ErrCorruptedImage, err.Error())
	}
	if err := checkDimensions(cfg.Width, cfg.Height, media.MaxImageDimension); err != nil {
		return err
	}

	// Size comes from the header; a decoded GIF is only its first frame,
	// which may be smaller than the canvas.
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return invalid(media.ErrCorruptedImage, err.Error())
	}

	w, h, c := cfg.Width, cfg.Height, channels(img)
	meta.Width, meta.Height, meta.Channels = &w, &h, &c
	return nil
}

func channels(img image.Image) int {
	switch m := img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	case *image.NRGBA, *image.NRGBA64, *image.CMYK:
		return 4
	case *image.Paletted:
		for _, c := range m.Palette {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return 4
			}
		}
		return 3
	default:
		return 3
	}
}

func checkDimensions(w, h, limit int) error {
	if w <= 0 || h <= 0 || w > limit || h > limit {
		return invalid(media.ErrInvalidDimensions, fmt.Sprintf("%dx%d is outside 1..%d", w, h, limit))
	}
	return nil
}

func (p *Pipeline) fillVideo(ctx context.Context, meta *media.Metadata, ext string, data []byte) error {
	if err := p.probes.Acquire(ctx, 1); err != nil {
		return apperror.NewInternal("waiting for a probe worker", err)
	}
	defer p.probes.Release(1)

	tmp, err := os.CreateTemp(p.tempDir, "webbuddy-probe-*"+ext)
	if err != nil {
		return apperror.NewInternal("failed to create temp file for probing", err)
	}
	path := tmp.Name()
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			p.logger.Warn("failed to remove probe temp file", zap.String("path", path), zap.Error(rmErr))
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperror.NewInternal("failed to write temp file for probing", err)
	}
	if err := tmp.Close(); err != nil {
		return apperror.NewInternal("failed to flush temp file for probing", err)
	}

	probeCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	probe, err := p.prober.Probe(probeCtx, path)
	if err != nil {
		if errors.Is(probeCtx.Err(), context.DeadlineExceeded) {
			return apperror.NewInternal("video probe timed out", err)
		}
		if ctx.Err() != nil {
			return apperror.NewInternal("video probe cancelled", err)
		}
		return invalid(media.ErrCorruptedVideo, err.Error())
	}

	if err := checkDimensions(probe.Width, probe.Height, media.MaxVideoDimension); err != nil {
		return err
	}
	duration := 0.0
	if probe.FPS > 0 {
		duration = float64(probe.FrameCount) / probe.FPS
	}
	if duration > media.MaxVideoDuration {
		return invalid(media.ErrVideoTooLong, fmt.Sprintf("%.1fs exceeds %.0fs", duration, media.MaxVideoDuration))
	}

	w, h, fps, frames := probe.Width, probe.Height, probe.FPS, probe.FrameCount
	meta.Width, meta.Height = &w, &h
	meta.FPS, meta.FrameCount, meta.Duration = &fps, &frames, &duration
	return nil
}
