package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pjackim/webbuddy/internal/application/service"
	"github.com/pjackim/webbuddy/pkg/logger"
)

// result mirrors the subset of ffprobe's JSON output we ask for.
type result struct {
	Streams []stream `json:"streams"`
	Format  format   `json:"format"`
}

type stream struct {
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
	NBFrames     string `json:"nb_frames"`
	Duration     string `json:"duration"`
}

type format struct {
	Duration string `json:"duration"`
}

type FFprobe struct {
	binary string
	logger logger.Logger
}

func NewFFprobe(binary string, log logger.Logger) *FFprobe {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	return &FFprobe{binary: binary, logger: log.With(zap.String("component", "ffprobe"))}
}

var _ service.VideoProber = (*FFprobe)(nil)

// Probe runs ffprobe against path and reads the first video stream.
func (p *FFprobe) Probe(ctx context.Context, path string) (service.VideoProbe, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return service.VideoProbe{}, errors.New("ffprobe: empty path")
	}

	cmd := exec.CommandContext(ctx, p.binary,
		"-v", "error",
		"-hide_banner",
		"-select_streams", "v:0",
		"-show_entries", "stream=codec_type,width,height,r_frame_rate,avg_frame_rate,nb_frames,duration:format=duration",
		"-of", "json",
		"--", path,
	)
	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return service.VideoProbe{}, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return service.VideoProbe{}, fmt.Errorf("ffprobe: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return service.VideoProbe{}, fmt.Errorf("ffprobe: %w", err)
	}

	probe, err := parse(output)
	if err != nil {
		return service.VideoProbe{}, err
	}
	p.logger.Debug("video probed",
		zap.Int("width", probe.Width),
		zap.Int("height", probe.Height),
		zap.Float64("fps", probe.FPS),
		zap.Int("frames", probe.FrameCount),
	)
	return probe, nil
}

func parse(output []byte) (service.VideoProbe, error) {
	var r result
	if err := json.Unmarshal(output, &r); err != nil {
		return service.VideoProbe{}, fmt.Errorf("ffprobe parse: %w", err)
	}

	var video *stream
	for i := range r.Streams {
		if r.Streams[i].CodecType == "" || strings.EqualFold(r.Streams[i].CodecType, "video") {
			video = &r.Streams[i]
			break
		}
	}
	if video == nil {
		return service.VideoProbe{}, errors.New("ffprobe: no video stream")
	}

	fps := parseRate(video.RFrameRate)
	if fps <= 0 {
		fps = parseRate(video.AvgFrameRate)
	}

	frames, err := strconv.Atoi(strings.TrimSpace(video.NBFrames))
	if err != nil || frames <= 0 {
		// webm and some mov files carry no frame count; derive it.
		duration := parseFloat(video.Duration)
		if duration <= 0 {
			duration = parseFloat(r.Format.Duration)
		}
		frames = int(math.Round(duration * fps))
	}

	return service.VideoProbe{
		Width:      video.Width,
		Height:     video.Height,
		FPS:        fps,
		FrameCount: frames,
	}, nil
}

// parseRate reads ffprobe rationals such as "30000/1001".
func parseRate(value string) float64 {
	value = strings.TrimSpace(value)
	num, den, found := strings.Cut(value, "/")
	if !found {
		return parseFloat(value)
	}
	n := parseFloat(num)
	d := parseFloat(den)
	if d <= 0 {
		return 0
	}
	return n / d
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0
	}
	return parsed
}
