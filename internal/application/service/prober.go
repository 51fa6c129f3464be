package service

import "context"

type VideoProbe struct {
	Width      int
	Height     int
	FPS        float64
	FrameCount int
}

// VideoProber opens a video file on disk and reads its primary stream.
type VideoProber interface {
	Probe(ctx context.Context, path string) (VideoProbe, error)
}
