// Package facedet probes single video frames for face presence by feeding
// ffmpeg-extracted frames to an external detector binary.
package facedet

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/forPelevin/autoclip/internal/ports"
)

// FrameExtractor is the slice of the encoder the probe needs.
type FrameExtractor interface {
	ExtractFrame(ctx context.Context, inVideo string, at float64, outImage string) error
}

type Adapter struct {
	bin    string
	frames FrameExtractor
}

// New returns a face probe backed by the detector binary at binPath. The
// binary receives an image path and prints the number of faces found.
func New(binPath string, frames FrameExtractor) *Adapter {
	return &Adapter{bin: binPath, frames: frames}
}

// Open verifies the detector binary is runnable and prepares a per-run
// session. An error here means face filtering cannot run at all.
func (a *Adapter) Open(ctx context.Context, videoPath string) (ports.FrameProbe, error) {
	if a.bin == "" {
		return nil, fmt.Errorf("face detector binary not configured")
	}
	if _, err := exec.LookPath(a.bin); err != nil {
		return nil, fmt.Errorf("face detector unavailable: %w", err)
	}
	tmpDir, err := os.MkdirTemp("", "autoclip-faces-*")
	if err != nil {
		return nil, err
	}
	return &session{bin: a.bin, frames: a.frames, video: videoPath, tmpDir: tmpDir}, nil
}

type session struct {
	bin    string
	frames FrameExtractor
	video  string
	tmpDir string
	n      int
}

func (s *session) DetectAt(ctx context.Context, atSeconds float64) (bool, error) {
	s.n++
	framePath := filepath.Join(s.tmpDir, fmt.Sprintf("frame_%06d.jpg", s.n))
	if err := s.frames.ExtractFrame(ctx, s.video, atSeconds, framePath); err != nil {
		return false, fmt.Errorf("extract frame at %.2fs: %w", atSeconds, err)
	}
	defer os.Remove(framePath)

	cmd := exec.CommandContext(ctx, s.bin, framePath)
	out, err := cmd.Output()
	if err != nil {
		return false, fmt.Errorf("face detector: %w", err)
	}
	count, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return false, fmt.Errorf("parse detector output %q: %w", strings.TrimSpace(string(out)), err)
	}
	return count > 0, nil
}

func (s *session) Close() error {
	return os.RemoveAll(s.tmpDir)
}

var _ ports.FaceProbe = (*Adapter)(nil)
