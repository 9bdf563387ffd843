package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/forPelevin/autoclip/internal/clip"
	"github.com/forPelevin/autoclip/internal/domain/faces"
	"github.com/forPelevin/autoclip/internal/domain/highlights"
	"github.com/forPelevin/autoclip/internal/domain/signal"
	"github.com/forPelevin/autoclip/internal/ports"
	"github.com/forPelevin/autoclip/internal/types"
)

type fakeVideo struct {
	probeErr  error
	extracted int
	rendered  []string
	burned    []string
}

func (f *fakeVideo) ExtractAudioMono16k(_ context.Context, _, wavPath string) error {
	f.extracted++
	return os.WriteFile(wavPath, []byte("wav"), 0o644)
}

func (f *fakeVideo) Probe(_ context.Context, _ string) (types.VideoInfo, error) {
	if f.probeErr != nil {
		return types.VideoInfo{}, f.probeErr
	}
	return types.VideoInfo{Duration: 60, Width: 1920, Height: 1080, FPS: 30}, nil
}

func (f *fakeVideo) RenderClip(_ context.Context, _ string, _, _ float64, outPath string, _ *ports.CropSpec) error {
	f.rendered = append(f.rendered, outPath)
	return os.WriteFile(outPath, []byte("video"), 0o644)
}

func (f *fakeVideo) BurnSubtitles(_ context.Context, inPath, outPath, _ string, _ ports.BurnStyle) error {
	f.burned = append(f.burned, outPath)
	b, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, append(b, []byte("+subs")...), 0o644)
}

func (f *fakeVideo) ExtractFrame(_ context.Context, _ string, _ float64, outPath string) error {
	return os.WriteFile(outPath, []byte("frame"), 0o644)
}

type fakeASR struct {
	segments []types.TranscriptSegment
	err      error
}

func (f fakeASR) Transcribe(_ context.Context, _, _ string) ([]types.TranscriptSegment, error) {
	return f.segments, f.err
}

type fakeAudio struct{}

func (fakeAudio) Load(_ context.Context, _ string) (types.Waveform, error) {
	// quiet audio, so only the transcript keywords produce candidates
	return types.Waveform{Samples: make([]float64, 16000*10), SampleRate: 16000}, nil
}

type unavailableFaces struct{}

func (unavailableFaces) Open(_ context.Context, _ string) (ports.FrameProbe, error) {
	return nil, errors.New("detector binary not found")
}

func testSegments() []types.TranscriptSegment {
	return []types.TranscriptSegment{
		{Start: 2, End: 4, Text: "this part is amazing", Confidence: 0.9},
		{Start: 8, End: 9, Text: "nothing here"},
	}
}

func testInput(tmp string) Input {
	outDir := filepath.Join(tmp, "out")
	cacheDir := filepath.Join(tmp, "cache")
	return Input{
		InputMP4: filepath.Join(tmp, "in.mp4"),
		OutDir:   outDir,
		CacheDir: cacheDir,
		MaxClips: 2,
		Signal:   signal.Config{Keywords: []string{"amazing"}, ClipDuration: 30},
		Assemble: clip.Options{
			ProjectName:      "Test Project",
			OutDir:           outDir,
			ClipDuration:     30,
			SubtitlesEnabled: true,
		},
	}
}

func mkdirs(t *testing.T, in Input) {
	t.Helper()
	for _, dir := range []string{in.OutDir, in.CacheDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
}

func TestRun_ProducesClipFromKeyword(t *testing.T) {
	t.Parallel()

	in := testInput(t.TempDir())
	mkdirs(t, in)
	video := &fakeVideo{}
	uc := New(Deps{Video: video, ASR: fakeASR{segments: testSegments()}, Audio: fakeAudio{}, Log: zerolog.Nop()})

	sum, err := uc.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !sum.Success {
		t.Error("summary not marked successful")
	}
	if sum.ClipsProduced != 1 {
		t.Fatalf("clips produced = %d, want 1", sum.ClipsProduced)
	}
	// one keyword highlight spanning [2, 4]
	if sum.TotalDuration != 2 {
		t.Errorf("total highlight duration = %g, want 2", sum.TotalDuration)
	}
	if video.extracted != 1 {
		t.Errorf("audio extracted %d times", video.extracted)
	}

	clipPath := filepath.Join(in.OutDir, "Test_Project_001.mp4")
	b, err := os.ReadFile(clipPath)
	if err != nil {
		t.Fatalf("read clip: %v", err)
	}
	if !strings.Contains(string(b), "+subs") {
		t.Error("clip was not burned with subtitles")
	}
	if _, err := os.Stat(filepath.Join(in.OutDir, "transcript.srt")); err != nil {
		t.Errorf("transcript sidecar: %v", err)
	}
}

func TestRun_ReusesCachedAudio(t *testing.T) {
	t.Parallel()

	in := testInput(t.TempDir())
	mkdirs(t, in)
	if err := os.WriteFile(filepath.Join(in.CacheDir, "audio.wav"), []byte("wav"), 0o644); err != nil {
		t.Fatal(err)
	}
	video := &fakeVideo{}
	uc := New(Deps{Video: video, ASR: fakeASR{segments: testSegments()}, Audio: fakeAudio{}, Log: zerolog.Nop()})

	if _, err := uc.Run(context.Background(), in); err != nil {
		t.Fatalf("run: %v", err)
	}
	if video.extracted != 0 {
		t.Errorf("audio extracted %d times with a warm cache", video.extracted)
	}
}

func TestRun_ProbeFailureIsFatal(t *testing.T) {
	t.Parallel()

	in := testInput(t.TempDir())
	mkdirs(t, in)
	video := &fakeVideo{probeErr: errors.New("no such file")}
	uc := New(Deps{Video: video, ASR: fakeASR{}, Audio: fakeAudio{}, Log: zerolog.Nop()})

	sum, err := uc.Run(context.Background(), in)
	if err == nil {
		t.Fatal("want probe error")
	}
	if sum.Success {
		t.Error("summary marked successful after fatal probe")
	}
	if video.extracted != 0 {
		t.Error("pipeline continued past failed probe")
	}
}

func TestRun_TranscribeFailureIsFatal(t *testing.T) {
	t.Parallel()

	in := testInput(t.TempDir())
	mkdirs(t, in)
	uc := New(Deps{Video: &fakeVideo{}, ASR: fakeASR{err: errors.New("model missing")}, Audio: fakeAudio{}, Log: zerolog.Nop()})

	if _, err := uc.Run(context.Background(), in); err == nil || !strings.Contains(err.Error(), "transcribe") {
		t.Fatalf("err = %v, want transcribe failure", err)
	}
}

func TestRun_UnavailableFaceDetectorKeepsClips(t *testing.T) {
	t.Parallel()

	in := testInput(t.TempDir())
	in.Face = faces.Config{Enabled: true}
	mkdirs(t, in)
	uc := New(Deps{
		Video: &fakeVideo{},
		ASR:   fakeASR{segments: testSegments()},
		Audio: fakeAudio{},
		Faces: unavailableFaces{},
		Log:   zerolog.Nop(),
	})

	sum, err := uc.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.ClipsProduced != 1 {
		t.Errorf("clips produced = %d, detector trouble should not cost clips", sum.ClipsProduced)
	}
}

func TestRun_OrderComparator(t *testing.T) {
	t.Parallel()

	in := testInput(t.TempDir())
	in.MaxClips = 1
	in.Order = highlights.ByConfidence
	mkdirs(t, in)
	segments := []types.TranscriptSegment{
		{Start: 2, End: 4, Text: "amazing opener", Confidence: 0.5},
		{Start: 40, End: 42, Text: "truly amazing finale", Confidence: 0.95},
	}
	video := &fakeVideo{}
	uc := New(Deps{Video: video, ASR: fakeASR{segments: segments}, Audio: fakeAudio{}, Log: zerolog.Nop()})

	if _, err := uc.Run(context.Background(), in); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(video.rendered) != 1 {
		t.Fatalf("rendered %d clips, want 1", len(video.rendered))
	}
}
