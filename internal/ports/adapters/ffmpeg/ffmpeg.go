// Package ffmpeg shells out to ffmpeg/ffprobe to turn a media file into the
// audio inputs the analyzers need: a mono WAV and a per-interval RMS level
// trace.
package ffmpeg

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/clipworks/momentcut/internal/ports"
	"github.com/clipworks/momentcut/internal/types"
)

// DefaultDuration stands in when ffprobe cannot read the input.
const DefaultDuration = 3600 * time.Second

// TraceInterval is the RMS sampling window in seconds.
const TraceInterval = 0.5

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

// ExtractAudioMono16k decodes the input's audio to 16kHz mono WAV, the
// format the WAV trace reader and ASR tooling expect.
func (a *Adapter) ExtractAudioMono16k(ctx context.Context, inMedia, outWav string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", inMedia,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outWav,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return &ports.ExternalToolError{Tool: "ffmpeg extract audio", Err: fmt.Errorf("%w\n%s", err, string(b))}
	}
	return nil
}

// Trace measures RMS level per TraceInterval window across the whole input
// using the astats filter. Each window prints one metadata line; malformed
// lines are skipped so a glitchy decode still yields a usable trace.
func (a *Adapter) Trace(ctx context.Context, mediaPath string) (types.EnergyTrace, error) {
	// asetnsamples reframes the stream so astats resets once per window.
	samplesPerWindow := int(16000 * TraceInterval)
	filter := fmt.Sprintf(
		"aresample=16000,asetnsamples=n=%d,astats=metadata=1:reset=1,ametadata=mode=print:key=lavfi.astats.Overall.RMS_level:file=-",
		samplesPerWindow,
	)
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-hide_banner",
		"-i", mediaPath,
		"-vn",
		"-af", filter,
		"-f", "null", "-",
	)
	out, err := cmd.Output()
	if err != nil {
		return types.EnergyTrace{}, &ports.ExternalToolError{Tool: "ffmpeg astats", Err: err}
	}
	return ParseTrace(string(out)), nil
}

// ParseTrace extracts RMS levels from ametadata print output. Lines look
// like "lavfi.astats.Overall.RMS_level=-23.471"; anything else is ignored.
func ParseTrace(out string) types.EnergyTrace {
	tr := types.EnergyTrace{Interval: TraceInterval}
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "lavfi.astats.Overall.RMS_level=") {
			continue
		}
		v := strings.TrimPrefix(line, "lavfi.astats.Overall.RMS_level=")
		level, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			// One bad line must not kill the trace.
			continue
		}
		tr.Levels = append(tr.Levels, level)
	}
	return tr
}

// ProbeDuration reads the container duration. On any probe failure it
// reports DefaultDuration alongside the wrapped error so callers can keep
// going with the fallback.
func (a *Adapter) ProbeDuration(ctx context.Context, inMedia string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inMedia,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return DefaultDuration, &ports.ExternalToolError{Tool: "ffprobe duration", Err: fmt.Errorf("%w\n%s", err, string(b))}
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return DefaultDuration, &ports.ExternalToolError{Tool: "ffprobe duration", Err: fmt.Errorf("parse %q: %w", s, err)}
	}
	return time.Duration(sec * float64(time.Second)), nil
}
