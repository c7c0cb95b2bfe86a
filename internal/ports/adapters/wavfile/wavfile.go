// Package wavfile computes an energy trace directly from a local WAV file,
// with no external tools. Levels are RMS in dBFS per fixed window so they
// are directly comparable to decoder-produced traces.
package wavfile

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/clipworks/momentcut/internal/ports"
	"github.com/clipworks/momentcut/internal/types"
)

// silenceFloorDb caps how low a window can read; an all-zero window would
// otherwise be -Inf.
const silenceFloorDb = -96.0

type Source struct {
	interval float64
}

func New(intervalSec float64) *Source {
	if intervalSec <= 0 {
		intervalSec = 0.5
	}
	return &Source{interval: intervalSec}
}

func (s *Source) Trace(ctx context.Context, wavPath string) (types.EnergyTrace, error) {
	f, err := os.Open(wavPath)
	if err != nil {
		return types.EnergyTrace{}, &ports.ExternalToolError{Tool: "wav open", Err: err}
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return types.EnergyTrace{}, &ports.ExternalToolError{Tool: "wav decode", Err: fmt.Errorf("invalid wav file %s", wavPath)}
	}
	dec.ReadInfo()
	if dec.WavAudioFormat != 1 {
		return types.EnergyTrace{}, &ports.ExternalToolError{Tool: "wav decode", Err: fmt.Errorf("unsupported wav format %d, need PCM=1", dec.WavAudioFormat)}
	}
	if dec.SampleRate == 0 || dec.NumChans == 0 || dec.BitDepth == 0 {
		return types.EnergyTrace{}, &ports.ExternalToolError{Tool: "wav decode", Err: fmt.Errorf("invalid wav header in %s", wavPath)}
	}

	windowSamples := int(float64(dec.SampleRate) * s.interval * float64(dec.NumChans))
	if windowSamples <= 0 {
		windowSamples = int(dec.SampleRate)
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: int(dec.NumChans),
			SampleRate:  int(dec.SampleRate),
		},
		Data:           make([]int, windowSamples),
		SourceBitDepth: int(dec.BitDepth),
	}
	fullScale := math.Pow(2, float64(dec.BitDepth)-1)

	trace := types.EnergyTrace{Interval: s.interval}
	for {
		if err := ctx.Err(); err != nil {
			return types.EnergyTrace{}, err
		}
		buf.Data = buf.Data[:cap(buf.Data)]
		n, err := dec.PCMBuffer(buf)
		if n > 0 {
			trace.Levels = append(trace.Levels, rmsDb(buf.Data[:n], fullScale))
		}
		if err == io.EOF || n == 0 {
			break
		}
		if err != nil {
			return types.EnergyTrace{}, &ports.ExternalToolError{Tool: "wav decode", Err: err}
		}
	}
	return trace, nil
}

// rmsDb converts a window of PCM samples to RMS level in dBFS.
func rmsDb(samples []int, fullScale float64) float64 {
	if len(samples) == 0 {
		return silenceFloorDb
	}
	var sum float64
	for _, s := range samples {
		v := float64(s) / fullScale
		sum += v * v
	}
	rms := math.Sqrt(sum / float64(len(samples)))
	if rms <= 0 {
		return silenceFloorDb
	}
	db := 20 * math.Log10(rms)
	if db < silenceFloorDb {
		return silenceFloorDb
	}
	return db
}
