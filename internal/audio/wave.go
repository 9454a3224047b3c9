package audio

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/orcaman/writerseeker"
)

// Info describes a RIFF wave file.
type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Duration   time.Duration
}

// Inspect reads the headers of the given wave file.
func Inspect(wave []byte) (Info, error) {
	decoder := wav.NewDecoder(bytes.NewReader(wave))
	decoder.ReadInfo()
	if err := decoder.Err(); err != nil {
		return Info{}, fmt.Errorf("read wave file headers: %w", err)
	}

	if !decoder.IsValidFile() {
		return Info{}, fmt.Errorf("not a valid wave file")
	}

	duration, err := decoder.Duration()
	if err != nil {
		return Info{}, fmt.Errorf("get audio duration from wave headers: %w", err)
	}

	return Info{
		SampleRate: int(decoder.SampleRate),
		Channels:   int(decoder.NumChans),
		BitDepth:   int(decoder.BitDepth),
		Duration:   duration,
	}, nil
}

// EncodeWave encodes the buffer as 16 bit RIFF wave file.
func EncodeWave(buffer audio.Buffer) ([]byte, error) {
	wavFile := &writerseeker.WriterSeeker{}
	f := buffer.PCMFormat()
	encoder := wav.NewEncoder(wavFile, f.SampleRate, 16, f.NumChannels, 1)

	if err := encoder.Write(buffer.AsIntBuffer()); err != nil {
		return nil, fmt.Errorf("encoder write buffer: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("encoder close: %w", err)
	}

	b, err := io.ReadAll(wavFile.Reader())
	if err != nil {
		return nil, fmt.Errorf("reading wav into memory: %w", err)
	}

	return b, nil
}

// PCM16Buffer wraps 16 bit samples into an audio buffer.
func PCM16Buffer(samples []int16, sampleRate, channels int) *audio.IntBuffer {
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}

	return &audio.IntBuffer{
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: channels},
		Data:           data,
		SourceBitDepth: 16,
	}
}

// Resample converts mono samples from one sample rate to another using linear interpolation.
func Resample(samples []int16, fromRate, toRate int) []int16 {
	if fromRate == toRate || fromRate <= 0 || toRate <= 0 || len(samples) == 0 {
		return samples
	}

	ratio := float64(fromRate) / float64(toRate)
	n := int(float64(len(samples)) / ratio)
	out := make([]int16, n)

	for i := range out {
		pos := float64(i) * ratio
		j := int(pos)
		if j+1 >= len(samples) {
			out[i] = samples[len(samples)-1]
			continue
		}

		frac := pos - float64(j)
		out[i] = int16(float64(samples[j])*(1-frac) + float64(samples[j+1])*frac)
	}

	return out
}
