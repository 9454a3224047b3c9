package device

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/mgoltzsche/ai-assistant-chat/internal/audio"
)

// Recorder records mono speech from a microphone.
type Recorder struct {
	Device     string
	SampleRate int
}

// Record captures audio for the given duration or until the context is done
// and returns it as wave file.
func (r *Recorder) Record(ctx context.Context, duration time.Duration) ([]byte, error) {
	device, err := inputDevice(r.Device)
	if err != nil {
		return nil, err
	}

	in := make([]int16, 512*9)
	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: 1,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      device.DefaultSampleRate,
		FramesPerBuffer: len(in),
	}, &in)
	if err != nil {
		return nil, fmt.Errorf("opening audio input stream: %w", err)
	}
	defer stream.Close()

	err = stream.Start()
	if err != nil {
		return nil, fmt.Errorf("starting audio input stream: %w", err)
	}

	samples := make([]int16, 0, int(device.DefaultSampleRate*duration.Seconds()))
	deadline := time.Now().Add(duration)

	for time.Now().Before(deadline) && ctx.Err() == nil {
		if err := stream.Read(); err != nil {
			if err == portaudio.InputOverflowed {
				slog.Warn("audio input overflowed - dropped samples")
				continue
			}

			return nil, fmt.Errorf("read audio input stream: %w", err)
		}

		samples = append(samples, in...)
	}

	if err := stream.Stop(); err != nil {
		slog.Warn("failed to stop input audio stream", "err", err)
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("no audio recorded")
	}

	sampleRate := r.SampleRate
	if sampleRate <= 0 {
		sampleRate = int(device.DefaultSampleRate)
	}

	samples = audio.Resample(samples, int(device.DefaultSampleRate), sampleRate)

	return audio.EncodeWave(audio.PCM16Buffer(samples, sampleRate, 1))
}
