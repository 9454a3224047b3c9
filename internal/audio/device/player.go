package device

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/gordonklaus/portaudio"

	"github.com/mgoltzsche/ai-assistant-chat/internal/audio"
)

// Player plays 16 bit mono wave audio on a speaker.
type Player struct {
	Device string
}

func (p *Player) Play(ctx context.Context, wave []byte) error {
	device, err := outputDevice(p.Device)
	if err != nil {
		return err
	}

	decoder := wav.NewDecoder(bytes.NewReader(wave))
	decoder.ReadInfo()
	if err := decoder.Err(); err != nil {
		return fmt.Errorf("read wave file headers: %w", err)
	}

	if decoder.SampleBitDepth() != 16 {
		return fmt.Errorf("wave data with unsupported bit depth of %d provided, expected 16", decoder.SampleBitDepth())
	}

	if decoder.NumChans != 1 {
		return fmt.Errorf("wave data with %d channels provided, expected mono", decoder.NumChans)
	}

	audioDuration, err := decoder.Duration()
	if err != nil {
		return fmt.Errorf("get audio duration: %w", err)
	}

	inputBufferSize := 512 * 9
	buffer := goaudio.IntBuffer{
		Format: &goaudio.Format{
			SampleRate:  int(decoder.SampleRate),
			NumChannels: 1,
		},
		SourceBitDepth: 16,
		Data:           make([]int, inputBufferSize),
	}
	in := make([]int16, inputBufferSize)
	out := make([]int16, len(audio.Resample(in, int(decoder.SampleRate), int(device.DefaultSampleRate))))

	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: 1,
			Latency:  device.DefaultLowOutputLatency,
		},
		SampleRate:      device.DefaultSampleRate,
		FramesPerBuffer: len(out),
	}, &out)
	if err != nil {
		return fmt.Errorf("open audio output stream: %w", err)
	}
	defer stream.Close()

	err = stream.Start()
	if err != nil {
		return fmt.Errorf("start audio output stream: %w", err)
	}
	defer stream.Stop()

	startTime := time.Now()

	for {
		n, err := decoder.PCMBuffer(&buffer)
		if n == 0 {
			break // EOF
		}
		if err != nil {
			return fmt.Errorf("read chunk from audio stream: %w", err)
		}

		for i := range in {
			if i < n {
				in[i] = int16(buffer.Data[i])
			} else {
				in[i] = 0
			}
		}

		copy(out, audio.Resample(in, int(decoder.SampleRate), int(device.DefaultSampleRate)))

		err = stream.Write()
		if err != nil {
			slog.Warn(fmt.Sprintf("play audio: write chunk: %s", err))
		}

		select {
		case <-ctx.Done():
			return nil
		default:
		}
	}

	select {
	case <-ctx.Done():
	case <-time.After(audioDuration - time.Since(startTime)):
	}

	return nil
}
