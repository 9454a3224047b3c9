package audio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEncodeAndInspectWave(t *testing.T) {
	samples := make([]int16, 8000)
	for i := range samples {
		samples[i] = int16(i % 100)
	}

	wave, err := EncodeWave(PCM16Buffer(samples, 16000, 1))
	require.NoError(t, err)

	info, err := Inspect(wave)
	require.NoError(t, err)
	require.Equal(t, 16000, info.SampleRate, "sample rate")
	require.Equal(t, 1, info.Channels, "channels")
	require.Equal(t, 16, info.BitDepth, "bit depth")
	require.InDelta(t, 500*time.Millisecond, info.Duration, float64(5*time.Millisecond), "duration")

	require.Equal(t, "audio/wav", DetectMIMEType(wave))
}

func TestInspectInvalidWave(t *testing.T) {
	for _, data := range [][]byte{nil, {0xFF, 0xFE}, []byte("ID3 not a wave file")} {
		_, err := Inspect(data)
		require.Error(t, err)
	}
}

func TestResample(t *testing.T) {
	in := []int16{0, 100, 200, 300, 400, 500, 600, 700}

	require.Equal(t, in, Resample(in, 16000, 16000), "same rate")
	require.Equal(t, []int16{0, 200, 400, 600}, Resample(in, 16000, 8000), "downsample")

	up := Resample(in, 8000, 16000)
	require.Len(t, up, 16)
	require.Equal(t, int16(50), up[1], "interpolated sample")
	require.Equal(t, int16(700), up[15], "last sample")
}

func TestFileExtension(t *testing.T) {
	for _, tc := range []struct {
		name     string
		mimeType string
		data     []byte
		expected string
	}{
		{name: "wav", mimeType: "audio/wav", expected: ".wav"},
		{name: "wav alias", mimeType: "audio/x-wav", expected: ".wav"},
		{name: "mpeg with parameters", mimeType: "audio/mpeg; bitrate=128", expected: ".mp3"},
		{name: "unknown type sniffed", mimeType: "application/x-chat-unknown", data: []byte("ID3\x03\x00\x00\x00\x00\x00\x00"), expected: ".mp3"},
		{name: "unknown", mimeType: "application/x-chat-unknown", data: []byte{0, 1}, expected: ".bin"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, FileExtension(tc.mimeType, tc.data))
		})
	}
}
