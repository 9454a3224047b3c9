package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mgoltzsche/ai-assistant-chat/internal/audio"
	"github.com/mgoltzsche/ai-assistant-chat/internal/model"
)

func TestFormatMessage(t *testing.T) {
	wave, err := audio.EncodeWave(audio.PCM16Buffer(make([]int16, 16000), 16000, 1))
	require.NoError(t, err)

	for _, tc := range []struct {
		name     string
		msg      model.Message
		expected string
	}{
		{
			name:     "text",
			msg:      model.NewTextMessage(model.RoleUser, "hello"),
			expected: "user: hello",
		},
		{
			name:     "wave audio",
			msg:      model.NewAudioMessage(model.RoleAssistant, wave, "audio/wav"),
			expected: "assistant: [wav audio, 1s]",
		},
		{
			name:     "opaque audio",
			msg:      model.NewAudioMessage(model.RoleAssistant, []byte{0xFF, 0xFE}, "audio/mpeg"),
			expected: "assistant: [mpeg audio, 2 bytes]",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, FormatMessage(tc.msg))
		})
	}
}

func TestSaveAudio(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "audio")

	file, err := SaveAudio(dir, 3, model.NewAudioMessage(model.RoleAssistant, []byte{0xFF, 0xFE}, "audio/wav"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "003-assistant.wav"), file)

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Equal(t, []byte{0xFF, 0xFE}, b)

	_, err = SaveAudio(dir, 4, model.NewTextMessage(model.RoleAssistant, "hi"))
	require.Error(t, err)
}
