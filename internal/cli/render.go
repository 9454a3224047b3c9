package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mgoltzsche/ai-assistant-chat/internal/audio"
	"github.com/mgoltzsche/ai-assistant-chat/internal/model"
)

// FormatMessage renders a transcript entry for the terminal.
func FormatMessage(msg model.Message) string {
	if msg.Modality() != model.ModalityAudio {
		return fmt.Sprintf("%s: %s", msg.Role(), msg.Text())
	}

	desc := fmt.Sprintf("%s audio, %d bytes", msg.AudioFormat(), len(msg.Audio()))

	if info, err := audio.Inspect(msg.Audio()); err == nil {
		desc = fmt.Sprintf("%s audio, %s", msg.AudioFormat(), info.Duration.Round(100*time.Millisecond))
	}

	return fmt.Sprintf("%s: [%s]", msg.Role(), desc)
}

// SaveAudio writes the audio of the message at the given transcript index into dir
// and returns the file path.
func SaveAudio(dir string, index int, msg model.Message) (string, error) {
	b := msg.Audio()
	if len(b) == 0 {
		return "", fmt.Errorf("message %d does not contain audio", index)
	}

	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return "", fmt.Errorf("create audio directory: %w", err)
	}

	file := filepath.Join(dir, fmt.Sprintf("%03d-%s%s", index, msg.Role(), audio.FileExtension(msg.MIMEType(), b)))

	err = os.WriteFile(file, b, 0o644)
	if err != nil {
		return "", fmt.Errorf("write audio file: %w", err)
	}

	return file, nil
}
