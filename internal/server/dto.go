package server

import (
	"fmt"

	"github.com/mgoltzsche/ai-assistant-chat/internal/audio"
	"github.com/mgoltzsche/ai-assistant-chat/internal/model"
)

type sessionDTO struct {
	ID string `json:"id"`
}

type messagesDTO struct {
	Messages []messageDTO `json:"messages"`
}

type messageDTO struct {
	Index       int    `json:"index"`
	Role        string `json:"role"`
	Type        string `json:"type"`
	Content     string `json:"content,omitempty"`
	AudioURL    string `json:"audioURL,omitempty"`
	AudioFormat string `json:"audioFormat,omitempty"`
	MIMEType    string `json:"mimeType,omitempty"`
	DurationMs  int64  `json:"durationMs,omitempty"`
}

func toMessageDTO(sessionID string, index int, msg model.Message) messageDTO {
	dto := messageDTO{
		Index: index,
		Role:  string(msg.Role()),
		Type:  string(msg.Modality()),
	}

	if msg.Modality() != model.ModalityAudio {
		dto.Content = msg.Text()
		return dto
	}

	dto.AudioURL = fmt.Sprintf("/sessions/%s/messages/%d/audio", sessionID, index)
	dto.AudioFormat = msg.AudioFormat()
	dto.MIMEType = msg.MIMEType()

	if info, err := audio.Inspect(msg.Audio()); err == nil {
		dto.DurationMs = info.Duration.Milliseconds()
	}

	return dto
}
