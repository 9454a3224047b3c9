package model

import (
	"fmt"
	"mime"
	"strings"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Modality string

const (
	ModalityText  Modality = "text"
	ModalityAudio Modality = "audio"
)

// WaveMIMEType is the MIME type user audio is always declared with.
const WaveMIMEType = "audio/wav"

// Message is a single transcript entry.
// It is created via NewTextMessage or NewAudioMessage and never modified afterwards.
type Message struct {
	role     Role
	modality Modality
	text     string
	audio    []byte
	mimeType string
}

func NewTextMessage(role Role, text string) Message {
	return Message{
		role:     role,
		modality: ModalityText,
		text:     text,
	}
}

func NewAudioMessage(role Role, data []byte, mimeType string) Message {
	return Message{
		role:     role,
		modality: ModalityAudio,
		audio:    append([]byte(nil), data...),
		mimeType: mimeType,
	}
}

func (m Message) Role() Role {
	return m.role
}

func (m Message) Modality() Modality {
	return m.modality
}

// Text returns the text content of a text message.
func (m Message) Text() string {
	return m.text
}

// Audio returns a copy of the audio content of an audio message.
func (m Message) Audio() []byte {
	if m.audio == nil {
		return nil
	}

	return append([]byte(nil), m.audio...)
}

// MIMEType returns the declared MIME type of an audio message, e.g. "audio/wav".
func (m Message) MIMEType() string {
	return m.mimeType
}

// AudioFormat returns the MIME subtype of an audio message, e.g. "wav".
func (m Message) AudioFormat() string {
	if m.modality != ModalityAudio {
		return ""
	}

	mediaType, _, err := mime.ParseMediaType(m.mimeType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(m.mimeType))
	}

	_, subtype, ok := strings.Cut(mediaType, "/")
	if !ok {
		return ""
	}

	return subtype
}

func (m Message) Equal(o Message) bool {
	return m.role == o.role &&
		m.modality == o.modality &&
		m.text == o.text &&
		m.mimeType == o.mimeType &&
		string(m.audio) == string(o.audio)
}

func (m Message) String() string {
	return fmt.Sprintf("%s: %s", m.role, FormatContent(m))
}

// FormatContent renders the message content for logs.
func FormatContent(m Message) string {
	if m.modality == ModalityAudio {
		return fmt.Sprintf("[audio %s, %d bytes]", m.mimeType, len(m.audio))
	}

	return strings.TrimSpace(m.text)
}
