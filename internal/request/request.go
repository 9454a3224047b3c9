package request

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/mgoltzsche/ai-assistant-chat/internal/model"
)

const (
	FieldUserID = "user_id"
	FieldText   = "text"
	FieldFile   = "file"

	// AudioFileName is the file name every audio upload is sent with,
	// independent of the original file.
	AudioFileName = "audio.wav"
)

var ErrInvalidInput = errors.New("invalid input")

// Input is either a TextInput or an AudioInput.
type Input interface {
	modality() model.Modality
}

type TextInput string

func (TextInput) modality() model.Modality {
	return model.ModalityText
}

type AudioInput []byte

func (AudioInput) modality() model.Modality {
	return model.ModalityAudio
}

// FromForm selects the input from loosely typed form values.
// Text takes priority when both are provided.
func FromForm(text string, audio []byte) (Input, error) {
	if strings.TrimSpace(text) != "" {
		return TextInput(text), nil
	}

	if len(audio) > 0 {
		return AudioInput(audio), nil
	}

	return nil, fmt.Errorf("%w: please enter a message or provide an audio file", ErrInvalidInput)
}

// OutboundRequest holds exactly one of text or audio.
type OutboundRequest struct {
	UserID string
	Input  Input
}

// Build validates the input and returns the request to send.
func Build(userID string, input Input) (OutboundRequest, error) {
	switch in := input.(type) {
	case TextInput:
		if strings.TrimSpace(string(in)) == "" {
			return OutboundRequest{}, fmt.Errorf("%w: please enter a message before sending", ErrInvalidInput)
		}
	case AudioInput:
		if len(in) == 0 {
			return OutboundRequest{}, fmt.Errorf("%w: please upload an audio file to send", ErrInvalidInput)
		}

		if detected := mimetype.Detect(in); !detected.Is(model.WaveMIMEType) && !detected.Is("audio/x-wav") {
			slog.Warn(fmt.Sprintf("sending %s audio as %s", detected.String(), AudioFileName))
		}
	case nil:
		return OutboundRequest{}, fmt.Errorf("%w: no message provided", ErrInvalidInput)
	default:
		return OutboundRequest{}, fmt.Errorf("%w: unsupported input type %T", ErrInvalidInput, input)
	}

	return OutboundRequest{
		UserID: userID,
		Input:  input,
	}, nil
}

func (r OutboundRequest) Modality() model.Modality {
	return r.Input.modality()
}

// Text returns the text payload or an empty string for audio requests.
func (r OutboundRequest) Text() string {
	t, _ := r.Input.(TextInput)
	return string(t)
}

// Audio returns the audio payload or nil for text requests.
func (r OutboundRequest) Audio() []byte {
	a, _ := r.Input.(AudioInput)
	return a
}

// Message returns the transcript entry representing the request.
func (r OutboundRequest) Message() model.Message {
	if r.Modality() == model.ModalityAudio {
		return model.NewAudioMessage(model.RoleUser, r.Audio(), model.WaveMIMEType)
	}

	return model.NewTextMessage(model.RoleUser, r.Text())
}

// Multipart encodes the request as multipart form data
// and returns the body along with its content type.
func (r OutboundRequest) Multipart() (*bytes.Buffer, string, error) {
	var b bytes.Buffer
	multipartWriter := multipart.NewWriter(&b)

	err := multipartWriter.WriteField(FieldUserID, r.UserID)
	if err != nil {
		return nil, "", fmt.Errorf("write multipart request field: %w", err)
	}

	switch in := r.Input.(type) {
	case TextInput:
		err = multipartWriter.WriteField(FieldText, string(in))
		if err != nil {
			return nil, "", fmt.Errorf("write multipart request field: %w", err)
		}
	case AudioInput:
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, FieldFile, AudioFileName))
		h.Set("Content-Type", model.WaveMIMEType)

		part, err := multipartWriter.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("creating multipart form file: %w", err)
		}

		_, err = part.Write(in)
		if err != nil {
			return nil, "", fmt.Errorf("write data to multipart writer: %w", err)
		}
	default:
		return nil, "", fmt.Errorf("%w: unsupported input type %T", ErrInvalidInput, r.Input)
	}

	err = multipartWriter.Close()
	if err != nil {
		return nil, "", fmt.Errorf("multipart writer close: %w", err)
	}

	return &b, multipartWriter.FormDataContentType(), nil
}
