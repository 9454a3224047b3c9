package response

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mgoltzsche/ai-assistant-chat/internal/model"
	"github.com/mgoltzsche/ai-assistant-chat/internal/transport"
)

func TestClassify(t *testing.T) {
	for _, tc := range []struct {
		name        string
		contentType string
		body        string
		expected    Result
	}{
		{
			name:        "json",
			contentType: "application/json",
			body:        `{"response": "hi there"}`,
			expected:    TextResult{Text: "hi there"},
		},
		{
			name:        "json with charset",
			contentType: "Application/JSON; charset=utf-8",
			body:        `{"response": "hi", "other": 1}`,
			expected:    TextResult{Text: "hi"},
		},
		{
			name:        "json with empty response",
			contentType: "application/json",
			body:        `{"response": ""}`,
			expected:    TextResult{Text: ""},
		},
		{
			name:        "json without response field",
			contentType: "application/json",
			body:        `{"audio": "AAE="}`,
			expected:    ErrorResult{Msg: MalformedJSONMessage},
		},
		{
			name:        "json with non-string response",
			contentType: "application/json",
			body:        `{"response": 42}`,
			expected:    ErrorResult{Msg: MalformedJSONMessage},
		},
		{
			name:        "invalid json",
			contentType: "application/json",
			body:        `{"response": `,
			expected:    ErrorResult{Msg: MalformedJSONMessage},
		},
		{
			name:        "json null",
			contentType: "application/json",
			body:        `null`,
			expected:    ErrorResult{Msg: MalformedJSONMessage},
		},
		{
			name:        "wav",
			contentType: "audio/wav",
			body:        "\xFF\xFE",
			expected:    AudioResult{Bytes: []byte{0xFF, 0xFE}, MIMEType: "audio/wav"},
		},
		{
			name:        "mpeg upper case",
			contentType: "AUDIO/MPEG",
			body:        "mp3",
			expected:    AudioResult{Bytes: []byte("mp3"), MIMEType: "AUDIO/MPEG"},
		},
		{
			name:        "html",
			contentType: "text/html",
			body:        "<html>",
			expected:    ErrorResult{Msg: "Received unexpected content type: text/html"},
		},
		{
			name:        "missing content type",
			contentType: "",
			body:        "data",
			expected:    ErrorResult{Msg: "Received unexpected content type: "},
		},
		{
			name:        "json suffix only",
			contentType: "text/application/json",
			body:        `{"response": "hi"}`,
			expected:    ErrorResult{Msg: "Received unexpected content type: text/application/json"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			result := Classify(transport.RawResponse{
				ContentType: tc.contentType,
				Body:        []byte(tc.body),
			})

			require.Equal(t, tc.expected, result)
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	for _, contentType := range []string{"", " ", ";", "application/", "audio", "audio/", "video/mp4", "application/jsonx", "\x00", "multipart/form-data; boundary=x"} {
		result := Classify(transport.RawResponse{ContentType: contentType, Body: []byte("{}")})

		switch result.(type) {
		case TextResult, AudioResult, ErrorResult:
		default:
			t.Fatalf("unexpected result type %T for content type %q", result, contentType)
		}
	}
}

func TestResultMessage(t *testing.T) {
	msg := AudioResult{Bytes: []byte{0xFF, 0xFE}, MIMEType: "audio/wav"}.Message()
	require.Equal(t, model.RoleAssistant, msg.Role())
	require.Equal(t, model.ModalityAudio, msg.Modality())
	require.Equal(t, "audio/wav", msg.MIMEType())
	require.Equal(t, "wav", msg.AudioFormat())

	msg = ErrorResult{Msg: "failed"}.Message()
	require.Equal(t, model.RoleAssistant, msg.Role())
	require.Equal(t, model.ModalityText, msg.Modality())
	require.Equal(t, "failed", msg.Text())
}
