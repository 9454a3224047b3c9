package response

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mgoltzsche/ai-assistant-chat/internal/model"
	"github.com/mgoltzsche/ai-assistant-chat/internal/transport"
)

const MalformedJSONMessage = "malformed json response"

// Result is one of TextResult, AudioResult or ErrorResult.
type Result interface {
	// Message returns the assistant transcript entry for the result.
	Message() model.Message
	result()
}

type TextResult struct {
	Text string
}

func (TextResult) result() {}

func (r TextResult) Message() model.Message {
	return model.NewTextMessage(model.RoleAssistant, r.Text)
}

type AudioResult struct {
	Bytes    []byte
	MIMEType string
}

func (AudioResult) result() {}

func (r AudioResult) Message() model.Message {
	return model.NewAudioMessage(model.RoleAssistant, r.Bytes, r.MIMEType)
}

type ErrorResult struct {
	Msg string
}

func (ErrorResult) result() {}

func (r ErrorResult) Message() model.Message {
	return model.NewTextMessage(model.RoleAssistant, r.Msg)
}

func (r ErrorResult) Error() string {
	return r.Msg
}

type jsonResponse struct {
	Response *string `json:"response"`
}

type rule struct {
	prefix   string
	classify func(transport.RawResponse) Result
}

// Rules are evaluated in order, the first matching content type prefix wins.
var rules = []rule{
	{prefix: "application/json", classify: classifyJSON},
	{prefix: "audio/", classify: classifyAudio},
}

// Classify decodes the response body according to its declared content type.
func Classify(resp transport.RawResponse) Result {
	contentType := strings.ToLower(strings.TrimSpace(resp.ContentType))

	for _, r := range rules {
		if strings.HasPrefix(contentType, r.prefix) {
			return r.classify(resp)
		}
	}

	return ErrorResult{Msg: fmt.Sprintf("Received unexpected content type: %s", resp.ContentType)}
}

func classifyJSON(resp transport.RawResponse) Result {
	var body jsonResponse

	err := json.Unmarshal(resp.Body, &body)
	if err != nil || body.Response == nil {
		return ErrorResult{Msg: MalformedJSONMessage}
	}

	return TextResult{Text: *body.Response}
}

func classifyAudio(resp transport.RawResponse) Result {
	return AudioResult{
		Bytes:    resp.Body,
		MIMEType: resp.ContentType,
	}
}
