package audio

import (
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DetectMIMEType sniffs the MIME type of the given audio data.
func DetectMIMEType(data []byte) string {
	return mimetype.Detect(data).String()
}

// FileExtension returns the file extension for audio of the declared MIME type.
// When the MIME type is unknown the extension is derived from the content.
func FileExtension(mimeType string, data []byte) string {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(mimeType))
	}

	if m := mimetype.Lookup(mediaType); m != nil && m.Extension() != "" {
		return m.Extension()
	}

	if ext := mimetype.Detect(data).Extension(); ext != "" {
		return ext
	}

	return ".bin"
}
