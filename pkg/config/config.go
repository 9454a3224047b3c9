package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const (
	DefaultEndpoint = "https://shalini-audio-ov26lo32lq-uc.a.run.app/interact"
	DefaultUserID   = "default_user"

	// EndpointEnvVar overrides the default endpoint.
	EndpointEnvVar = "API_ENDPOINT"
)

type Configuration struct {
	Endpoint         string   `json:"endpoint"`
	UserID           string   `json:"userID,omitempty"`
	Timeout          Duration `json:"timeout,omitempty"`
	MaxResponseBytes int64    `json:"maxResponseBytes,omitempty"`
	InputDevice      string   `json:"inputDevice,omitempty"`
	OutputDevice     string   `json:"outputDevice,omitempty"`
	SampleRate       int      `json:"sampleRate,omitempty"`
	PlayAudio        bool     `json:"playAudio,omitempty"`
	AudioDir         string   `json:"audioDir,omitempty"`
}

// Default returns the default configuration.
func Default() Configuration {
	endpoint := os.Getenv(EndpointEnvVar)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	return Configuration{
		Endpoint:         endpoint,
		UserID:           DefaultUserID,
		Timeout:          Duration(90 * time.Second),
		MaxResponseBytes: 32 << 20,
		SampleRate:       16000,
	}
}

// Duration is a time.Duration that is written as string, e.g. "90s".
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string

	err := json.Unmarshal(b, &s)
	if err != nil {
		return fmt.Errorf("duration must be a string such as \"90s\": %w", err)
	}

	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}

	*d = Duration(v)

	return nil
}

// Set implements flag.Value.
func (d *Duration) Set(s string) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}

	*d = Duration(v)

	return nil
}

func (d *Duration) String() string {
	return time.Duration(*d).String()
}
