package cli

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mgoltzsche/ai-assistant-chat/pkg/config"
)

func newFlagSet(endpoint *string, verbose *bool) *flag.FlagSet {
	flags := flag.NewFlagSet("test", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.StringVar(endpoint, "api-endpoint", "http://default", "endpoint")
	flags.BoolVar(verbose, "verbose", false, "verbose")
	addLogLevelFlag(flags)

	return flags
}

func TestParseFlags(t *testing.T) {
	for _, tc := range []struct {
		name             string
		args             []string
		environ          []string
		expectedEndpoint string
		expectedVerbose  bool
		expectErr        bool
	}{
		{
			name:             "defaults",
			expectedEndpoint: "http://default",
		},
		{
			name:             "env var",
			environ:          []string{"CHAT_API_ENDPOINT=http://env", "CHAT_VERBOSE=true", "OTHER=x"},
			expectedEndpoint: "http://env",
			expectedVerbose:  true,
		},
		{
			name:             "flag overrides env var",
			args:             []string{"-api-endpoint=http://flag"},
			environ:          []string{"CHAT_API_ENDPOINT=http://env"},
			expectedEndpoint: "http://flag",
		},
		{
			name:      "unsupported env var",
			environ:   []string{"CHAT_UNKNOWN=x"},
			expectErr: true,
		},
		{
			name:      "invalid env var value",
			environ:   []string{"CHAT_VERBOSE=maybe"},
			expectErr: true,
		},
		{
			name:      "invalid log level",
			args:      []string{"-log-level=LOUD"},
			expectErr: true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var endpoint string
			var verbose bool
			flags := newFlagSet(&endpoint, &verbose)

			err := parseFlags(flags, "CHAT_", tc.args, tc.environ)
			if tc.expectErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.expectedEndpoint, endpoint, "endpoint")
			require.Equal(t, tc.expectedVerbose, verbose, "verbose")
		})
	}
}

func TestParseFlagsConfigFilePrecedence(t *testing.T) {
	t.Setenv(config.EndpointEnvVar, "")
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("endpoint: http://file/interact\nuserID: bob\ntimeout: 7s\n"), 0o644))

	for _, tc := range []struct {
		name             string
		args             []string
		environ          []string
		expectedEndpoint string
		expectedUserID   string
	}{
		{
			name:             "env vars",
			environ:          []string{"CHAT_API_ENDPOINT=http://env/interact", "CHAT_CONFIG=" + file},
			expectedEndpoint: "http://env/interact",
			expectedUserID:   "bob",
		},
		{
			name:             "flags",
			args:             []string{"-api-endpoint=http://flag/interact", "-config=" + file},
			expectedEndpoint: "http://flag/interact",
			expectedUserID:   "bob",
		},
		{
			name:             "flags with separate values",
			args:             []string{"-user-id", "alice", "--api-endpoint", "http://flag/interact", "--config", file},
			expectedEndpoint: "http://flag/interact",
			expectedUserID:   "alice",
		},
		{
			name:             "config flag with env vars",
			args:             []string{"-config", file},
			environ:          []string{"CHAT_USER_ID=alice"},
			expectedEndpoint: "http://file/interact",
			expectedUserID:   "alice",
		},
		{
			name:             "flag overrides env var and file",
			args:             []string{"-api-endpoint=http://flag/interact"},
			environ:          []string{"CHAT_API_ENDPOINT=http://env/interact", "CHAT_CONFIG=" + file},
			expectedEndpoint: "http://flag/interact",
			expectedUserID:   "bob",
		},
		{
			name:             "config file only",
			environ:          []string{"CHAT_CONFIG=" + file},
			expectedEndpoint: "http://file/interact",
			expectedUserID:   "bob",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var cfg config.Configuration
			flags := flag.NewFlagSet("test", flag.ContinueOnError)
			flags.SetOutput(io.Discard)
			require.NoError(t, config.AddFlags(flags, &cfg, filepath.Join(dir, "missing.yaml")))

			err := parseFlags(flags, "CHAT_", tc.args, tc.environ)
			require.NoError(t, err)
			require.Equal(t, tc.expectedEndpoint, cfg.Endpoint, "endpoint")
			require.Equal(t, tc.expectedUserID, cfg.UserID, "user ID")
			require.Equal(t, config.Duration(7*time.Second), cfg.Timeout, "timeout from file")
		})
	}
}

func TestLookupArg(t *testing.T) {
	var verbose bool
	var endpoint string
	flags := newFlagSet(&endpoint, &verbose)

	for _, tc := range []struct {
		args     []string
		expected string
		found    bool
	}{
		{args: []string{"-config", "a.yaml"}, expected: "a.yaml", found: true},
		{args: []string{"--config=a.yaml"}, expected: "a.yaml", found: true},
		{args: []string{"-verbose", "-config=a.yaml", "-config", "b.yaml"}, expected: "b.yaml", found: true},
		{args: []string{"-api-endpoint", "-config", "-verbose"}},
		{args: []string{"arg", "-config", "a.yaml"}},
		{args: []string{"--", "-config", "a.yaml"}},
		{args: []string{"-config"}},
	} {
		value, found := lookupArg(flags, tc.args, "config")
		require.Equal(t, tc.found, found, "found in %v", tc.args)
		require.Equal(t, tc.expected, value, "value in %v", tc.args)
	}
}

func TestLogLevelFlag(t *testing.T) {
	defer slog.SetLogLoggerLevel(slog.LevelInfo)

	f := &logLevelFlag{}
	require.NoError(t, f.Set("DEBUG"))
	require.Equal(t, "DEBUG", f.String())
	require.NoError(t, f.Set("warn"))
	require.Equal(t, "WARN", f.String())
}

func TestEnvVarName(t *testing.T) {
	require.Equal(t, "CHAT_MAX_RESPONSE_BYTES", EnvVarName("CHAT_", "max-response-bytes"))
}
