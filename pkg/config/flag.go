package config

import (
	"errors"
	"flag"
	"os"
)

// Flag loads the configuration from the file passed as flag value.
// The file is merged into the current configuration.
// Setting the same file again is a no-op so that it can be applied ahead of the other flags.
type Flag struct {
	File   string
	Config *Configuration
	IsSet  bool
}

func (f *Flag) Set(path string) error {
	if f.IsSet && f.File == path {
		return nil
	}

	err := LoadFile(path, f.Config)
	if err != nil {
		return err
	}

	f.File = path
	f.IsSet = true

	return nil
}

func (f *Flag) String() string {
	return f.File
}

// AddFlags registers the flags shared by all commands.
// The configuration is loaded from the default file if it exists.
func AddFlags(flags *flag.FlagSet, cfg *Configuration, defaultFile string) error {
	*cfg = Default()

	loaded, err := FromFile(defaultFile)
	if err == nil {
		*cfg = loaded
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	flags.Var(&Flag{File: defaultFile, Config: cfg}, "config", "Path to the configuration file")
	flags.StringVar(&cfg.Endpoint, "api-endpoint", cfg.Endpoint, "URL of the assistant endpoint messages are posted to")
	flags.StringVar(&cfg.UserID, "user-id", cfg.UserID, "user ID sent along with every message")
	flags.Var(&cfg.Timeout, "timeout", "max duration of a single request")
	flags.Int64Var(&cfg.MaxResponseBytes, "max-response-bytes", cfg.MaxResponseBytes, "max accepted response body size")

	return nil
}
