package cli

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// ParseFlagsWithEnvVars parses the command line flags.
// Each flag can also be set via an environment variable named after the flag, e.g. -api-endpoint via CHAT_API_ENDPOINT.
func ParseFlagsWithEnvVars(flags *flag.FlagSet, envVarPrefix string) {
	addLogLevelFlag(flags)

	err := parseFlags(flags, envVarPrefix, os.Args[1:], os.Environ())
	if err != nil {
		flags.Usage()
		slog.Error(err.Error())
		os.Exit(1)
	}
}

// configFlagName is applied before any other flag or environment variable
// so that explicitly provided values take precedence over the configuration file.
const configFlagName = "config"

func parseFlags(flags *flag.FlagSet, envVarPrefix string, args, environ []string) error {
	env := make(map[string]string, len(environ))
	for _, entry := range environ {
		if k, v, ok := strings.Cut(entry, "="); ok {
			env[k] = v
		}
	}

	configFlag := flags.Lookup(configFlagName)
	if configFlag != nil {
		envVarName := EnvVarName(envVarPrefix, configFlagName)
		file, ok := lookupArg(flags, args, configFlagName)
		if !ok {
			file = env[envVarName]
		}

		if file != "" {
			err := configFlag.Value.Set(file)
			if err != nil {
				return fmt.Errorf("invalid %s value provided: %w", configFlagName, err)
			}
		}
	}

	supportedEnvVars := map[string]struct{}{}
	var err error

	flags.VisitAll(func(f *flag.Flag) {
		envVarName := EnvVarName(envVarPrefix, f.Name)
		f.Usage = fmt.Sprintf("%s (%s)", f.Usage, envVarName)
		supportedEnvVars[envVarName] = struct{}{}

		if f == configFlag {
			return
		}

		if envVarValue := env[envVarName]; envVarValue != "" && err == nil {
			f.DefValue = envVarValue
			if e := f.Value.Set(envVarValue); e != nil {
				err = fmt.Errorf("invalid environment variable %s value provided: %w", envVarName, e)
			}
		}
	})
	if err != nil {
		return err
	}

	err = flags.Parse(args)
	if err != nil {
		return err
	}

	for k := range env {
		if strings.HasPrefix(k, envVarPrefix) {
			if _, ok := supportedEnvVars[k]; !ok {
				return fmt.Errorf("unsupported environment variable provided: %s", k)
			}
		}
	}

	return nil
}

// lookupArg returns the last value the command line args specify for the named flag.
func lookupArg(flags *flag.FlagSet, args []string, name string) (string, bool) {
	value, found := "", false

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if len(arg) < 2 || arg[0] != '-' || arg == "--" {
			break
		}

		k, v, hasValue := strings.Cut(strings.TrimPrefix(arg[1:], "-"), "=")
		if k == name {
			switch {
			case hasValue:
				value, found = v, true
			case i+1 < len(args):
				i++
				value, found = args[i], true
			}
			continue
		}

		if !hasValue && !isBoolFlag(flags.Lookup(k)) {
			i++
		}
	}

	return value, found
}

func isBoolFlag(f *flag.Flag) bool {
	if f == nil {
		return false
	}

	b, ok := f.Value.(interface{ IsBoolFlag() bool })

	return ok && b.IsBoolFlag()
}

func EnvVarName(prefix, flagName string) string {
	return prefix + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}
