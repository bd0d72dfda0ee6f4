// Package galacli provides common CLI utilities and boilerplate for building
// the gala API server as a command-line application or a Lambda function.
//
// This package includes standardized service configuration, common CLI flags,
// structured logging setup, and build information tracking.
package galacli

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/urfave/cli/v2"
)

func App(service Service, action cli.ActionFunc, flags ...cli.Flag) *cli.App {
	return &cli.App{
		Name:                 service.Name,
		Usage:                fmt.Sprintf("%v API Server", service.Name),
		Version:              service.Version,
		EnableBashCompletion: true,
		Action:               action,
		Flags:                flags,
	}
}

// StringFlag builds a string flag bound to the env var derived from its name,
// with an optional default value.
func StringFlag(name, usage string, destination *string, value ...string) *cli.StringFlag {
	var def string
	if len(value) > 0 {
		def = value[0]
	}
	return &cli.StringFlag{
		Name:        name,
		Usage:       usage,
		Value:       def,
		EnvVars:     []string{envName(name)},
		Destination: destination,
	}
}

func envName(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

func CommitHash() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
		return info.Main.Version
	}
	return "unknown"
}
