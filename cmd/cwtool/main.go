package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const (
	formatText = "text"
	formatYAML = "yaml"
)

var (
	name    = "cwtool"
	version = "v0.0.1-default"
	commit  = ""

	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}
)

func main() {
	initLogging()

	if err := newApp().Run(os.Args); err != nil {
		fatalErr(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:            name,
		Version:         fmt.Sprintf("%s - (commit: %s)", version, commit),
		Compiled:        time.Now(),
		Usage:           "Confidence-Weighted binary classifier trainer and tester",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			debugFlag,
		},
		Commands: []*cli.Command{
			trainCmd,
			testCmd,
			dumpCmd,
		},
		Before: func(c *cli.Context) error {
			if c.Bool(debugFlag.Name) {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
	}
}

// requireArgs returns the first n positional arguments of c.
func requireArgs(c *cli.Context, n int) ([]string, error) {
	if c.NArg() > n && strings.HasPrefix(c.Args().Get(n), "-") {
		return nil, errors.Errorf("options must come before arguments, got %q after them (usage: %s %s [options] %s)",
			c.Args().Get(n), name, c.Command.Name, c.Command.ArgsUsage)
	}
	if c.NArg() != n {
		return nil, errors.Errorf("expected %d arguments, got %d (usage: %s %s %s)",
			n, c.NArg(), name, c.Command.Name, c.Command.ArgsUsage)
	}
	return c.Args().Slice(), nil
}

func fatalErr(err error) {
	if err != nil {
		log.Errorf("fatal error: %v", err)
		os.Exit(1)
	}
}

func initLogging() {
	log.SetOutput(os.Stderr)
	log.SetLevel(log.InfoLevel)
	log.SetReportCaller(false)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:          false,
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
		PadLevelText:           true,
	})
}
