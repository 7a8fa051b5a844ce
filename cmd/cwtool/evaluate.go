package main

import (
	"fmt"

	"github.com/n0madic/go-cw/cw"
	"github.com/n0madic/go-cw/dataset"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var testCmd = &cli.Command{
	Name:      "test",
	Usage:     "Evaluate a model on a labeled dataset and print accuracy",
	ArgsUsage: "<testFile> <modelFile>",
	Action:    cmdTest,
}

func cmdTest(c *cli.Context) error {
	args, err := requireArgs(c, 2)
	if err != nil {
		return err
	}
	testFile, modelFile := args[0], args[1]

	m, err := cw.LoadFile(modelFile)
	if err != nil {
		return err
	}
	log.WithField("dim", m.Dim()).Debug("model loaded")

	examples, err := dataset.ReadFile(testFile)
	if err != nil {
		return err
	}

	res, err := cw.Evaluate(m, examples)
	if err != nil {
		return errors.Wrap(err, "evaluation failed")
	}

	fmt.Fprintln(c.App.Writer, res.String())
	return nil
}
