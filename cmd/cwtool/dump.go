package main

import (
	"fmt"

	"github.com/n0madic/go-cw/cw"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

var (
	formatFlag = &cli.StringFlag{
		Name:  "format",
		Usage: "Output format [text, yaml]",
		Value: formatText,
	}

	dumpCmd = &cli.Command{
		Name:      "dump",
		Usage:     "Print the weights of a model",
		ArgsUsage: "<modelFile>",
		Flags: []cli.Flag{
			formatFlag,
		},
		Action: cmdDump,
	}
)

type weight struct {
	Index    int     `yaml:"index"`
	Mean     float64 `yaml:"mean"`
	Variance float64 `yaml:"variance"`
}

type dump struct {
	Stats   cw.Stats `yaml:"stats"`
	Weights []weight `yaml:"weights"`
}

func cmdDump(c *cli.Context) error {
	args, err := requireArgs(c, 1)
	if err != nil {
		return err
	}

	m, err := cw.LoadFile(args[0])
	if err != nil {
		return err
	}

	w := c.App.Writer
	switch f := c.String(formatFlag.Name); f {
	case formatText:
		fmt.Fprintf(w, "confidence %v\n", m.Confidence())
		for i := 0; i < m.Dim(); i++ {
			fmt.Fprintf(w, "%d:%v:%v\n", i, m.Mean(i), m.Variance(i))
		}
	case formatYAML, "yml":
		d := dump{Stats: m.GetStats(), Weights: make([]weight, 0, m.Dim())}
		for i := 0; i < m.Dim(); i++ {
			d.Weights = append(d.Weights, weight{Index: i, Mean: m.Mean(i), Variance: m.Variance(i)})
		}
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		if err := enc.Encode(d); err != nil {
			return errors.Wrap(err, "failed to encode model")
		}
	default:
		return errors.Errorf("unsupported format %q", f)
	}
	return nil
}
