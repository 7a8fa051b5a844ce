package main

import (
	"github.com/n0madic/go-cw/config"
	"github.com/n0madic/go-cw/cw"
	"github.com/n0madic/go-cw/dataset"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var (
	confidenceFlag = &cli.Float64Flag{
		Name:    "confidence",
		Aliases: []string{"c"},
		Usage:   "Confidence parameter, must be positive (default: 1.0 or config value)",
	}

	iterationsFlag = &cli.IntFlag{
		Name:    "iterations",
		Aliases: []string{"i"},
		Usage:   "Number of passes over the training data (required unless set in config)",
	}

	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "Path to a YAML training config with confidence and iterations",
	}

	trainCmd = &cli.Command{
		Name:      "train",
		Usage:     "Train a model on a labeled dataset",
		ArgsUsage: "<trainFile> <modelFile>",
		Description: "Options must precede the files, e.g.\n" +
			"   cwtool train -c 1.0 -i 10 train.txt model.bin",
		Flags: []cli.Flag{
			confidenceFlag,
			iterationsFlag,
			configFlag,
		},
		Action: cmdTrain,
	}
)

// trainConfig resolves flag > config file > default.
func trainConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String(configFlag.Name); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.IsSet(confidenceFlag.Name) {
		cfg.Confidence = c.Float64(confidenceFlag.Name)
	}
	if c.IsSet(iterationsFlag.Name) {
		cfg.Iterations = c.Int(iterationsFlag.Name)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func cmdTrain(c *cli.Context) error {
	args, err := requireArgs(c, 2)
	if err != nil {
		return err
	}
	trainFile, modelFile := args[0], args[1]

	cfg, err := trainConfig(c)
	if err != nil {
		return err
	}

	examples, err := dataset.ReadFile(trainFile)
	if err != nil {
		return err
	}
	log.WithField("examples", len(examples)).Info("read done")

	m, err := cw.New(cw.WithConfidence(cfg.Confidence))
	if err != nil {
		return err
	}

	err = cw.Train(m, examples, cfg.Iterations, cw.OnPass(func(pass int) {
		log.WithFields(log.Fields{
			"pass":    pass,
			"of":      cfg.Iterations,
			"updates": m.GetStats().Updates,
		}).Debug("pass complete")
	}))
	if err != nil {
		return errors.Wrap(err, "training failed")
	}

	s := m.GetStats()
	log.WithFields(log.Fields{
		"dim":     s.Dim,
		"updates": s.Updates,
		"skipped": s.Skipped,
	}).Info("finish")

	if err := m.SaveFile(modelFile); err != nil {
		return err
	}
	log.Debugf("model saved to %s", modelFile)
	return nil
}
