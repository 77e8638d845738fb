package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cwbudde/algo-ring/dsp/core"
	"github.com/cwbudde/algo-ring/internal/fx"
	"github.com/cwbudde/algo-ring/internal/preset"
	"github.com/cwbudde/algo-ring/internal/wavio"
	"github.com/cwbudde/algo-ring/stats/level"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type processOptions struct {
	in          string
	out         string
	effect      string
	presetPath  string
	block       int
	fixedBlock  int
	keepLatency bool
	bitDepth    int
}

func newProcessCmd(a *app) *cobra.Command {
	opts := &processOptions{}

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Run an effect over a WAV file",
		Long: "Decodes --in, runs one effect instance per channel and writes --out.\n" +
			"Flags override the values loaded from --preset.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, a.log, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.in, "in", "i", "", "Input WAV file")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output WAV file")
	cmd.Flags().StringVarP(&opts.effect, "effect", "e", preset.EffectDelay,
		"Effect: "+strings.Join(preset.Effects(), ", "))
	cmd.Flags().StringVarP(&opts.presetPath, "preset", "p", "", "YAML preset file")
	cmd.Flags().IntVarP(&opts.block, "block", "b", 256, "Host block size in samples")
	cmd.Flags().IntVar(&opts.fixedBlock, "fixed-block", 0,
		"Run the effect in blocks of exactly this size (0 disables)")
	cmd.Flags().BoolVar(&opts.keepLatency, "keep-latency", false,
		"Keep the processing latency at the start of the output")
	cmd.Flags().IntVar(&opts.bitDepth, "bit-depth", 0, "Output bit depth (16, 24, 32); 0 keeps the input depth")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func resolvePreset(cmd *cobra.Command, opts *processOptions) (*preset.Preset, error) {
	p, err := preset.Load(opts.presetPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("effect") {
		p.Effect = strings.ToLower(opts.effect)
	}
	if flags.Changed("block") {
		p.BlockSize = opts.block
	}
	if flags.Changed("fixed-block") {
		p.FixedBlock = opts.fixedBlock
	}
	if flags.Changed("keep-latency") {
		p.TrimLatency = !opts.keepLatency
	}

	err = p.Validate()
	if err != nil {
		return nil, err
	}

	return p, nil
}

func runProcess(cmd *cobra.Command, log *logrus.Logger, opts *processOptions) error {
	if opts.in == opts.out {
		return errors.New("--in and --out must differ")
	}

	p, err := resolvePreset(cmd, opts)
	if err != nil {
		return err
	}

	clip, err := wavio.Read(opts.in)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"file":        opts.in,
		"sample_rate": clip.SampleRate,
		"channels":    clip.NumChannels(),
		"frames":      clip.Len(),
		"bit_depth":   clip.BitDepth,
	}).Info("decoded input")

	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(float64(clip.SampleRate)),
		core.WithMaxBlockLen(p.BlockSize),
	)

	out := &wavio.Audio{
		SampleRate: clip.SampleRate,
		BitDepth:   clip.BitDepth,
		Channels:   make([][]float64, clip.NumChannels()),
	}
	if opts.bitDepth != 0 {
		out.BitDepth = opts.bitDepth
	}

	var inMeter, outMeter level.Meter
	for c, ch := range clip.Channels {
		eff, err := fx.New(p, cfg)
		if err != nil {
			return fmt.Errorf("effect %s: %w", p.Effect, err)
		}

		if c == 0 {
			log.WithFields(logrus.Fields{
				"effect":      p.Effect,
				"block":       p.BlockSize,
				"fixed_block": p.FixedBlock,
				"latency":     eff.Latency(),
				"trimmed":     p.TrimLatency,
			}).Debug("effect ready")
		}
		out.Channels[c] = fx.Run(eff, ch, p.BlockSize, p.TrimLatency)
		inMeter.Update(ch)
		outMeter.Update(out.Channels[c])
	}

	logLevels(log, "input", inMeter.Result())
	logLevels(log, "output", outMeter.Result())
	if s := outMeter.Result(); s.Peak > 1 {
		log.WithField("peak_db", fmt.Sprintf("%.2f", s.Peak_dB)).Warn("output clipped")
	}

	err = wavio.Write(opts.out, out)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d ch, %d frames, %s)\n",
		opts.out, out.NumChannels(), out.Len(), p.Effect)
	return nil
}

func logLevels(log *logrus.Logger, stage string, s level.Stats) {
	log.WithFields(logrus.Fields{
		"peak_db": fmt.Sprintf("%.2f", s.Peak_dB),
		"rms_db":  fmt.Sprintf("%.2f", s.RMS_dB),
		"crest":   fmt.Sprintf("%.2f", s.CrestFactor_dB),
	}).Info(stage + " levels")
}
