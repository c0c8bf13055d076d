package main

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cocosip/go-subband-codec/imageio"
	"github.com/cocosip/go-subband-codec/subband"
	"github.com/cocosip/go-subband-codec/subband/codestream"
)

// codestreamExt is the file extension for persisted codestreams
const codestreamExt = ".sbnd"

type globalFlags struct {
	step    float64
	coder   string
	size    int
	out     string
	verbose bool
}

func newRootCommand() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "subband",
		Short:         "Lossy Haar subband image codec",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.Float64Var(&g.step, "step", subband.DefaultStep, "quantization step size")
	pf.StringVar(&g.coder, "coder", subband.DefaultCoder, "entropy coder (identity, zstd, s2)")
	pf.IntVar(&g.size, "size", imageio.DefaultSize, "square working size on load, 0 keeps the original size")
	pf.StringVarP(&g.out, "out", "o", "", "output path")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newCompressCommand(g),
		newDecompressCommand(g),
		newRoundtripCommand(g),
		newEnhanceCommand(g),
		newDicomCommand(g),
	)
	return root
}

func (g *globalFlags) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if g.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (g *globalFlags) pipeline(cmd *cobra.Command, store codestream.Store) (*subband.Pipeline, error) {
	opts := subband.NewOptions().
		WithStep(g.step).
		WithCoder(g.coder).
		WithStore(store).
		WithLogger(g.logger(cmd.ErrOrStderr()))
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return subband.NewPipeline(opts)
}

// decoder builds a pipeline for decompression only. The coder and step come
// from the codestream, so --step and --coder are not validated here.
func (g *globalFlags) decoder(cmd *cobra.Command) (*subband.Pipeline, error) {
	return subband.NewPipeline(subband.NewOptions().WithLogger(g.logger(cmd.ErrOrStderr())))
}

// outputPath returns --out when set, otherwise input with label inserted
// before the extension. A non-empty ext replaces the input's extension.
func (g *globalFlags) outputPath(input, label, ext string) string {
	if g.out != "" {
		return g.out
	}
	if ext != "" {
		input = strings.TrimSuffix(input, filepath.Ext(input)) + ext
	}
	if label == "" {
		return input
	}
	return imageio.LabeledPath(input, label)
}
