package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cocosip/go-subband-codec/imageio"
	"github.com/cocosip/go-subband-codec/subband"
	"github.com/cocosip/go-subband-codec/subband/codestream"
)

func newCompressCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "compress <image>",
		Short: "Compress an image into a codestream file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			gray, err := imageio.Load(input, g.size)
			if err != nil {
				return err
			}

			store := codestream.FileStore{Path: g.outputPath(input, "", codestreamExt)}
			p, err := g.pipeline(cmd, store)
			if err != nil {
				return err
			}
			rep, err := p.Compress(subband.ImageFromGray(gray), g.step)
			if err != nil {
				return err
			}
			if err := store.Save(rep); err != nil {
				return err
			}

			raw := rep.Rows * rep.Cols
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d, %s, %d payload bytes (%.2fx)\n",
				store.Path, rep.Cols, rep.Rows, p.Coder().Name(), len(rep.Payload),
				float64(raw)/float64(max(len(rep.Payload), 1)))
			return nil
		},
	}
}

func newDecompressCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "decompress <codestream>",
		Short: "Reconstruct an image from a codestream file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			store := codestream.FileStore{Path: input}
			rep, err := store.Load()
			if err != nil {
				return err
			}

			p, err := g.decoder(cmd)
			if err != nil {
				return err
			}
			img, err := p.Decompress(rep)
			if err != nil {
				return err
			}

			out := g.outputPath(input, "reconstructed", ".png")
			if err := imageio.Save(out, subband.ToGray(img)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d\n", out, img.Cols, img.Rows)
			return nil
		},
	}
}

func newRoundtripCommand(g *globalFlags) *cobra.Command {
	var keep bool
	cmd := &cobra.Command{
		Use:   "roundtrip <image>",
		Short: "Compress, persist, reconstruct and report PSNR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			gray, err := imageio.Load(input, g.size)
			if err != nil {
				return err
			}

			var store codestream.Store = &codestream.MemoryStore{}
			if keep {
				store = codestream.FileStore{Path: imageio.LabeledPath(input, "compressed") + codestreamExt}
			}
			p, err := g.pipeline(cmd, store)
			if err != nil {
				return err
			}
			rec, psnr, err := p.CompressAndMeasure(subband.ImageFromGray(gray), g.step)
			if err != nil {
				return err
			}

			out := g.outputPath(input, "reconstructed", "")
			if err := imageio.Save(out, subband.ToGray(rec)); err != nil {
				return err
			}
			g.logger(cmd.ErrOrStderr()).Debug("roundtrip saved", slog.String("path", out))
			fmt.Fprintf(cmd.OutOrStdout(), "step %g: PSNR %.2f dB -> %s\n", g.step, psnr, out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&keep, "keep", false, "keep the intermediate codestream file")
	return cmd
}
