package main

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"

	"github.com/cocosip/go-dicom/pkg/dicom/parser"
	"github.com/cocosip/go-dicom/pkg/dicom/transfer"
	"github.com/cocosip/go-dicom/pkg/imaging"
	dicomcodec "github.com/cocosip/go-dicom/pkg/imaging/codec"
	"github.com/spf13/cobra"

	"github.com/cocosip/go-subband-codec/subband"
)

func newDicomCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "dicom <file.dcm>",
		Short: "Measure codec fidelity on every frame of a monochrome DICOM file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			res, err := parser.ParseFile(path, parser.WithReadOption(parser.ReadAll))
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}
			ds := res.Dataset
			if res.TransferSyntax != nil && res.TransferSyntax.IsEncapsulated() {
				tr := dicomcodec.NewTranscoder(res.TransferSyntax, transfer.ExplicitVRLittleEndian)
				if ds, err = tr.Transcode(ds); err != nil {
					return fmt.Errorf("transcode %s: %w", path, err)
				}
			}

			pd, err := imaging.CreatePixelData(ds)
			if err != nil {
				return fmt.Errorf("pixel data: %w", err)
			}
			info := pd.Info
			if info.SamplesPerPixel != 1 || (info.BitsAllocated != 8 && info.BitsAllocated != 16) {
				return fmt.Errorf("unsupported pixel layout: %d samples, %d bits allocated",
					info.SamplesPerPixel, info.BitsAllocated)
			}

			p, err := g.pipeline(cmd, nil)
			if err != nil {
				return err
			}
			rows, cols := int(info.Height), int(info.Width)
			logger := g.logger(cmd.ErrOrStderr())
			for i := 0; i < int(pd.FrameCount()); i++ {
				frame, err := pd.GetFrame(i)
				if err != nil {
					return fmt.Errorf("frame %d: %w", i, err)
				}
				if info.BitsAllocated == 16 {
					frame = windowTo8Bit(frame, info.PixelRepresentation != 0)
				}
				img, err := subband.ImageFromBytes(frame, rows, cols)
				if err != nil {
					return fmt.Errorf("frame %d: %w", i, err)
				}
				_, psnr, err := p.CompressAndMeasure(img, g.step)
				if err != nil {
					return fmt.Errorf("frame %d: %w", i, err)
				}
				logger.Debug("frame measured", slog.Int("frame", i), slog.Float64("psnr", psnr))
				fmt.Fprintf(cmd.OutOrStdout(), "%s frame %d: %dx%d, step %g, PSNR %.2f dB\n",
					path, i, cols, rows, g.step, psnr)
			}
			return nil
		},
	}
}

// windowTo8Bit maps little-endian 16-bit samples linearly from their
// min..max range onto 0..255.
func windowTo8Bit(raw []byte, signed bool) []byte {
	n := len(raw) / 2
	values := make([]float64, n)
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range values {
		u := binary.LittleEndian.Uint16(raw[2*i:])
		v := float64(u)
		if signed {
			v = float64(int16(u))
		}
		values[i] = v
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}

	out := make([]byte, n)
	if hi <= lo {
		return out
	}
	scale := 255 / (hi - lo)
	for i, v := range values {
		out[i] = byte(math.Round((v - lo) * scale))
	}
	return out
}
