// Package lossy adapts the subband codec to go-dicom pixel data, compressing
// and decompressing every frame of a single-channel 8-bit image.
package lossy

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/cocosip/go-dicom/pkg/imaging/codec"
	"github.com/cocosip/go-dicom/pkg/imaging/imagetypes"
	"golang.org/x/sync/errgroup"

	sbcodec "github.com/cocosip/go-subband-codec/codec"
	"github.com/cocosip/go-subband-codec/subband"
	"github.com/cocosip/go-subband-codec/subband/codestream"
)

// FrameCodec is the frame-level part of go-dicom's codec.Codec. The subband
// bitstream has no DICOM transfer syntax UID, so Codec does not implement
// TransferSyntax and cannot be added to go-dicom's codec registry; callers
// use it directly on PixelData.
type FrameCodec interface {
	Name() string
	GetDefaultParameters() codec.Parameters
	Encode(oldPixelData, newPixelData imagetypes.PixelData, parameters codec.Parameters) error
	Decode(oldPixelData, newPixelData imagetypes.PixelData, parameters codec.Parameters) error
}

var _ FrameCodec = (*Codec)(nil)

// Codec compresses DICOM frames with the subband codec. It is standalone:
// see FrameCodec.
type Codec struct {
	defaultStep float64
	logger      *slog.Logger
}

// NewCodec creates a codec with the default quantization step
func NewCodec() *Codec {
	return NewCodecWithStep(subband.DefaultStep)
}

// NewCodecWithStep creates a codec with a custom default quantization step
func NewCodecWithStep(step float64) *Codec {
	if !(step > 0) {
		step = subband.DefaultStep
	}
	return &Codec{defaultStep: step, logger: slog.New(slog.DiscardHandler)}
}

// WithLogger sets the debug logger and returns the codec for chaining
func (c *Codec) WithLogger(logger *slog.Logger) *Codec {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Name returns the codec name
func (c *Codec) Name() string {
	return fmt.Sprintf("Subband Haar (Step %g)", c.defaultStep)
}

// GetDefaultParameters returns the default codec parameters
func (c *Codec) GetDefaultParameters() codec.Parameters {
	return NewSubbandParameters().WithStep(c.defaultStep)
}

// Encode compresses every frame of oldPixelData into newPixelData
func (c *Codec) Encode(oldPixelData imagetypes.PixelData, newPixelData imagetypes.PixelData, parameters codec.Parameters) error {
	if oldPixelData == nil || newPixelData == nil {
		return fmt.Errorf("source and destination PixelData cannot be nil")
	}

	frameInfo := oldPixelData.GetFrameInfo()
	if err := checkFrameInfo(frameInfo); err != nil {
		return err
	}

	params := c.resolveParameters(parameters)
	if err := params.Validate(); err != nil {
		return err
	}
	pipeline, err := subband.NewPipeline(params.options().WithLogger(c.logger))
	if err != nil {
		return err
	}

	rows, cols := int(frameInfo.Height), int(frameInfo.Width)
	return transcodeFrames(oldPixelData, newPixelData, func(frameIndex int, frame []byte) ([]byte, error) {
		img, err := subband.ImageFromBytes(frame, rows, cols)
		if err != nil {
			return nil, err
		}
		rep, err := pipeline.Compress(img, params.Step)
		if err != nil {
			return nil, err
		}
		return codestream.Marshal(rep)
	})
}

// Decode decompresses every frame of oldPixelData into newPixelData
func (c *Codec) Decode(oldPixelData imagetypes.PixelData, newPixelData imagetypes.PixelData, parameters codec.Parameters) error {
	if oldPixelData == nil || newPixelData == nil {
		return fmt.Errorf("source and destination PixelData cannot be nil")
	}

	frameInfo := oldPixelData.GetFrameInfo()
	if err := checkFrameInfo(frameInfo); err != nil {
		return err
	}
	rows, cols := int(frameInfo.Height), int(frameInfo.Width)

	pipeline, err := subband.NewPipeline(subband.NewOptions().WithLogger(c.logger))
	if err != nil {
		return err
	}

	return transcodeFrames(oldPixelData, newPixelData, func(frameIndex int, frame []byte) ([]byte, error) {
		rep, err := codestream.Unmarshal(frame)
		if err != nil {
			return nil, err
		}
		if rep.Rows != rows || rep.Cols != cols {
			return nil, fmt.Errorf("%w: codestream is %dx%d, frame info says %dx%d",
				sbcodec.ErrShapeMismatch, rep.Rows, rep.Cols, rows, cols)
		}
		img, err := pipeline.Decompress(rep)
		if err != nil {
			return nil, err
		}
		return subband.ToBytes(img), nil
	})
}

// resolveParameters accepts typed parameters or falls back to generic ones
func (c *Codec) resolveParameters(parameters codec.Parameters) *SubbandParameters {
	p := NewSubbandParameters().WithStep(c.defaultStep)
	if sp, ok := parameters.(*SubbandParameters); ok {
		if sp != nil {
			return sp
		}
		return p
	}
	if parameters == nil {
		return p
	}
	if v := parameters.GetParameter("step"); v != nil {
		p.SetParameter("step", v)
	}
	if v := parameters.GetParameter("coder"); v != nil {
		p.SetParameter("coder", v)
	}
	return p
}

// checkFrameInfo rejects frames the single-channel 8-bit core cannot represent
func checkFrameInfo(frameInfo *imagetypes.FrameInfo) error {
	if frameInfo == nil {
		return fmt.Errorf("failed to get frame info from source pixel data")
	}
	if frameInfo.SamplesPerPixel != 1 {
		return fmt.Errorf("%w: %d samples per pixel, only single-channel frames are supported",
			sbcodec.ErrUnsupportedFormat, frameInfo.SamplesPerPixel)
	}
	if frameInfo.BitsAllocated != 8 || frameInfo.PixelRepresentation != 0 {
		return fmt.Errorf("%w: %d-bit allocation, pixel representation %d; only unsigned 8-bit frames are supported",
			sbcodec.ErrUnsupportedFormat, frameInfo.BitsAllocated, frameInfo.PixelRepresentation)
	}
	if frameInfo.Width == 0 || frameInfo.Height == 0 {
		return fmt.Errorf("%w: frame size %dx%d", sbcodec.ErrInvalidParameter, frameInfo.Width, frameInfo.Height)
	}
	return nil
}

// transcodeFrames applies fn to every frame concurrently and appends the
// results to dst in frame order.
func transcodeFrames(src, dst imagetypes.PixelData, fn func(frameIndex int, frame []byte) ([]byte, error)) error {
	frameCount := src.FrameCount()
	out := make([][]byte, frameCount)

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for frameIndex := 0; frameIndex < frameCount; frameIndex++ {
		g.Go(func() error {
			frameData, err := src.GetFrame(frameIndex)
			if err != nil {
				return fmt.Errorf("failed to get frame %d: %w", frameIndex, err)
			}
			if len(frameData) == 0 {
				return fmt.Errorf("frame %d pixel data is empty", frameIndex)
			}
			res, err := fn(frameIndex, frameData)
			if err != nil {
				return fmt.Errorf("frame %d: %w", frameIndex, err)
			}
			out[frameIndex] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for frameIndex, frame := range out {
		if err := dst.AddFrame(frame); err != nil {
			return fmt.Errorf("failed to add frame %d: %w", frameIndex, err)
		}
	}
	return nil
}
