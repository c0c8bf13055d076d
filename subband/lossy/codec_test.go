package lossy

import (
	"errors"
	"testing"

	"github.com/cocosip/go-dicom/pkg/imaging/codec"
	"github.com/cocosip/go-dicom/pkg/imaging/imagetypes"

	codecHelpers "github.com/cocosip/go-subband-codec/codec"
)

func grayFrameInfo(width, height uint16) *imagetypes.FrameInfo {
	return &imagetypes.FrameInfo{
		Width:                     width,
		Height:                    height,
		BitsAllocated:             8,
		BitsStored:                8,
		HighBit:                   7,
		SamplesPerPixel:           1,
		PixelRepresentation:       0,
		PlanarConfiguration:       0,
		PhotometricInterpretation: "MONOCHROME2",
	}
}

func gradientFrame(width, height, shift int) []byte {
	pixelData := make([]byte, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixelData[y*width+x] = byte((x + y + shift) % 256)
		}
	}
	return pixelData
}

func TestCodecIsStandalone(t *testing.T) {
	var c any = NewCodec()
	if _, ok := c.(FrameCodec); !ok {
		t.Fatal("Codec does not implement FrameCodec")
	}
	if _, ok := c.(codec.Codec); ok {
		t.Error("Codec unexpectedly satisfies go-dicom codec.Codec without a transfer syntax")
	}
}

func TestCodecName(t *testing.T) {
	c := NewCodecWithStep(4)
	if want := "Subband Haar (Step 4)"; c.Name() != want {
		t.Errorf("Name() = %q, want %q", c.Name(), want)
	}
	if step := c.GetDefaultParameters().GetParameter("step"); step != 4.0 {
		t.Errorf("default step = %v, want 4", step)
	}
}

// TestMultiFrameEncodeDecode round trips several frames and checks their order
func TestMultiFrameEncodeDecode(t *testing.T) {
	width, height := uint16(33), uint16(20)
	frameInfo := grayFrameInfo(width, height)

	src := codecHelpers.NewTestPixelData(frameInfo)
	var frames [][]byte
	for i := 0; i < 5; i++ {
		f := gradientFrame(int(width), int(height), i*40)
		frames = append(frames, f)
		if err := src.AddFrame(f); err != nil {
			t.Fatalf("AddFrame failed: %v", err)
		}
	}

	c := NewCodec()
	params := NewSubbandParameters().WithStep(2).WithCoder("s2")

	encoded := codecHelpers.NewTestPixelData(frameInfo)
	if err := c.Encode(src, encoded, params); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if encoded.FrameCount() != len(frames) {
		t.Fatalf("encoded %d frames, want %d", encoded.FrameCount(), len(frames))
	}

	decoded := codecHelpers.NewTestPixelData(frameInfo)
	if err := c.Decode(encoded, decoded, nil); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	for i, want := range frames {
		got, err := decoded.GetFrame(i)
		if err != nil {
			t.Fatalf("GetFrame(%d) failed: %v", i, err)
		}
		if len(got) != len(want) {
			t.Fatalf("frame %d: %d bytes, want %d", i, len(got), len(want))
		}
		maxError := 0
		for j := range want {
			diff := int(got[j]) - int(want[j])
			if diff < 0 {
				diff = -diff
			}
			if diff > maxError {
				maxError = diff
			}
		}
		// Four coefficients each off by at most step/2, halved by synthesis.
		if maxError > 2 {
			t.Errorf("frame %d: max error %d, want <= 2", i, maxError)
		}
	}
}

func TestGenericParameters(t *testing.T) {
	frameInfo := grayFrameInfo(8, 8)
	src := codecHelpers.NewTestPixelData(frameInfo)
	if err := src.AddFrame(gradientFrame(8, 8, 0)); err != nil {
		t.Fatalf("AddFrame failed: %v", err)
	}

	params := NewSubbandParameters()
	params.SetParameter("step", 3)
	params.SetParameter("coder", "identity")
	params.SetParameter("custom", true)

	if params.GetParameter("step").(float64) != 3 {
		t.Errorf("step = %v, want 3", params.GetParameter("step"))
	}
	if params.GetParameter("custom") != true {
		t.Error("custom parameter not stored")
	}

	encoded := codecHelpers.NewTestPixelData(frameInfo)
	if err := NewCodec().Encode(src, encoded, params); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	frame, _ := encoded.GetFrame(0)
	// identity coder: 4 subbands of 4x4 float64 plus framing
	if len(frame) < 4*4*4*8 {
		t.Errorf("identity-coded frame is only %d bytes", len(frame))
	}
}

func TestEncodeRejects(t *testing.T) {
	rgb := grayFrameInfo(4, 4)
	rgb.SamplesPerPixel = 3
	rgb.PhotometricInterpretation = "RGB"

	wide := grayFrameInfo(4, 4)
	wide.BitsAllocated = 16
	wide.BitsStored = 12

	tests := []struct {
		name   string
		info   *imagetypes.FrameInfo
		frame  []byte
		params codec.Parameters
		want   error
	}{
		{"multi-channel", rgb, make([]byte, 48), nil, codecHelpers.ErrUnsupportedFormat},
		{"16-bit", wide, make([]byte, 32), nil, codecHelpers.ErrUnsupportedFormat},
		{"zero step", grayFrameInfo(4, 4), make([]byte, 16), NewSubbandParameters().WithStep(0), codecHelpers.ErrInvalidParameter},
		{"unknown coder", grayFrameInfo(4, 4), make([]byte, 16), NewSubbandParameters().WithCoder("lzw"), codecHelpers.ErrInvalidParameter},
		{"short frame", grayFrameInfo(4, 4), make([]byte, 10), nil, codecHelpers.ErrShapeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := codecHelpers.NewTestPixelData(tt.info)
			if err := src.AddFrame(tt.frame); err != nil {
				t.Fatalf("AddFrame failed: %v", err)
			}
			dst := codecHelpers.NewTestPixelData(tt.info)
			if err := NewCodec().Encode(src, dst, tt.params); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if dst.FrameCount() != 0 {
				t.Errorf("destination has %d frames after failure", dst.FrameCount())
			}
		})
	}
}

func TestDecodeMismatchedFrameInfo(t *testing.T) {
	src := codecHelpers.NewTestPixelData(grayFrameInfo(8, 8))
	if err := src.AddFrame(gradientFrame(8, 8, 0)); err != nil {
		t.Fatalf("AddFrame failed: %v", err)
	}
	encoded := codecHelpers.NewTestPixelData(grayFrameInfo(8, 8))
	if err := NewCodec().Encode(src, encoded, nil); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	frame, _ := encoded.GetFrame(0)
	relabeled := codecHelpers.NewTestPixelData(grayFrameInfo(16, 8))
	_ = relabeled.AddFrame(frame)

	if err := NewCodec().Decode(relabeled, codecHelpers.NewTestPixelData(grayFrameInfo(16, 8)), nil); !errors.Is(err, codecHelpers.ErrShapeMismatch) {
		t.Errorf("error = %v, want ErrShapeMismatch", err)
	}

	corrupt := codecHelpers.NewTestPixelData(grayFrameInfo(8, 8))
	_ = corrupt.AddFrame(append([]byte("XXXX"), frame[4:]...))
	if err := NewCodec().Decode(corrupt, codecHelpers.NewTestPixelData(grayFrameInfo(8, 8)), nil); !errors.Is(err, codecHelpers.ErrCorruptData) {
		t.Errorf("error = %v, want ErrCorruptData", err)
	}
}
