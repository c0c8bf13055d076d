package codec

import (
	"fmt"

	"github.com/cocosip/go-dicom/pkg/imaging/imagetypes"
)

// TestPixelData is an in-memory implementation of imagetypes.PixelData for tests
// and examples that drive the go-dicom codec adapters without a DICOM file.
type TestPixelData struct {
	frames    [][]byte
	frameInfo *imagetypes.FrameInfo
}

// NewTestPixelData creates a new TestPixelData with the given frame info
func NewTestPixelData(frameInfo *imagetypes.FrameInfo) *TestPixelData {
	return &TestPixelData{
		frames:    make([][]byte, 0),
		frameInfo: frameInfo,
	}
}

// GetFrame returns the pixel data for the specified frame (0-indexed)
func (p *TestPixelData) GetFrame(frameIndex int) ([]byte, error) {
	if frameIndex < 0 || frameIndex >= len(p.frames) {
		return nil, fmt.Errorf("frame %d out of range [0,%d)", frameIndex, len(p.frames))
	}
	return p.frames[frameIndex], nil
}

// AddFrame appends a new frame to the pixel data
func (p *TestPixelData) AddFrame(frameData []byte) error {
	p.frames = append(p.frames, frameData)
	return nil
}

// FrameCount returns the number of frames in the pixel data
func (p *TestPixelData) FrameCount() int {
	return len(p.frames)
}

// GetFrameInfo returns frame metadata for codec operations
func (p *TestPixelData) GetFrameInfo() *imagetypes.FrameInfo {
	return p.frameInfo
}

// IsEncapsulated returns true if pixel data is encapsulated (compressed)
func (p *TestPixelData) IsEncapsulated() bool {
	return false
}
