package lossy

import (
	"github.com/cocosip/go-dicom/pkg/imaging/codec"

	"github.com/cocosip/go-subband-codec/subband"
)

// Ensure SubbandParameters implements codec.Parameters
var _ codec.Parameters = (*SubbandParameters)(nil)

// SubbandParameters contains parameters for subband compression of DICOM frames.
type SubbandParameters struct {
	// Step is the scalar quantization step (> 0). Larger steps compress more
	// and lose more fidelity. Default: 10.
	Step float64

	// Coder names the entropy coder: "identity", "zstd" or "s2". Default: "zstd".
	Coder string

	// internal storage for compatibility with generic parameter interface
	params map[string]interface{}
}

// NewSubbandParameters creates parameters with default values
func NewSubbandParameters() *SubbandParameters {
	return &SubbandParameters{
		Step:   subband.DefaultStep,
		Coder:  "zstd",
		params: make(map[string]interface{}),
	}
}

// GetParameter retrieves a parameter by name (implements codec.Parameters)
func (p *SubbandParameters) GetParameter(name string) interface{} {
	switch name {
	case "step":
		return p.Step
	case "coder":
		return p.Coder
	default:
		return p.params[name]
	}
}

// SetParameter sets a parameter value (implements codec.Parameters)
func (p *SubbandParameters) SetParameter(name string, value interface{}) {
	switch name {
	case "step":
		switch v := value.(type) {
		case float64:
			p.Step = v
		case float32:
			p.Step = float64(v)
		case int:
			p.Step = float64(v)
		}
	case "coder":
		if v, ok := value.(string); ok {
			p.Coder = v
		}
	default:
		if p.params == nil {
			p.params = make(map[string]interface{})
		}
		p.params[name] = value
	}
}

// Validate checks the parameters. An empty coder is reset to the default;
// a non-positive step is an error rather than being silently replaced.
func (p *SubbandParameters) Validate() error {
	if p.Coder == "" {
		p.Coder = "zstd"
	}
	return p.options().Validate()
}

// WithStep sets the quantization step and returns the parameters for chaining
func (p *SubbandParameters) WithStep(step float64) *SubbandParameters {
	p.Step = step
	return p
}

// WithCoder sets the entropy coder and returns the parameters for chaining
func (p *SubbandParameters) WithCoder(name string) *SubbandParameters {
	p.Coder = name
	return p
}

func (p *SubbandParameters) options() *subband.Options {
	return subband.NewOptions().WithStep(p.Step).WithCoder(p.Coder)
}
