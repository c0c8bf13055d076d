package subband

import (
	"fmt"
	"log/slog"

	"github.com/cocosip/go-subband-codec/codec"
	"github.com/cocosip/go-subband-codec/subband/codestream"
	"github.com/cocosip/go-subband-codec/subband/entropy"
)

// Ensure Options implements codec.Options
var _ codec.Options = (*Options)(nil)

const (
	// DefaultStep is the quantization step used when none is configured
	DefaultStep = 10.0

	// DefaultCoder is the entropy coder used when none is configured
	DefaultCoder = "identity"
)

// Options configures a Pipeline and the registered codec.
type Options struct {
	// Step is the quantization step used by Codec.Encode. Pipeline methods
	// take the step per call instead.
	Step float64

	// Coder names the entropy coder used for encoding ("identity", "zstd", "s2").
	// Decoding always uses the coder recorded in the codestream.
	Coder string

	// Store persists the codestream during CompressAndMeasure.
	// Nil means a fresh in-memory store per call.
	Store codestream.Store

	// Logger receives per-stage debug records. Nil discards them.
	Logger *slog.Logger
}

// NewOptions returns options with default values
func NewOptions() *Options {
	return &Options{
		Step:  DefaultStep,
		Coder: DefaultCoder,
	}
}

// Validate checks the step and that the coder is registered
func (o *Options) Validate() error {
	if err := ValidateStep(o.Step); err != nil {
		return err
	}
	if o.Coder == "" {
		o.Coder = DefaultCoder
	}
	if _, err := entropy.Get(o.Coder); err != nil {
		return fmt.Errorf("%w: %v", codec.ErrInvalidParameter, err)
	}
	return nil
}

// WithStep sets the quantization step and returns the options for chaining
func (o *Options) WithStep(step float64) *Options {
	o.Step = step
	return o
}

// WithCoder sets the entropy coder name and returns the options for chaining
func (o *Options) WithCoder(name string) *Options {
	o.Coder = name
	return o
}

// WithStore sets the persistence store and returns the options for chaining
func (o *Options) WithStore(store codestream.Store) *Options {
	o.Store = store
	return o
}

// WithLogger sets the debug logger and returns the options for chaining
func (o *Options) WithLogger(logger *slog.Logger) *Options {
	o.Logger = logger
	return o
}
