package subband

import (
	"fmt"
	"log/slog"

	"github.com/cocosip/go-subband-codec/subband/codestream"
	"github.com/cocosip/go-subband-codec/subband/entropy"
	"github.com/cocosip/go-subband-codec/subband/wavelet"
)

// Pipeline runs transform, quantization, entropy coding and persistence.
// It holds no per-image state. Compress and Decompress are safe for
// concurrent use; CompressAndMeasure is only when no Store is configured,
// since each call then gets its own in-memory store. A shared Store such as
// FileStore is one slot, so concurrent calls may load each other's codestream.
type Pipeline struct {
	coder  entropy.Coder
	store  codestream.Store
	logger *slog.Logger
}

var defaultPipeline = mustPipeline(NewPipeline(nil))

func mustPipeline(p *Pipeline, err error) *Pipeline {
	if err != nil {
		panic(fmt.Sprintf("subband: default pipeline: %v", err))
	}
	return p
}

// NewPipeline creates a pipeline. Nil options select the defaults.
func NewPipeline(opts *Options) (*Pipeline, error) {
	if opts == nil {
		opts = NewOptions()
	}
	name := opts.Coder
	if name == "" {
		name = DefaultCoder
	}
	coder, err := entropy.Get(name)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Pipeline{coder: coder, store: opts.Store, logger: logger}, nil
}

// Coder returns the entropy coder used for encoding
func (p *Pipeline) Coder() entropy.Coder {
	return p.coder
}

// Compress transforms, quantizes and entropy-codes img.
func (p *Pipeline) Compress(img *Image, step float64) (*codestream.Representation, error) {
	if err := ValidateStep(step); err != nil {
		return nil, err
	}
	if err := validateImage(img); err != nil {
		return nil, err
	}

	set, err := wavelet.Forward(img)
	if err != nil {
		return nil, fmt.Errorf("forward transform: %w", err)
	}
	quantized, err := Quantize(set, step)
	if err != nil {
		return nil, err
	}
	payload, err := p.coder.Encode(quantized)
	if err != nil {
		return nil, fmt.Errorf("%s encode: %w", p.coder.Name(), err)
	}

	bandRows, bandCols := quantized.Shape()
	p.logger.Debug("subband: compressed",
		slog.Int("rows", img.Rows),
		slog.Int("cols", img.Cols),
		slog.Float64("step", step),
		slog.String("coder", p.coder.Name()),
		slog.Int("alphabet", Alphabet(quantized)),
		slog.Int("payload", len(payload)))

	return &codestream.Representation{
		Rows:     img.Rows,
		Cols:     img.Cols,
		BandRows: bandRows,
		BandCols: bandCols,
		Step:     step,
		Coder:    p.coder.ID(),
		Payload:  payload,
	}, nil
}

// Decompress decodes rep back to an image. The entropy coder is taken from
// the representation, not from the pipeline.
func (p *Pipeline) Decompress(rep *codestream.Representation) (*Image, error) {
	if err := rep.Validate(); err != nil {
		return nil, err
	}
	coder, err := entropy.GetByID(rep.Coder)
	if err != nil {
		return nil, err
	}

	set, err := coder.Decode(rep.Payload, rep.BandRows, rep.BandCols)
	if err != nil {
		return nil, fmt.Errorf("%s decode: %w", coder.Name(), err)
	}
	img, err := wavelet.Inverse(Dequantize(set), rep.Rows, rep.Cols)
	if err != nil {
		return nil, fmt.Errorf("inverse transform: %w", err)
	}

	p.logger.Debug("subband: decompressed",
		slog.Int("rows", img.Rows),
		slog.Int("cols", img.Cols),
		slog.String("coder", coder.Name()))
	return img, nil
}

// CompressAndMeasure compresses img, persists and reloads the codestream,
// decompresses it and reports the PSNR of the reconstruction against img.
func (p *Pipeline) CompressAndMeasure(img *Image, step float64) (*Image, float64, error) {
	rep, err := p.Compress(img, step)
	if err != nil {
		return nil, 0, err
	}

	store := p.store
	if store == nil {
		store = &codestream.MemoryStore{}
	}
	if err := store.Save(rep); err != nil {
		return nil, 0, err
	}
	loaded, err := store.Load()
	if err != nil {
		return nil, 0, err
	}

	rec, err := p.Decompress(loaded)
	if err != nil {
		return nil, 0, err
	}
	psnr, err := PSNR(img, rec)
	if err != nil {
		return nil, 0, err
	}

	p.logger.Debug("subband: measured", slog.Float64("step", step), slog.Float64("psnr", psnr))
	return rec, psnr, nil
}

// Compress runs Pipeline.Compress with the default pipeline
func Compress(img *Image, step float64) (*codestream.Representation, error) {
	return defaultPipeline.Compress(img, step)
}

// Decompress runs Pipeline.Decompress with the default pipeline
func Decompress(rep *codestream.Representation) (*Image, error) {
	return defaultPipeline.Decompress(rep)
}

// CompressAndMeasure runs Pipeline.CompressAndMeasure with the default pipeline
func CompressAndMeasure(img *Image, step float64) (*Image, float64, error) {
	return defaultPipeline.CompressAndMeasure(img, step)
}
