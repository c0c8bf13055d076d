package subband

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/cocosip/go-subband-codec/codec"
	"github.com/cocosip/go-subband-codec/subband/codestream"
)

func TestCompressInvalidStep(t *testing.T) {
	for _, img := range []*Image{noiseImage(4, 4), constantImage(7, 3, 0)} {
		for _, step := range []float64{0, -5, math.NaN()} {
			if _, err := Compress(img, step); !errors.Is(err, codec.ErrInvalidParameter) {
				t.Errorf("Compress(step=%v) error = %v, want ErrInvalidParameter", step, err)
			}
		}
	}
}

func TestCompressAndMeasureOverflowingStep(t *testing.T) {
	rec, psnr, err := CompressAndMeasure(noiseImage(8, 8), 5e-324)
	if !errors.Is(err, codec.ErrInvalidParameter) {
		t.Fatalf("error = %v (psnr %v), want ErrInvalidParameter", err, psnr)
	}
	if rec != nil {
		t.Error("reconstruction returned alongside error")
	}
}

func TestCompressRejectsOutOfRangeSamples(t *testing.T) {
	img := constantImage(4, 4, 10)
	img.Data[5] = 256
	if _, err := Compress(img, 1); !errors.Is(err, codec.ErrInvalidParameter) {
		t.Errorf("error = %v, want ErrInvalidParameter", err)
	}
	img.Data[5] = math.NaN()
	if _, err := Compress(img, 1); !errors.Is(err, codec.ErrInvalidParameter) {
		t.Errorf("NaN sample error = %v, want ErrInvalidParameter", err)
	}
}

// TestZeroImageThroughFile runs an all-zero 4x4 image through a file store
func TestZeroImageThroughFile(t *testing.T) {
	store := codestream.FileStore{Path: filepath.Join(t.TempDir(), "encoded_image.sbd")}
	p, err := NewPipeline(NewOptions().WithStore(store))
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}

	img := NewImage(4, 4)
	rec, psnr, err := p.CompressAndMeasure(img, 5)
	if err != nil {
		t.Fatalf("CompressAndMeasure failed: %v", err)
	}
	for i, v := range rec.Data {
		if v != 0 {
			t.Errorf("sample %d = %v, want 0", i, v)
		}
	}
	if !math.IsInf(psnr, 1) {
		t.Errorf("PSNR = %v, want +Inf", psnr)
	}
}

func TestConstantImageRoundTrip(t *testing.T) {
	img := constantImage(4, 4, 100)

	rep, err := Compress(img, 1)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	if rep.BandRows != 2 || rep.BandCols != 2 {
		t.Errorf("subband shape %dx%d, want 2x2", rep.BandRows, rep.BandCols)
	}

	rec, err := Decompress(rep)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	for i, v := range rec.Data {
		if math.Abs(v-100) > 1e-9 {
			t.Errorf("sample %d = %v, want 100", i, v)
		}
	}
}

// TestFidelityDecreasesWithStep checks PSNR is non-increasing over growing steps
func TestFidelityDecreasesWithStep(t *testing.T) {
	img := noiseImage(64, 48)

	prev := math.Inf(1)
	for _, step := range []float64{1, 4, 16, 64, 256} {
		_, psnr, err := CompressAndMeasure(img, step)
		if err != nil {
			t.Fatalf("step %v: %v", step, err)
		}
		t.Logf("step %v: PSNR %.2f dB", step, psnr)
		if psnr > prev {
			t.Errorf("step %v: PSNR rose from %.3f to %.3f", step, prev, psnr)
		}
		prev = psnr
	}
}

func TestFineStepBeatsCoarseStep(t *testing.T) {
	img := noiseImage(32, 32)

	_, fine, err := CompressAndMeasure(img, 1)
	if err != nil {
		t.Fatalf("step 1: %v", err)
	}
	_, coarse, err := CompressAndMeasure(img, 50)
	if err != nil {
		t.Fatalf("step 50: %v", err)
	}
	if !(fine > coarse) {
		t.Errorf("PSNR(step 1) = %v, PSNR(step 50) = %v; want strictly higher for step 1", fine, coarse)
	}
}

func TestOddImageRoundTrip(t *testing.T) {
	img := noiseImage(13, 7)
	rec, psnr, err := CompressAndMeasure(img, 0.5)
	if err != nil {
		t.Fatalf("CompressAndMeasure failed: %v", err)
	}
	if !rec.SameShape(img) {
		t.Fatalf("reconstruction is %dx%d, want 13x7", rec.Rows, rec.Cols)
	}
	if psnr < 45 {
		t.Errorf("PSNR = %.2f, want >= 45 for step 0.5", psnr)
	}
}

func TestPipelineCoders(t *testing.T) {
	img := noiseImage(40, 40)

	var baseline *Image
	for _, name := range []string{"identity", "zstd", "s2"} {
		t.Run(name, func(t *testing.T) {
			p, err := NewPipeline(NewOptions().WithCoder(name))
			if err != nil {
				t.Fatalf("NewPipeline failed: %v", err)
			}
			rep, err := p.Compress(img, 8)
			if err != nil {
				t.Fatalf("Compress failed: %v", err)
			}
			t.Logf("%s payload: %d bytes", name, len(rep.Payload))

			// Any pipeline decodes any coder: the codestream names it.
			rec, err := Decompress(rep)
			if err != nil {
				t.Fatalf("Decompress failed: %v", err)
			}
			if baseline == nil {
				baseline = rec
				return
			}
			for i := range rec.Data {
				if rec.Data[i] != baseline.Data[i] {
					t.Fatalf("%s reconstruction differs from identity at %d", name, i)
				}
			}
		})
	}
}

func TestDefaultPipeline(t *testing.T) {
	if defaultPipeline == nil || defaultPipeline.Coder().Name() != DefaultCoder {
		t.Fatalf("default pipeline not initialised with %q", DefaultCoder)
	}

	defer func() {
		if recover() == nil {
			t.Error("mustPipeline did not panic on error")
		}
	}()
	mustPipeline(NewPipeline(NewOptions().WithCoder("lzma")))
}

// TestConcurrentCompressAndMeasure shares one pipeline without a store, so
// every call measures its own codestream.
func TestConcurrentCompressAndMeasure(t *testing.T) {
	p, err := NewPipeline(NewOptions().WithCoder("zstd"))
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}

	steps := []float64{1, 4, 16, 64}
	want := make([]float64, len(steps))
	for i, step := range steps {
		if _, want[i], err = p.CompressAndMeasure(noiseImage(24, 24), step); err != nil {
			t.Fatalf("CompressAndMeasure failed: %v", err)
		}
	}

	var wg sync.WaitGroup
	got := make([]float64, len(steps))
	errs := make([]error, len(steps))
	for i, step := range steps {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, got[i], errs[i] = p.CompressAndMeasure(noiseImage(24, 24), step)
		}()
	}
	wg.Wait()

	for i := range steps {
		if errs[i] != nil {
			t.Fatalf("step %v: %v", steps[i], errs[i])
		}
		if got[i] != want[i] {
			t.Errorf("step %v: concurrent PSNR %v, sequential %v", steps[i], got[i], want[i])
		}
	}
}

func TestNewPipelineUnknownCoder(t *testing.T) {
	if _, err := NewPipeline(NewOptions().WithCoder("huffman")); !errors.Is(err, codec.ErrCodecNotFound) {
		t.Errorf("error = %v, want ErrCodecNotFound", err)
	}
}

func TestDecompressErrors(t *testing.T) {
	rep, err := Compress(noiseImage(8, 8), 2)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}

	bad := *rep
	bad.Coder = 99
	if _, err := Decompress(&bad); !errors.Is(err, codec.ErrCodecNotFound) {
		t.Errorf("unknown coder error = %v, want ErrCodecNotFound", err)
	}

	bad = *rep
	bad.Payload = bad.Payload[:len(bad.Payload)-8]
	if _, err := Decompress(&bad); !errors.Is(err, codec.ErrCorruptData) {
		t.Errorf("short payload error = %v, want ErrCorruptData", err)
	}

	bad = *rep
	bad.BandCols = 5
	if _, err := Decompress(&bad); !errors.Is(err, codec.ErrCorruptData) {
		t.Errorf("bad shape error = %v, want ErrCorruptData", err)
	}
}

// TestCorruptStoredMetadata corrupts one shape byte between save and load
func TestCorruptStoredMetadata(t *testing.T) {
	rep, err := Compress(noiseImage(6, 6), 3)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	var store codestream.MemoryStore
	if err := store.Save(rep); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	store.Bytes()[7] ^= 0x40 // inside the rows field

	if _, err := store.Load(); !errors.Is(err, codec.ErrCorruptData) {
		t.Errorf("Load error = %v, want ErrCorruptData", err)
	}
}

func TestPersistenceFailurePropagates(t *testing.T) {
	store := codestream.FileStore{Path: filepath.Join(t.TempDir(), "no", "such", "dir.sbd")}
	p, _ := NewPipeline(NewOptions().WithStore(store))
	if _, _, err := p.CompressAndMeasure(noiseImage(4, 4), 1); !errors.Is(err, codec.ErrPersistence) {
		t.Errorf("error = %v, want ErrPersistence", err)
	}
}

func TestPipelineLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p, err := NewPipeline(NewOptions().WithLogger(logger))
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}
	if _, _, err := p.CompressAndMeasure(noiseImage(4, 4), 2); err != nil {
		t.Fatalf("CompressAndMeasure failed: %v", err)
	}
	for _, want := range []string{"subband: compressed", "subband: decompressed", "psnr="} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("log output missing %q:\n%s", want, buf.String())
		}
	}
}
