package beadpattern

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"runtime"
	"time"
)

type Options struct {
	// Bead grid size requested by the caller, one bead per cell.
	// With KeepAspect the grid is clamped to the source proportions.
	Width  int
	Height int
	// Clamp Width/Height to the source aspect ratio.
	KeepAspect bool
	// Bounding box for both preview rasters.
	PreviewSize int
	// Smoothing pass on the preview before the grid reduction.
	// Blur wins over Sharpen when both are set.
	Blur    bool
	Sharpen bool
	Metric  Metric
	// Quantizer goroutines; <= 0 uses GOMAXPROCS.
	Workers int
	// Per-worker nearest-color memo size; 0 disables it.
	CacheSize int
	// Stage timings at debug level. nil discards.
	Logger *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Width:       64,
		Height:      64,
		KeepAspect:  true,
		PreviewSize: 512,
		Metric:      MetricWeightedEuclidean,
		Workers:     runtime.GOMAXPROCS(0),
		CacheSize:   4096,
	}
}

// OptionsFromSize keeps small sources at one bead per source pixel instead
// of enlarging them into the default grid.
func OptionsFromSize(size image.Point) Options {
	opt := DefaultOptions()
	if size.X <= 0 || size.Y <= 0 {
		return opt
	}
	opt.Width = min(opt.Width, size.X)
	opt.Height = min(opt.Height, size.Y)
	return opt
}

// Result holds everything one processing job produces. The rasters are PNG
// encoded.
type Result struct {
	SourcePreview  []byte
	PatternPreview []byte
	// Quantized raster at grid resolution, for callers that persist it.
	Pattern []byte

	Width, Height int
	AspectRatio   float64
	Grid          Grid
	IDs           IDGrid
	Stats         QuantizeStats
}

// PatternBuilder runs the stages of one job and keeps every intermediate
// image around for inspection.
type PatternBuilder struct {
	InputImage  image.Image
	Palette     Palette
	Source      image.Image
	Small       *image.NRGBA
	Quantized   *Quantized
	Preview     *image.NRGBA
	Width       int
	Height      int
	AspectRatio float64
}

func NewPatternBuilder(input image.Image, palette Palette) *PatternBuilder {
	return &PatternBuilder{
		InputImage: input,
		Palette:    palette,
	}
}

func (pb *PatternBuilder) Build(opt Options) error {
	log := opt.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := pb.Palette.Validate(); err != nil {
		return err
	}
	if opt.PreviewSize <= 0 {
		opt.PreviewSize = DefaultOptions().PreviewSize
	}

	bounds := pb.InputImage.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return &InvalidDimensionError{Op: "build", Width: bounds.Dx(), Height: bounds.Dy()}
	}
	pb.AspectRatio = float64(bounds.Dx()) / float64(bounds.Dy())

	w, h := opt.Width, opt.Height
	if w <= 0 || h <= 0 {
		return &InvalidDimensionError{Op: "build", Width: w, Height: h}
	}
	if opt.KeepAspect {
		w, h = PreserveAspectRatio(bounds.Dx(), bounds.Dy(), w, h)
	}

	start := time.Now()
	src, err := Downsample(pb.InputImage, opt.PreviewSize, opt.PreviewSize, true)
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	filter := FilterFor(opt.Blur, opt.Sharpen)
	pb.Source = filter.Apply(src)
	log.Debug("preview ready", "size", pb.Source.Bounds().Size(), "filter", filter, "took", time.Since(start))

	start = time.Now()
	pb.Small, err = Downsample(pb.Source, w, h, opt.KeepAspect)
	if err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	pb.Width, pb.Height = pb.Small.Bounds().Dx(), pb.Small.Bounds().Dy()
	log.Debug("grid ready", "width", pb.Width, "height", pb.Height, "took", time.Since(start))

	start = time.Now()
	pb.Quantized, err = QuantizeWith(GridFromImage(pb.Small), pb.Palette, QuantizeOptions{
		Metric:    opt.Metric,
		Workers:   opt.Workers,
		CacheSize: opt.CacheSize,
	})
	if err != nil {
		return fmt.Errorf("quantize: %w", err)
	}
	st := pb.Quantized.Stats
	log.Debug("quantized", "metric", opt.Metric, "colors", st.ColorsUsed,
		"mean", st.MeanDistance, "max", st.MaxDistance, "took", time.Since(start))

	pb.Preview, err = Upsample(pb.Quantized.Grid.Image(), opt.PreviewSize, opt.PreviewSize, true)
	if err != nil {
		return fmt.Errorf("pattern preview: %w", err)
	}
	return nil
}

// Result encodes the rasters of a finished build.
func (pb *PatternBuilder) Result() (*Result, error) {
	if pb.Quantized == nil {
		return nil, fmt.Errorf("beadpattern: Result called before Build")
	}
	res := &Result{
		Width:       pb.Width,
		Height:      pb.Height,
		AspectRatio: pb.AspectRatio,
		Grid:        pb.Quantized.Grid,
		IDs:         pb.Quantized.IDs,
		Stats:       pb.Quantized.Stats,
	}
	var err error
	if res.SourcePreview, err = EncodePNG(pb.Source); err != nil {
		return nil, err
	}
	if res.PatternPreview, err = EncodePNG(pb.Preview); err != nil {
		return nil, err
	}
	if res.Pattern, err = EncodePNG(pb.Quantized.Grid.Image()); err != nil {
		return nil, err
	}
	return res, nil
}

// Sheet encodes the quantized grid and renders the printable PDF.
func (pb *PatternBuilder) Sheet(cfg SheetConfig) ([]byte, error) {
	if pb.Quantized == nil {
		return nil, fmt.Errorf("beadpattern: Sheet called before Build")
	}
	return SheetFromIDs(pb.Quantized.IDs, pb.Palette, cfg)
}

// SheetFromIDs is the encoder and the PDF generator in one call.
func SheetFromIDs(ids IDGrid, p Palette, cfg SheetConfig) ([]byte, error) {
	ca, codes, err := EncodePattern(ids, p)
	if err != nil {
		return nil, err
	}
	return GenerateSheet(ca, codes, ids.W, cfg)
}

// Process decodes data and runs a full build.
func Process(data []byte, p Palette, opt Options) (*Result, error) {
	img, err := DecodeImage(data)
	if err != nil {
		return nil, err
	}
	pb := NewPatternBuilder(img, p)
	if err := pb.Build(opt); err != nil {
		return nil, err
	}
	return pb.Result()
}
