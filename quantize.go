package beadpattern

import (
	"math"
	"runtime"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type QuantizeOptions struct {
	Metric Metric
	// Goroutines evaluating row bands. <= 0 uses GOMAXPROCS.
	Workers int
	// Per-worker memo entries keyed by pixel RGB. 0 disables the cache.
	CacheSize int
}

func DefaultQuantizeOptions() QuantizeOptions {
	return QuantizeOptions{
		Metric:    MetricWeightedEuclidean,
		Workers:   runtime.GOMAXPROCS(0),
		CacheSize: 4096,
	}
}

// QuantizeStats summarizes the winning distance over all cells.
type QuantizeStats struct {
	MeanDistance   float64
	StdDevDistance float64
	MaxDistance    float64
	ColorsUsed     int
}

type Quantized struct {
	Grid  Grid
	IDs   IDGrid
	Stats QuantizeStats
}

// Quantize snaps every pixel of g to its nearest palette color.
func Quantize(g Grid, p Palette, m Metric) (Grid, IDGrid, error) {
	opt := DefaultQuantizeOptions()
	opt.Metric = m
	q, err := QuantizeWith(g, p, opt)
	if err != nil {
		return Grid{}, IDGrid{}, err
	}
	return q.Grid, q.IDs, nil
}

func QuantizeWith(g Grid, p Palette, opt QuantizeOptions) (*Quantized, error) {
	if len(p) == 0 {
		return nil, ErrEmptyPalette
	}
	if err := g.validate(); err != nil {
		return nil, err
	}
	workers := opt.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, g.H)

	out := NewGrid(g.W, g.H)
	ids := IDGrid{W: g.W, H: g.H, IDs: make([]int, len(g.Pix))}
	dists := make([]float64, len(g.Pix))
	m := newMatcher(p, opt.Metric)

	rowsPer := (g.H + workers - 1) / workers
	var wg sync.WaitGroup
	for y0 := 0; y0 < g.H; y0 += rowsPer {
		y1 := min(y0+rowsPer, g.H)
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			cache := newMemo(opt.CacheSize)
			for i := y0 * g.W; i < y1*g.W; i++ {
				c := g.Pix[i]
				idx, d, ok := cache.get(c)
				if !ok {
					idx, d = m.nearest(c)
					cache.put(c, idx, d)
				}
				e := p[idx]
				out.Pix[i] = Color{R: e.Color.R, G: e.Color.G, B: e.Color.B, A: 255}
				ids.IDs[i] = e.ID
				dists[i] = d
			}
		}(y0, y1)
	}
	wg.Wait()

	return &Quantized{Grid: out, IDs: ids, Stats: summarize(dists, ids.IDs)}, nil
}

func summarize(dists []float64, ids []int) QuantizeStats {
	mean, std := stat.MeanStdDev(dists, nil)
	if len(dists) < 2 || math.IsNaN(std) {
		std = 0
	}
	used := make(map[int]struct{})
	for _, id := range ids {
		used[id] = struct{}{}
	}
	return QuantizeStats{
		MeanDistance:   mean,
		StdDevDistance: std,
		MaxDistance:    floats.Max(dists),
		ColorsUsed:     len(used),
	}
}

// matcher holds the palette in whatever form the metric compares fastest.
type matcher struct {
	metric Metric
	pal    Palette
	labs   [][3]float64
	cols   []colorful.Color
}

func newMatcher(p Palette, metric Metric) *matcher {
	m := &matcher{metric: metric, pal: p}
	switch metric {
	case MetricCIELab:
		m.labs = make([][3]float64, len(p))
		for i, e := range p {
			m.labs[i] = lab100(e.Color)
		}
	case MetricCIEDE2000:
		m.cols = make([]colorful.Color, len(p))
		for i, e := range p {
			m.cols[i] = e.Color.Colorful()
		}
	}
	return m
}

// nearest returns the palette index with the smallest distance. Ties keep
// the earliest entry.
func (m *matcher) nearest(c Color) (int, float64) {
	best := 0
	bestD := math.MaxFloat64
	switch m.metric {
	case MetricCIELab:
		lab := lab100(c)
		for i := range m.labs {
			if d := labDistanceSq(lab, m.labs[i]); d < bestD {
				bestD, best = d, i
			}
		}
	case MetricCIEDE2000:
		cc := c.Colorful()
		for i := range m.cols {
			if d := ciede2000Sq(cc, m.cols[i]); d < bestD {
				bestD, best = d, i
			}
		}
	case MetricEuclidean:
		for i := range m.pal {
			if d := euclideanSq(c, m.pal[i].Color); d < bestD {
				bestD, best = d, i
			}
		}
	default:
		for i := range m.pal {
			if d := weightedEuclidean(c, m.pal[i].Color); d < bestD {
				bestD, best = d, i
			}
		}
	}
	return best, bestD
}

type memoHit struct {
	idx int
	d   float64
}

// memo is a bounded per-worker cache. Once full it stops admitting entries.
type memo struct {
	limit int
	m     map[uint32]memoHit
}

func newMemo(limit int) *memo {
	if limit <= 0 {
		return &memo{}
	}
	return &memo{limit: limit, m: make(map[uint32]memoHit, min(limit, 256))}
}

func (c *memo) get(col Color) (int, float64, bool) {
	if c.m == nil {
		return 0, 0, false
	}
	h, ok := c.m[col.key()]
	return h.idx, h.d, ok
}

func (c *memo) put(col Color, idx int, d float64) {
	if c.m == nil || len(c.m) >= c.limit {
		return
	}
	c.m[col.key()] = memoHit{idx: idx, d: d}
}
