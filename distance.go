package beadpattern

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

type Metric int

const (
	// MetricWeightedEuclidean weights the red and blue terms by the mean red
	// level. Cheap and close enough to perception for bead palettes.
	MetricWeightedEuclidean Metric = iota
	// MetricCIELab is the squared CIE76 delta E in L*a*b* (D65, L in 0-100).
	MetricCIELab
	// MetricEuclidean is the squared RGB distance.
	MetricEuclidean
	// MetricCIEDE2000 is the squared CIEDE2000 delta E, on the same scale as
	// MetricCIELab.
	MetricCIEDE2000
)

func (m Metric) String() string {
	switch m {
	case MetricCIELab:
		return "lab"
	case MetricEuclidean:
		return "euclidean"
	case MetricCIEDE2000:
		return "ciede2000"
	default:
		return "weighted"
	}
}

func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "weighted", "weighted-euclidean":
		return MetricWeightedEuclidean, nil
	case "lab", "cielab", "cie76":
		return MetricCIELab, nil
	case "euclidean", "rgb":
		return MetricEuclidean, nil
	case "ciede2000", "de2000":
		return MetricCIEDE2000, nil
	}
	return 0, fmt.Errorf("beadpattern: unknown distance metric %q", s)
}

// Distance scores how different a and b look under metric m. The result is
// never negative and is zero for identical RGB values.
func Distance(a, b Color, m Metric) float64 {
	switch m {
	case MetricCIELab:
		return labDistanceSq(lab100(a), lab100(b))
	case MetricEuclidean:
		return euclideanSq(a, b)
	case MetricCIEDE2000:
		return ciede2000Sq(a.Colorful(), b.Colorful())
	default:
		return weightedEuclidean(a, b)
	}
}

func weightedEuclidean(a, b Color) float64 {
	rBar := (float64(a.R) + float64(b.R)) / 2
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return (2+rBar/256)*dr*dr + 4*dg*dg + (2+(255-rBar)/256)*db*db
}

func euclideanSq(a, b Color) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return dr*dr + dg*dg + db*db
}

// lab100 converts to L*a*b* under D65, scaled so L spans 0-100.
func lab100(c Color) [3]float64 {
	l, a, b := c.Colorful().Lab()
	return [3]float64{l * 100, a * 100, b * 100}
}

func labDistanceSq(p, q [3]float64) float64 {
	d0 := p[0] - q[0]
	d1 := p[1] - q[1]
	d2 := p[2] - q[2]
	return d0*d0 + d1*d1 + d2*d2
}

func ciede2000Sq(a, b colorful.Color) float64 {
	d := a.DistanceCIEDE2000(b) * 100
	return d * d
}
