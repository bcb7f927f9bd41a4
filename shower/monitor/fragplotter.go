// Package monitor renders diagnostic plots of fragment assignments and
// estimated directions. It is a development aid: the estimation pipeline
// never depends on it.
package monitor

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/drinkingkazu/pi0-reco/geom"
	"github.com/drinkingkazu/pi0-reco/shower"
)

// arrowScale is the drawn length of a direction ray in voxel units.
const arrowScale = 5.0

// FragmentPlotter writes PNG scatter plots of an assignment result: one
// color per fragment, primaries overlaid, and a ray per estimated
// direction. Safe for concurrent use.
type FragmentPlotter struct {
	mu        sync.Mutex
	outputDir string
}

// NewFragmentPlotter creates a plotter. Call Start before plotting.
func NewFragmentPlotter() *FragmentPlotter {
	return &FragmentPlotter{}
}

// Start sets (and creates) the output directory for subsequent plots.
func (fp *FragmentPlotter) Start(outputDir string) error {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	fp.outputDir = outputDir
	return nil
}

// OutputDir returns the configured output directory.
func (fp *FragmentPlotter) OutputDir() string {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	return fp.outputDir
}

// PlotResult writes XY and XZ projections of the result under the given
// base name and returns the paths of the generated files.
func (fp *FragmentPlotter) PlotResult(name string, result *shower.DirectionResult) ([]string, error) {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	if fp.outputDir == "" {
		return nil, fmt.Errorf("no output directory configured")
	}
	if result == nil || result.Assignment == nil {
		return nil, fmt.Errorf("nil result")
	}

	projections := []struct {
		suffix string
		comp   func(geom.Vec3) (float64, float64)
	}{
		{"xy", func(v geom.Vec3) (float64, float64) { return v.X, v.Y }},
		{"xz", func(v geom.Vec3) (float64, float64) { return v.X, v.Z }},
	}

	var files []string
	for _, proj := range projections {
		path := filepath.Join(fp.outputDir, fmt.Sprintf("%s_%s.png", name, proj.suffix))
		if err := renderProjection(path, result, proj.suffix, proj.comp); err != nil {
			return files, fmt.Errorf("%s projection: %w", proj.suffix, err)
		}
		files = append(files, path)
	}
	return files, nil
}

func renderProjection(path string, result *shower.DirectionResult, suffix string, comp func(geom.Vec3) (float64, float64)) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Shower fragments (%s)", suffix)
	p.X.Label.Text = "x"
	p.Y.Label.Text = string(suffix[1])

	a := result.Assignment

	// Group restricted points by fragment label for per-fragment colors.
	byLabel := make(map[int]plotter.XYs)
	for i, c := range a.Coords {
		x, y := comp(c)
		byLabel[a.Labels[i]] = append(byLabel[a.Labels[i]], plotter.XY{X: x, Y: y})
	}

	var labels []int
	for l := range byLabel {
		labels = append(labels, l)
	}
	sort.Ints(labels)

	colors := generateColors(len(labels))
	for i, l := range labels {
		s, err := plotter.NewScatter(byLabel[l])
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = colors[i]
		s.GlyphStyle.Radius = vg.Points(2)
		p.Add(s)
		p.Legend.Add(fmt.Sprintf("frag %d", l), s)
	}

	// Primaries as larger black glyphs.
	prim := make(plotter.XYs, 0, len(a.Primaries))
	for _, pr := range a.Primaries {
		x, y := comp(pr.Pos())
		prim = append(prim, plotter.XY{X: x, Y: y})
	}
	if len(prim) > 0 {
		s, err := plotter.NewScatter(prim)
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = color.Black
		s.GlyphStyle.Radius = vg.Points(4)
		p.Add(s)
		p.Legend.Add("primaries", s)
	}

	// Direction rays from each primary.
	for i, dir := range result.Directions {
		if i >= len(a.Assignments) {
			break
		}
		origin := a.Primaries[a.Assignments[i].Primary].Pos()
		tip := origin.Add(dir.Scale(arrowScale))
		ox, oy := comp(origin)
		tx, ty := comp(tip)
		line, err := plotter.NewLine(plotter.XYs{{X: ox, Y: oy}, {X: tx, Y: ty}})
		if err != nil {
			return err
		}
		line.Color = color.Black
		line.Width = vg.Points(1.5)
		p.Add(line)
	}

	p.Legend.Top = true
	p.Legend.Left = false

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}

// generateColors creates a palette of distinct colors, one per fragment.
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range).
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}

// FormatTimestamp generates a timestamp string for directory naming.
func FormatTimestamp(t time.Time) string {
	return t.Format("20060102_150405")
}

// MakeOutputDir builds a timestamped plot directory under baseDir.
func MakeOutputDir(baseDir, runName string) string {
	ts := FormatTimestamp(time.Now())
	if runName != "" {
		return filepath.Join(baseDir, runName, ts)
	}
	return filepath.Join(baseDir, ts)
}
