// Package plot wraps gonum/plot with a small set of preconfigured
// plot types and series helpers, so a script can set up a decent
// figure in a few lines and either save it or throw it on screen
// through gnuplot.
package plot

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/HamletTheHamster/sciutil/internal/options"
)

var (
	// ErrUnknownType flags a Type New does not know.
	ErrUnknownType = errors.New("plot: unknown plot type")
	// ErrNoData flags a series without data points.
	ErrNoData = errors.New("plot: no data points")
)

// Type selects a preconfigured figure size, font size and line width.
type Type int

const (
	Screen Type = iota // full-screen display
	File               // compact, for inclusion in a document
	Both               // compromise between Screen and File
	Square             // square frame for maps and matrices
)

// Plot wraps a gonum plot plus the series added to it. The embedded
// *plot.Plot is exported for direct tweaking.
type Plot struct {
	P *gplot.Plot

	title         string
	width, height vg.Length
	fontSize      vg.Length
	lineWidth     vg.Length
	dark          bool

	colorIdx  int
	lastColor color.RGBA
	series    []series
}

// series keeps what was added, for the legend and for the gnuplot
// replay when displaying on screen.
type series struct {
	name  string
	style string // lines or points
	xys   plotter.XYs
	thumb gplot.Thumbnailer
}

// Option configures a new Plot.
type Option = options.Option[Plot]

// WithTitle sets the plot title.
func WithTitle(title string) Option {
	return options.NoError(func(p *Plot) { p.title = title })
}

// WithSize overrides the figure size of the plot type, in inches.
func WithSize(hsize, vsize float64) Option {
	return options.New(func(p *Plot) error {
		if hsize <= 0 || vsize <= 0 {
			return fmt.Errorf("plot: size %g x %g", hsize, vsize)
		}
		p.width = vg.Length(hsize) * vg.Inch
		p.height = vg.Length(vsize) * vg.Inch
		return nil
	})
}

// WithFontSize overrides the font size of the plot type, in points.
func WithFontSize(points float64) Option {
	return options.New(func(p *Plot) error {
		if points <= 0 {
			return fmt.Errorf("plot: font size %g", points)
		}
		p.fontSize = vg.Points(points)
		return nil
	})
}

// WithLineWidth overrides the line width of the plot type, in points.
func WithLineWidth(points float64) Option {
	return options.New(func(p *Plot) error {
		if points <= 0 {
			return fmt.Errorf("plot: line width %g", points)
		}
		p.lineWidth = vg.Points(points)
		return nil
	})
}

// WithDarkBackground inverts the plot colours for screen use.
func WithDarkBackground() Option {
	return options.NoError(func(p *Plot) { p.dark = true })
}

// Series colours, cycled in order.
var palette = []color.RGBA{
	{R: 31, G: 211, B: 172, A: 255},
	{R: 255, G: 122, B: 180, A: 255},
	{R: 122, G: 156, B: 255, A: 255},
	{R: 255, G: 193, B: 122, A: 255},
	{R: 188, G: 117, B: 255, A: 255},
	{R: 46, G: 140, B: 60, A: 255},
	{R: 140, G: 46, B: 49, A: 255},
	{R: 27, G: 150, B: 146, A: 255},
}

// New starts a plot of the given type.
func New(t Type, opts ...Option) (*Plot, error) {
	p := &Plot{P: gplot.New()}
	switch t {
	case Screen:
		p.width, p.height = 19.2*vg.Inch, 10.8*vg.Inch
		p.fontSize, p.lineWidth = vg.Points(14), vg.Points(1)
	case File:
		p.width, p.height = 12.5*vg.Inch, 7*vg.Inch
		p.fontSize, p.lineWidth = vg.Points(14), vg.Points(2)
	case Both:
		p.width, p.height = 15.8*vg.Inch, 8.5*vg.Inch
		p.fontSize, p.lineWidth = vg.Points(16), vg.Points(2)
	case Square:
		p.width, p.height = 8.5*vg.Inch, 8.5*vg.Inch
		p.fontSize, p.lineWidth = vg.Points(16), vg.Points(1)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
	if err := options.Apply(p, opts...); err != nil {
		return nil, err
	}
	p.style()
	return p, nil
}

func (p *Plot) style() {
	p.P.Title.Text = p.title
	p.P.Title.TextStyle.Font.Size = p.fontSize

	for _, ax := range []*gplot.Axis{&p.P.X, &p.P.Y} {
		ax.Label.TextStyle.Font.Size = p.fontSize
		ax.Tick.Label.Font.Size = p.fontSize
		ax.LineStyle.Width = vg.Points(1.5)
		ax.Tick.LineStyle.Width = vg.Points(1.5)
	}
	p.P.Legend.TextStyle.Font.Size = p.fontSize

	if p.dark {
		p.P.BackgroundColor = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
		white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
		p.P.Title.TextStyle.Color = white
		p.P.Legend.TextStyle.Color = white
		for _, ax := range []*gplot.Axis{&p.P.X, &p.P.Y} {
			ax.Label.TextStyle.Color = white
			ax.Tick.Label.Color = white
			ax.LineStyle.Color = white
			ax.Tick.LineStyle.Color = white
		}
	}
}

func (p *Plot) nextColor() color.RGBA {
	c := palette[p.colorIdx%len(palette)]
	p.colorIdx++
	p.lastColor = c
	return c
}

func buildXYs(x, y []float64) (plotter.XYs, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("plot: %d x values, %d y values", len(x), len(y))
	}
	if len(x) == 0 {
		return nil, ErrNoData
	}
	xy := make(plotter.XYs, len(x))
	for i := range xy {
		xy[i].X = x[i]
		xy[i].Y = y[i]
	}
	return xy, nil
}

// buildYErrors turns symmetric sigmas into error-bar offsets.
func buildYErrors(sigma []float64) plotter.Errors {
	errs := make(plotter.Errors, len(sigma))
	for i := range errs {
		errs[i].Low, errs[i].High = sigma[i], sigma[i]
	}
	return errs
}

// AddLine adds x,y data as a line. The name labels the series in the
// legend; an empty name keeps it out.
func (p *Plot) AddLine(name string, x, y []float64) error {
	xys, err := buildXYs(x, y)
	if err != nil {
		return err
	}
	l, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	l.LineStyle.Width = p.lineWidth
	l.LineStyle.Color = p.nextColor()
	p.P.Add(l)
	p.series = append(p.series, series{name: name, style: "lines", xys: xys, thumb: l})
	return nil
}

// AddScatter adds x,y data as points.
func (p *Plot) AddScatter(name string, x, y []float64) error {
	xys, err := buildXYs(x, y)
	if err != nil {
		return err
	}
	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	sc.GlyphStyle.Color = p.nextColor()
	sc.GlyphStyle.Radius = vg.Points(3)
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	p.P.Add(sc)
	p.series = append(p.series, series{name: name, style: "points", xys: xys, thumb: sc})
	return nil
}

// AddErrorBars adds x,y data as points with symmetric y error bars of
// size sigma.
func (p *Plot) AddErrorBars(name string, x, y, sigma []float64) error {
	xys, err := buildXYs(x, y)
	if err != nil {
		return err
	}
	if len(sigma) != len(x) {
		return fmt.Errorf("plot: %d points, %d sigmas", len(x), len(sigma))
	}

	pts := struct {
		plotter.XYs
		plotter.YErrors
	}{xys, plotter.YErrors(buildYErrors(sigma))}

	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	bars, err := plotter.NewYErrorBars(pts)
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	c := p.nextColor()
	sc.GlyphStyle.Color = c
	sc.GlyphStyle.Radius = vg.Points(3)
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	bars.LineStyle.Color = c
	p.P.Add(bars, sc)
	p.series = append(p.series, series{name: name, style: "points", xys: xys, thumb: sc})
	return nil
}

// HistNorm adds a histogram of the values, normalised by the total
// count rather than by probability density, so the bin weights are
// fractions of the sample.
func (p *Plot) HistNorm(name string, values []float64, bins int) (*plotter.Histogram, error) {
	if len(values) == 0 {
		return nil, ErrNoData
	}
	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return nil, fmt.Errorf("plot: %w", err)
	}
	n := float64(len(values))
	for i := range h.Bins {
		h.Bins[i].Weight /= n
	}
	h.FillColor = p.nextColor()
	p.P.Add(h)

	// Record the bin outline so a screen display can replay it.
	xys := make(plotter.XYs, 0, 2*len(h.Bins))
	for _, b := range h.Bins {
		xys = append(xys, plotter.XY{X: b.Min, Y: b.Weight}, plotter.XY{X: b.Max, Y: b.Weight})
	}
	p.series = append(p.series, series{name: name, style: "lines", xys: xys, thumb: h})
	return h, nil
}

// LogLog puts both axes on a logarithmic scale.
func (p *Plot) LogLog() {
	p.P.X.Scale = gplot.LogScale{}
	p.P.X.Tick.Marker = gplot.LogTicks{Prec: -1}
	p.P.Y.Scale = gplot.LogScale{}
	p.P.Y.Tick.Marker = gplot.LogTicks{Prec: -1}
}

// ArrowHeadBetweenPoints returns the outline of an arrow head at the
// end of the segment x[0],y[0] -> x[1],y[1], shifted by dx,dy and
// sized as a fraction of the segment length times scale.
func ArrowHeadBetweenPoints(x, y [2]float64, dx, dy, scale float64) plotter.XYs {
	segX, segY := x[1]-x[0], y[1]-y[0]
	norm := math.Hypot(segX, segY)
	tipX, tipY := x[1]+dx, y[1]+dy
	if norm == 0 {
		return plotter.XYs{{X: tipX, Y: tipY}}
	}

	ux, uy := segX/norm, segY/norm
	length := 0.1 * scale * norm
	width := 0.06 * scale * norm
	baseX, baseY := tipX-length*ux, tipY-length*uy

	return plotter.XYs{
		{X: baseX - width/2*uy, Y: baseY + width/2*ux},
		{X: tipX, Y: tipY},
		{X: baseX + width/2*uy, Y: baseY - width/2*ux},
	}
}

// AddArrowHead draws an arrow head on the segment in the colour of
// the series added last.
func (p *Plot) AddArrowHead(x, y [2]float64, dx, dy, scale float64) error {
	l, err := plotter.NewLine(ArrowHeadBetweenPoints(x, y, dx, dy, scale))
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	l.LineStyle.Width = p.lineWidth
	if p.colorIdx > 0 {
		l.LineStyle.Color = p.lastColor
	} else {
		l.LineStyle.Color = palette[0]
	}
	p.P.Add(l)
	return nil
}
