package plot

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/Arafatk/glot"
	"gonum.org/v1/plot/plotter"
)

// Swapped out in tests.
var (
	stdin  io.Reader = os.Stdin
	osExit           = os.Exit
)

// Finish labels the axes, optionally adds the legend and a grid, and
// then either saves the plot to fname or, when fname is empty,
// displays it on screen through gnuplot.
func (p *Plot) Finish(fname, xlabel, ylabel string, legend, grid bool) error {
	p.P.X.Label.Text = xlabel
	p.P.Y.Label.Text = ylabel

	if grid {
		g := plotter.NewGrid()
		if p.dark {
			grey := color.RGBA{R: 0x60, G: 0x60, B: 0x60, A: 0xff}
			g.Vertical.Color = grey
			g.Horizontal.Color = grey
		}
		p.P.Add(g)
	}
	if legend {
		for _, s := range p.series {
			if s.name != "" {
				p.P.Legend.Add(s.name, s.thumb)
			}
		}
		p.P.Legend.Top = true
	}

	if fname == "" {
		return p.display(xlabel, ylabel)
	}
	return p.save(fname)
}

// save writes the plot to fname, creating missing directories. An
// unknown extension gets .png appended.
func (p *Plot) save(fname string) error {
	if dir := filepath.Dir(fname); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("plot: %w", err)
		}
	}
	switch strings.ToLower(filepath.Ext(fname)) {
	case ".png", ".svg", ".pdf":
	default:
		fname += ".png"
	}
	if err := p.P.Save(p.width, p.height, fname); err != nil {
		return fmt.Errorf("plot: save %s: %w", fname, err)
	}
	return nil
}

// display replays the recorded series through gnuplot in a persistent
// window.
func (p *Plot) display(xlabel, ylabel string) error {
	g, err := glot.NewPlot(2, true, false)
	if err != nil {
		return fmt.Errorf("plot: gnuplot: %w", err)
	}
	if p.title != "" {
		if err := g.SetTitle(p.title); err != nil {
			return fmt.Errorf("plot: gnuplot: %w", err)
		}
	}
	if err := g.SetXLabel(xlabel); err != nil {
		return fmt.Errorf("plot: gnuplot: %w", err)
	}
	if err := g.SetYLabel(ylabel); err != nil {
		return fmt.Errorf("plot: gnuplot: %w", err)
	}

	for i, s := range p.series {
		name := s.name
		if name == "" {
			name = fmt.Sprintf("series %d", i+1)
		}
		xs := make([]float64, len(s.xys))
		ys := make([]float64, len(s.xys))
		for j, xy := range s.xys {
			xs[j], ys[j] = xy.X, xy.Y
		}
		if err := g.AddPointGroup(name, s.style, [][]float64{xs, ys}); err != nil {
			return fmt.Errorf("plot: gnuplot: %w", err)
		}
	}
	return nil
}

// ShowCtrlC blocks until Enter or an interrupt, keeping plot windows
// alive meanwhile.
func ShowCtrlC() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)

	done := make(chan struct{})
	go func() {
		bufio.NewReader(stdin).ReadString('\n')
		close(done)
	}()

	select {
	case <-sig:
		fmt.Println(" - Received keyboard interrupt, aborting.")
		osExit(0)
	case <-done:
	}
}

// PauseCtrlC waits for the interval, returning early on an interrupt.
func PauseCtrlC(interval time.Duration) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)

	select {
	case <-sig:
		fmt.Println(" - Received keyboard interrupt, aborting.")
		osExit(0)
	case <-time.After(interval):
	}
}
