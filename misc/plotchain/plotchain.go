// plotchain creates a trace plot from a sampling trajectory file
// (one sample per line, tab-separated, iteration number first).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

func main() {
	col := flag.Int("col", 1, "trajectory column to plot (0 is the iteration number)")
	out := flag.String("out", "trace.png", "output file name")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: plotchain [options] <trajectory>")
		os.Exit(1)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		panic(err)
	}
	defer f.Close()

	var pts plotter.XYs
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) <= *col {
			continue
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			panic(err)
		}
		y, err := strconv.ParseFloat(fields[*col], 64)
		if err != nil {
			panic(err)
		}
		pts = append(pts, plotter.XY{X: x, Y: y})
	}
	if err := scanner.Err(); err != nil {
		panic(err)
	}

	p, err := plot.New()
	if err != nil {
		panic(err)
	}
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = fmt.Sprintf("column %d", *col)

	err = plotutil.AddLinePoints(p, "trace", pts)
	if err != nil {
		panic(err)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, *out); err != nil {
		panic(err)
	}
}
