package main

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"k8s.io/klog/v2"

	"github.com/Noofbiz/multiview/datasets"
	"github.com/Noofbiz/multiview/randcam"
)

type plotOptions struct {
	OutDir string
	Random int
}

// NewPlotCommand creates the plot command.
func NewPlotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &plotOptions{}
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Plot a top-down view of the camera layout",
		Long: `Plot writes cameras.png: manifest cameras (blue) with their viewing
directions, the scene origin and, with --random, cameras drawn from the random
camera stream (grey).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := resolveConfig(rootOpts)
			if err != nil {
				return err
			}
			out, err := runPlot(r, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", "output", "output directory")
	cmd.Flags().IntVar(&opts.Random, "random", 0, "number of random cameras to overlay")
	return cmd
}

func runPlot(r *datasets.Resolved, opts *plotOptions) (string, error) {
	set, err := buildSet(r, 0)
	if err != nil {
		return "", err
	}

	cams := make(plotter.XYs, 0, set.Len())
	var views []plotter.XYs
	for i, p := range set.Positions {
		cams = append(cams, plotter.XY{X: p.X, Y: p.Y})
		// camera looks down its -z axis
		fwd := set.C2W[i].Col(2).Mul(-0.25 * set.Poses[i].Distance)
		views = append(views, plotter.XYs{{X: p.X, Y: p.Y}, {X: p.X + fwd.X, Y: p.Y + fwd.Y}})
	}

	var random plotter.XYs
	if opts.Random > 0 {
		rc := r.RandomCamera
		rc.BatchSize = opts.Random
		it, err := randcam.NewIterable(rc)
		if err != nil {
			return "", err
		}
		b, err := it.Collate()
		if err != nil {
			return "", err
		}
		for i := 0; i < b.Size; i++ {
			random = append(random, plotter.XY{X: float64(b.CameraPositions[i*3]), Y: float64(b.CameraPositions[i*3+1])})
		}
	}

	out := filepath.Join(opts.OutDir, "cameras.png")
	if err := plotCameras(out, cams, random, views); err != nil {
		return "", errors.Wrapf(err, "failed to plot %s", out)
	}
	klog.V(1).Infof("plotted %d cameras and %d random cameras to %s", len(cams), len(random), out)
	return out, nil
}

// plotCameras writes a PNG of manifest cameras (blue), random cameras (grey),
// view directions (green) and the origin (red).
func plotCameras(outPath string, cams, random plotter.XYs, views []plotter.XYs) error {
	p := plot.New()
	p.Title.Text = "Cameras, top-down: manifest (blue), random (grey)"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	if len(random) > 0 {
		rs, err := plotter.NewScatter(random)
		if err != nil {
			return err
		}
		rs.GlyphStyle.Color = color.RGBA{R: 120, G: 120, B: 120, A: 140}
		rs.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(rs)
		p.Legend.Add("random", rs)
	}

	for i, v := range views {
		line, err := plotter.NewLine(v)
		if err != nil {
			return err
		}
		line.Color = color.RGBA{R: 40, G: 120, B: 40, A: 200}
		line.Width = vg.Points(0.8)
		p.Add(line)
		if i == 0 {
			p.Legend.Add("view direction", line)
		}
	}

	cs, err := plotter.NewScatter(cams)
	if err != nil {
		return err
	}
	cs.GlyphStyle.Color = color.RGBA{R: 20, G: 80, B: 200, A: 220}
	cs.GlyphStyle.Radius = vg.Points(2.8)
	p.Add(cs)
	p.Legend.Add("manifest", cs)

	origin, err := plotter.NewScatter(plotter.XYs{{}})
	if err != nil {
		return err
	}
	origin.GlyphStyle.Color = color.RGBA{R: 200, G: 30, B: 30, A: 255}
	origin.GlyphStyle.Radius = vg.Points(2)
	p.Add(origin)

	p.Add(plotter.NewGrid())

	// square axes so distances read the same in x and y
	all := append(append(plotter.XYs{{}}, cams...), random...)
	xmin, xmax, ymin, ymax := autoRange(all)
	half := math.Max(xmax-xmin, ymax-ymin) / 2
	cx, cy := (xmin+xmax)/2, (ymin+ymax)/2
	p.X.Min, p.X.Max = cx-half, cx+half
	p.Y.Min, p.Y.Max = cy-half, cy+half

	if err := ensureDir(filepath.Dir(outPath)); err != nil {
		return err
	}
	return p.Save(6*vg.Inch, 6*vg.Inch, outPath)
}

// autoRange computes padded min/max for X and Y for a set of points.
func autoRange(xs plotter.XYs) (xmin, xmax, ymin, ymax float64) {
	if len(xs) == 0 {
		return -1, 1, -1, 1
	}
	xmin, xmax = math.Inf(1), math.Inf(-1)
	ymin, ymax = math.Inf(1), math.Inf(-1)
	for _, p := range xs {
		xmin, xmax = math.Min(xmin, p.X), math.Max(xmax, p.X)
		ymin, ymax = math.Min(ymin, p.Y), math.Max(ymax, p.Y)
	}
	padx := (xmax - xmin) * 0.06
	pady := (ymax - ymin) * 0.06
	if padx == 0 {
		padx = 1.0
	}
	if pady == 0 {
		pady = 1.0
	}
	return xmin - padx, xmax + padx, ymin - pady, ymax + pady
}

func ensureDir(path string) error {
	if path == "" {
		return nil
	}
	return os.MkdirAll(path, 0755)
}
