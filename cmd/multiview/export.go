package main

import (
	"fmt"
	"math"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Noofbiz/multiview/camera"
	"github.com/Noofbiz/multiview/datasets"
)

// exportFrame is the CBOR record of one frame's geometry.
type exportFrame struct {
	Path      string     `cbor:"path"`
	Elevation float64    `cbor:"elevation_deg"`
	Azimuth   float64    `cbor:"azimuth_deg"`
	Distance  float64    `cbor:"camera_distance"`
	Position  [3]float64 `cbor:"camera_position"`
	C2W       []float32  `cbor:"c2w"`
	MVP       []float32  `cbor:"mvp_mtx"`
	RaysO     []float32  `cbor:"rays_o,omitempty"`
	RaysD     []float32  `cbor:"rays_d,omitempty"`
}

// exportSet is the CBOR document written by the export command.
type exportSet struct {
	Height  int           `cbor:"height"`
	Width   int           `cbor:"width"`
	FovyDeg float64       `cbor:"fovy_deg"`
	Focal   float64       `cbor:"focal_length"`
	Light   [3]float64    `cbor:"light_position"`
	Frames  []exportFrame `cbor:"frames"`
}

type exportOptions struct {
	Out  string
	Tier int
	Rays bool
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the derived camera geometry as CBOR",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := resolveConfig(rootOpts)
			if err != nil {
				return err
			}
			set, err := buildSet(r, opts.Tier)
			if err != nil {
				return err
			}
			data, err := cbor.Marshal(newExportSet(set, r.Frames, opts.Rays))
			if err != nil {
				return errors.Wrap(err, "failed to encode camera set")
			}
			if opts.Out == "" || opts.Out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(opts.Out, data, 0o644); err != nil {
				return errors.Wrapf(err, "failed to write %s", opts.Out)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d frames at %dx%d to %s\n", set.Len(), set.Height, set.Width, opts.Out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output file, stdout when empty")
	cmd.Flags().IntVar(&opts.Tier, "tier", 0, "resolution tier to export")
	cmd.Flags().BoolVar(&opts.Rays, "rays", false, "include per-pixel rays")
	return cmd
}

// buildSet derives the geometry of tier without ray jitter.
func buildSet(r *datasets.Resolved, tier int) (*camera.Set, error) {
	if tier < 0 || tier >= len(r.Tiers) {
		return nil, errors.Errorf("tier %d out of range [0, %d)", tier, len(r.Tiers))
	}
	builder, err := camera.NewBuilder(r.DefaultFovyDeg, 0, r.Seed)
	if err != nil {
		return nil, err
	}
	tiers := camera.NewTierGeometries(r.Tiers, builder.Fovy)
	return builder.Build(r.Poses(), tiers[tier])
}

func newExportSet(set *camera.Set, frames []datasets.Frame, withRays bool) *exportSet {
	out := &exportSet{
		Height:  set.Height,
		Width:   set.Width,
		FovyDeg: set.Fovy * 180 / math.Pi,
		Focal:   set.Focal,
		Light:   [3]float64{set.Light.X, set.Light.Y, set.Light.Z},
		Frames:  make([]exportFrame, set.Len()),
	}
	for i, p := range set.Poses {
		pos := set.Positions[i]
		f := exportFrame{
			Path:      frames[i].Path,
			Elevation: p.ElevationDeg,
			Azimuth:   p.AzimuthDeg,
			Distance:  p.Distance,
			Position:  [3]float64{pos.X, pos.Y, pos.Z},
			C2W:       set.C2W[i].AppendFloat32(nil),
			MVP:       set.MVP[i].AppendFloat32(nil),
		}
		if withRays {
			f.RaysO, f.RaysD = set.Rays(i)
		}
		out.Frames[i] = f
	}
	return out
}
