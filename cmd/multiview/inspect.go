package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Noofbiz/multiview/datasets"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Print the frames, poses and resolution tiers of a dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := resolveConfig(rootOpts)
			if err != nil {
				return err
			}
			return writeInspect(cmd.OutOrStdout(), r)
		},
	}
}

func writeInspect(w io.Writer, r *datasets.Resolved) error {
	fmt.Fprintf(w, "manifest: %s\n", r.ManifestPath)
	fmt.Fprintf(w, "frames:   %d\n", len(r.Frames))
	fmt.Fprintf(w, "fovy:     %g deg\n", r.DefaultFovyDeg)
	fmt.Fprintf(w, "depth:    %v\n", r.Depth.Present)
	fmt.Fprintf(w, "normal:   %v\n", r.Normal.Present)
	fmt.Fprintf(w, "random camera: %v\n", r.UseRandomCamera)

	fmt.Fprintln(w, "\ntiers:")
	for i, t := range r.Tiers {
		fmt.Fprintf(w, "  %d  %v from step %d\n", i, t.Resolution, max(t.Milestone, 0))
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\televation\tazimuth\tdistance\tpath")
	for i, f := range r.Frames {
		fmt.Fprintf(tw, "%d\t%.2f\t%.2f\t%.3f\t%s\n", i, f.Pose.ElevationDeg, f.Pose.AzimuthDeg, f.Pose.Distance, f.Path)
	}
	return tw.Flush()
}
