package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/spf13/cobra"

	"github.com/Noofbiz/multiview/datasets"
)

type sampleOptions struct {
	Batches int
	Step    int
}

// NewSampleCommand creates the sample command.
func NewSampleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &sampleOptions{}
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Draw training batches and print their tensor shapes",
		Long: `Sample sets up the train split, advances it to --step and yields
--batches batches, printing the frames drawn and the shape of every tensor.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			dm, err := datasets.NewDataModule(cfg)
			if err != nil {
				return err
			}
			return runSample(cmd.OutOrStdout(), dm, opts)
		},
	}
	cmd.Flags().IntVarP(&opts.Batches, "batches", "n", 1, "number of batches to draw")
	cmd.Flags().IntVar(&opts.Step, "step", 0, "global step to advance the resolution schedule to")
	return cmd
}

func runSample(w io.Writer, dm *datasets.DataModule, opts *sampleOptions) error {
	if err := dm.Setup(datasets.StageFit); err != nil {
		return err
	}
	if err := dm.UpdateStep(0, opts.Step, false); err != nil {
		return err
	}
	ds := dm.TrainDataset()
	fmt.Fprintf(w, "%s at step %d: %d frames at %v\n", ds.Name(), opts.Step, ds.Cameras().Len(), ds.Resolution())

	for i := 0; i < opts.Batches; i++ {
		b, err := ds.Collate()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "batch %d: frames %v\n", i, b.Indices)
		writeShapes(w, b.Tensors())
	}
	return nil
}

func writeShapes(w io.Writer, all map[string]*tensors.Tensor) {
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-32s %s\n", k, all[k].Shape())
	}
}
