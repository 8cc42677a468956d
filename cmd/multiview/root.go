package main

import (
	"flag"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/Noofbiz/multiview/datasets"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Config   string
	Manifest string
	Verbose  bool
}

// NewRootCommand creates the multiview command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)

	cmd := &cobra.Command{
		Use:   "multiview",
		Short: "Inspect and sample posed multi-view image datasets",
		Long: `multiview loads a transform manifest of posed RGBA images, derives the
camera geometry of every frame and serves training batches.

The subcommands inspect a dataset, plot its camera layout, export the derived
geometry and draw sample batches.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// an explicit --v wins over --verbose
			if opts.Verbose && !cmd.Flags().Changed("v") {
				return klogFlags.Set("v", "1")
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "data module YAML config")
	cmd.PersistentFlags().StringVarP(&opts.Manifest, "manifest", "m", "", "transform manifest, overrides transform_fp")
	cmd.PersistentFlags().BoolVar(&opts.Verbose, "verbose", false, "log image loads and tier changes")
	cmd.PersistentFlags().AddGoFlagSet(klogFlags)

	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewPlotCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewSampleCommand(opts))

	return cmd
}

// loadConfig reads --config over the defaults and applies --manifest.
func loadConfig(opts *RootOptions) (datasets.Config, error) {
	cfg := datasets.DefaultConfig()
	if opts.Config != "" {
		var err error
		if cfg, err = datasets.LoadConfig(opts.Config); err != nil {
			return cfg, err
		}
	}
	if opts.Manifest != "" {
		cfg.TransformFP = opts.Manifest
	}
	if cfg.TransformFP == "" {
		return cfg, errors.New("no manifest: pass --manifest or set transform_fp in --config")
	}
	return cfg, nil
}

func resolveConfig(opts *RootOptions) (*datasets.Resolved, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	return cfg.Resolve()
}
