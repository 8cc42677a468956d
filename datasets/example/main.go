package main

// Example command that demonstrates loading a multi-view dataset from a
// transform manifest, drawing training batches as gomlx tensors and walking
// the validation sweep the way a training loop would.
//
// Usage:
//   go run ./example ../assets/scene/transforms.json
//
// The manifest lists "<name>_rgba.png" images with [polar, azimuth, distance]
// poses. If the manifest is missing the example will print an error and exit.

import (
	"flag"
	"fmt"
	"io"

	"k8s.io/klog/v2"

	"github.com/Noofbiz/multiview/datasets"
	"github.com/Noofbiz/multiview/randcam"
	"github.com/Noofbiz/multiview/schedule"
)

func main() {
	klog.InitFlags(nil)
	steps := flag.Int("steps", 600, "training steps to simulate")
	flag.Parse()

	manifest := "../assets/scene/transforms.json"
	if flag.NArg() > 0 {
		manifest = flag.Arg(0)
	}

	// Progressive resolution: 64x64 until step 300, then 128x128.
	cfg := datasets.DefaultConfig()
	cfg.TransformFP = manifest
	cfg.Height = schedule.IntList{64, 128}
	cfg.Width = schedule.IntList{64, 128}
	cfg.ResolutionMilestones = []int{300}
	cfg.RandomCamera.EvalHeight = 64
	cfg.RandomCamera.EvalWidth = 64
	cfg.RandomCamera.NValViews = 4

	dm, err := datasets.NewDataModule(cfg)
	if err != nil {
		klog.Fatalf("failed to load data module: %v", err)
	}
	if err := dm.Setup(datasets.StageFit); err != nil {
		klog.Fatalf("failed to set up datasets: %v", err)
	}
	fmt.Printf("Using manifest: %s\n", dm.Config().ManifestPath)
	fmt.Printf("Total frames available: %d\n", len(dm.Config().Frames))

	train := dm.TrainDataset()
	for step := 0; step < *steps; step += 100 {
		// The training loop calls UpdateStep every step; pixels and rays are
		// only reloaded when the resolution tier changes.
		if err := dm.UpdateStep(0, step, false); err != nil {
			klog.Fatalf("step %d: %v", step, err)
		}
		spec, inputs, labels, err := train.Yield()
		if err != nil {
			klog.Fatalf("failed to yield batch: %v", err)
		}
		b := spec.(*datasets.Batch)
		fmt.Printf("step %d: frames %v at %v, %d input and %d label tensors\n",
			step, b.Indices, train.Resolution(), len(inputs), len(labels))
	}

	// Validation sweep: finite, ends with io.EOF.
	val := dm.ValDataset()
	for {
		spec, _, _, err := val.Yield()
		if err == io.EOF {
			break
		}
		if err != nil {
			klog.Fatalf("failed to yield validation view: %v", err)
		}
		v := spec.(*randcam.Batch)
		fmt.Printf("validation view: elevation %.1f azimuth %.1f at %dx%d\n", v.Elevation[0], v.Azimuth[0], v.Height, v.Width)
	}

	fmt.Println("\nExample completed successfully!")
}
