package datasets

import "github.com/gomlx/gomlx/pkg/core/tensors"

// This package serves posed multi-view images to a reconstruction trainer.
//
// A transform manifest lists RGBA images with spherical camera poses. The
// datasets derive camera geometry for every frame (see package camera),
// load pixels at the resolution selected by the training step (see package
// schedule) and hand batches to the trainer as gomlx tensors.
//
// Layout and intended usage:
//
// IterableDataset (train split)
//   - Infinite: every Yield samples BatchSize random frames and, when enabled,
//     a fresh random camera batch.
//   - UpdateStep must be called by the training loop every step; it reloads
//     geometry and pixels only when the resolution tier changes.
//
// IndexedDataset (val/test splits)
//   - Finite: Len views of the random camera evaluation sweep, then io.EOF
//     until Reset.
//
// Both are built by DataModule.Setup from a single resolved configuration and
// never share state.

// PosedBatchSource is implemented by both datasets. Name, Yield and Reset
// make up gomlx's train.Dataset interface.
type PosedBatchSource interface {
	Name() string
	Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error)
	Reset()

	// UpdateStep is the training loop hook; it must be idempotent for a
	// repeated globalStep.
	UpdateStep(epoch, globalStep int, onLoadWeights bool) error
}

var (
	_ PosedBatchSource = (*IterableDataset)(nil)
	_ PosedBatchSource = (*IndexedDataset)(nil)
)
