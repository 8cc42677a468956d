package datasets

import (
	"io"

	"github.com/gomlx/gomlx/pkg/core/tensors"

	"github.com/Noofbiz/multiview/errs"
	"github.com/Noofbiz/multiview/randcam"
)

// IndexedDataset is a finite val or test split. Its items are the views of
// the random camera evaluation sweep; the manifest frames stay available
// through Cameras and GetAllImages.
type IndexedDataset struct {
	*multiImage

	eval *randcam.Eval
	next int
}

// NewIndexedDataset loads split ("val" or "test"). The random camera stream
// must be enabled since it defines the items.
func NewIndexedDataset(cfg *Resolved, split string) (*IndexedDataset, error) {
	if !cfg.UseRandomCamera {
		return nil, errs.Configf("use_random_camera", "the %s split needs the random camera stream", split)
	}
	base, err := newMultiImage(cfg, split, cfg.Seed)
	if err != nil {
		return nil, err
	}
	eval, err := randcam.NewEval(cfg.RandomCamera, split)
	if err != nil {
		return nil, err
	}
	return &IndexedDataset{multiImage: base, eval: eval}, nil
}

// Len is the number of items.
func (ds *IndexedDataset) Len() int { return ds.eval.Len() }

// Item returns view i.
func (ds *IndexedDataset) Item(i int) (*randcam.Batch, error) { return ds.eval.Item(i) }

// Name implements train.Dataset.
func (ds *IndexedDataset) Name() string { return "multiview-" + ds.split }

// Reset implements train.Dataset.
func (ds *IndexedDataset) Reset() { ds.next = 0 }

// UpdateStep keeps the manifest frames at the scheduled resolution.
func (ds *IndexedDataset) UpdateStep(epoch, globalStep int, onLoadWeights bool) error {
	return ds.updateStep(epoch, globalStep, onLoadWeights)
}

// Yield implements train.Dataset. It returns io.EOF after the last item until
// Reset. spec is the *randcam.Batch; its tensors are the inputs, in
// randcam.Keys order, and there are no labels.
func (ds *IndexedDataset) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	if ds.next >= ds.eval.Len() {
		return nil, nil, nil, io.EOF
	}
	b, err := ds.eval.Item(ds.next)
	if err != nil {
		return nil, nil, nil, err
	}
	ds.next++
	return b, ordered(b.Tensors(), randcam.Keys), nil, nil
}
