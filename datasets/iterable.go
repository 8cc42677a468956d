package datasets

import (
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"k8s.io/klog/v2"

	"github.com/Noofbiz/multiview/randcam"
)

// IterableDataset is the infinite train split. Every Yield samples BatchSize
// frames uniformly with replacement.
type IterableDataset struct {
	*multiImage

	random *randcam.Iterable
}

// NewIterableDataset loads the train split at the first resolution tier.
func NewIterableDataset(cfg *Resolved) (*IterableDataset, error) {
	base, err := newMultiImage(cfg, "train", cfg.Seed)
	if err != nil {
		return nil, err
	}
	ds := &IterableDataset{multiImage: base}
	if cfg.UseRandomCamera {
		if ds.random, err = randcam.NewIterable(cfg.RandomCamera); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// Name implements train.Dataset.
func (ds *IterableDataset) Name() string { return "multiview-train" }

// Reset implements train.Dataset. The train stream is infinite, so this is a
// no-op.
func (ds *IterableDataset) Reset() {}

// UpdateStep advances the resolution schedules of the dataset and the random
// camera stream.
func (ds *IterableDataset) UpdateStep(epoch, globalStep int, onLoadWeights bool) error {
	if err := ds.updateStep(epoch, globalStep, onLoadWeights); err != nil {
		return err
	}
	if ds.random != nil && ds.random.UpdateStep(epoch, globalStep, onLoadWeights) {
		klog.V(1).Infof("random camera: step %d, resolution %v", globalStep, ds.random.Resolution())
	}
	return nil
}

// Collate samples one batch. Sampled frames use the geometry and pixels of
// the active tier.
func (ds *IterableDataset) Collate() (*Batch, error) {
	set, im := ds.cameras, ds.images
	B, H, W := ds.cfg.BatchSize, set.Height, set.Width
	px := H * W

	b := &Batch{
		Indices:         make([]int, B),
		Height:          H,
		Width:           W,
		RaysO:           make([]float32, 0, B*px*3),
		RaysD:           make([]float32, 0, B*px*3),
		MVP:             make([]float32, 0, B*16),
		CameraPositions: make([]float32, 0, B*3),
		LightPositions:  make([]float32, 0, B*3),
		Elevation:       make([]float32, B),
		Azimuth:         make([]float32, B),
		CameraDistances: make([]float32, B),
		RGB:             make([]float32, 0, B*px*3),
		Mask:            make([]float32, 0, B*px),
	}
	if im.Depth != nil {
		b.RefDepth = make([]float32, 0, B*px)
	}
	if im.Normal != nil {
		b.RefNormal = make([]float32, 0, B*px*3)
	}

	for i := range b.Indices {
		idx := ds.rng.Intn(set.Len())
		b.Indices[i] = idx

		o, d := set.Rays(idx)
		b.RaysO = append(b.RaysO, o...)
		b.RaysD = append(b.RaysD, d...)
		b.MVP = set.MVP[idx].AppendFloat32(b.MVP)
		pos := set.Positions[idx]
		b.CameraPositions = append(b.CameraPositions, float32(pos.X), float32(pos.Y), float32(pos.Z))
		b.LightPositions = append(b.LightPositions, float32(set.Light.X), float32(set.Light.Y), float32(set.Light.Z))

		pose := set.Poses[idx]
		b.Elevation[i] = float32(pose.ElevationDeg)
		b.Azimuth[i] = float32(pose.AzimuthDeg)
		b.CameraDistances[i] = float32(pose.Distance)

		b.RGB = append(b.RGB, im.RGB[idx*px*3:(idx+1)*px*3]...)
		b.Mask = append(b.Mask, im.Mask[idx*px:(idx+1)*px]...)
		if b.RefDepth != nil {
			b.RefDepth = append(b.RefDepth, im.Depth[idx*px:(idx+1)*px]...)
		}
		if b.RefNormal != nil {
			b.RefNormal = append(b.RefNormal, im.Normal[idx*px*3:(idx+1)*px*3]...)
		}
	}

	if ds.random != nil {
		rc, err := ds.random.Collate()
		if err != nil {
			return nil, err
		}
		b.RandomCamera = rc
	}
	return b, nil
}

// Yield implements train.Dataset. spec is the *Batch; inputs follow
// InputKeys and labels follow LabelKeys, skipping absent channels.
func (ds *IterableDataset) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	b, err := ds.Collate()
	if err != nil {
		return nil, nil, nil, err
	}
	all := b.Tensors()
	return b, ordered(all, InputKeys), ordered(all, LabelKeys), nil
}
