package datasets

import (
	"math/rand"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/Noofbiz/multiview/camera"
	"github.com/Noofbiz/multiview/schedule"
)

// multiImage is the state shared by the train and eval datasets: the frame
// poses, the resolution schedule and the geometry and pixels of the active
// tier.
type multiImage struct {
	cfg   *Resolved
	split string

	builder *camera.Builder
	sched   *schedule.Scheduler
	tiers   []camera.TierGeometry
	poses   []camera.Pose

	// cameras and images always describe the same resolution.
	cameras *camera.Set
	images  *Images

	rng *rand.Rand
}

func newMultiImage(cfg *Resolved, split string, seed int64) (*multiImage, error) {
	builder, err := camera.NewBuilder(cfg.DefaultFovyDeg, cfg.RaysNoiseScale, seed)
	if err != nil {
		return nil, err
	}
	m := &multiImage{
		cfg:     cfg,
		split:   split,
		builder: builder,
		sched:   schedule.NewScheduler(cfg.Tiers),
		tiers:   camera.NewTierGeometries(cfg.Tiers, builder.Fovy),
		poses:   cfg.Poses(),
		rng:     rand.New(rand.NewSource(seed)),
	}
	if err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

// load rebuilds geometry and pixels for the scheduler's current tier. The
// previous tier's data is kept until both succeed.
func (m *multiImage) load() error {
	tier := m.tiers[m.sched.Current()]
	set, err := m.builder.Build(m.poses, tier)
	if err != nil {
		return errors.Wrapf(err, "%s: building cameras at %v", m.split, tier.Resolution)
	}
	images, err := LoadImages(m.cfg.Frames, tier.Resolution, m.cfg.Depth, m.cfg.Normal)
	if err != nil {
		return errors.Wrapf(err, "%s: loading images at %v", m.split, tier.Resolution)
	}
	m.cameras, m.images = set, images
	return nil
}

func (m *multiImage) resolution() schedule.Resolution {
	return schedule.Resolution{Height: m.cameras.Height, Width: m.cameras.Width}
}

// updateStep reloads geometry and pixels when globalStep moves the schedule
// to a tier with a different resolution. Otherwise it does nothing.
func (m *multiImage) updateStep(epoch, globalStep int, onLoadWeights bool) error {
	tier, _ := m.sched.Update(globalStep)
	if tier.Resolution == m.resolution() {
		return nil
	}
	klog.V(1).Infof("%s: step %d moves to resolution %v", m.split, globalStep, tier.Resolution)
	return m.load()
}

// Cameras returns the geometry of the active tier.
func (m *multiImage) Cameras() *camera.Set { return m.cameras }

// Images returns the pixel data of the active tier.
func (m *multiImage) Images() *Images { return m.images }

// GetAllImages returns the RGB stack of every frame, packed N×H×W×3.
func (m *multiImage) GetAllImages() []float32 { return m.images.RGB }

// Resolution returns the active resolution.
func (m *multiImage) Resolution() schedule.Resolution { return m.resolution() }
