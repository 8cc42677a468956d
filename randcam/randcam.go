// Package randcam generates the auxiliary random camera stream used for
// regularization alongside a posed image dataset.
//
// Iterable draws fresh cameras around the origin for every training batch.
// Eval yields a fixed azimuth sweep for validation and testing. Both own their
// generator and share nothing with the manifest-driven dataset.
package randcam

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/Noofbiz/multiview/camera"
	"github.com/Noofbiz/multiview/errs"
	"github.com/Noofbiz/multiview/schedule"
)

// Iterable samples an infinite stream of random camera batches.
type Iterable struct {
	cfg   Config
	sched *schedule.Scheduler
	grids []*camera.DirectionGrid
	rng   *rand.Rand
}

// NewIterable validates cfg and prepares direction grids for every tier.
func NewIterable(cfg Config) (*Iterable, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tiers, err := schedule.BuildTiers(cfg.Height, cfg.Width, cfg.ResolutionMilestones)
	if err != nil {
		return nil, errors.Wrap(err, "random_camera")
	}
	grids := make([]*camera.DirectionGrid, len(tiers))
	for i, t := range tiers {
		grids[i] = camera.NewDirectionGrid(t.Height, t.Width)
	}
	return &Iterable{
		cfg:   cfg,
		sched: schedule.NewScheduler(tiers),
		grids: grids,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// Resolution returns the active resolution.
func (it *Iterable) Resolution() schedule.Resolution { return it.sched.Tier().Resolution }

// UpdateStep advances the resolution schedule and reports whether the
// sampled resolution changed.
func (it *Iterable) UpdateStep(epoch, globalStep int, onLoadWeights bool) bool {
	_, changed := it.sched.Update(globalStep)
	return changed
}

func (it *Iterable) uniform(r Range) float64 { return r.Min + it.rng.Float64()*r.Span() }

func (it *Iterable) normal3(scale float64) r3.Vector {
	return r3.Vector{X: it.rng.NormFloat64(), Y: it.rng.NormFloat64(), Z: it.rng.NormFloat64()}.Mul(scale)
}

// Collate samples one batch of cameras at the active resolution.
func (it *Iterable) Collate() (*Batch, error) {
	cfg := it.cfg
	B := cfg.BatchSize
	tier := it.sched.Tier()
	grid := it.grids[it.sched.Current()]
	batch := newBatch(B, tier.Height, tier.Width)

	// Half the time sample elevation uniformly in degrees, otherwise
	// uniformly over the sphere band.
	sphereUniform := it.rng.Float64() >= 0.5

	for i := 0; i < B; i++ {
		var elev float64
		if sphereUniform {
			lo := (cfg.ElevationRange.Min + 90) / 180
			hi := (cfg.ElevationRange.Max + 90) / 180
			p := lo + it.rng.Float64()*(hi-lo)
			elev = math.Asin(2*p-1) * 180 / math.Pi
		} else {
			elev = it.uniform(cfg.ElevationRange)
		}

		var azim float64
		if cfg.BatchUniformAzimuth {
			azim = (it.rng.Float64()+float64(i))/float64(B)*cfg.AzimuthRange.Span() + cfg.AzimuthRange.Min
		} else {
			azim = it.uniform(cfg.AzimuthRange)
		}
		dist := it.uniform(cfg.CameraDistanceRange)
		fovyDeg := it.uniform(cfg.FovyRange)

		pos := camera.Position(camera.Pose{ElevationDeg: elev, AzimuthDeg: azim, Distance: dist})
		pos = pos.Add(r3.Vector{
			X: (it.rng.Float64()*2 - 1) * cfg.CameraPerturb,
			Y: (it.rng.Float64()*2 - 1) * cfg.CameraPerturb,
			Z: (it.rng.Float64()*2 - 1) * cfg.CameraPerturb,
		})
		center := camera.Origin.Add(it.normal3(cfg.CenterPerturb))
		up := camera.WorldUp.Add(it.normal3(cfg.UpPerturb))

		c2w, err := camera.LookAt(pos, center, up)
		if err != nil {
			return nil, indexed(err, i)
		}
		light := it.sampleLight(pos)

		if err := fill(batch, i, c2w, grid, fovyDeg, light); err != nil {
			return nil, err
		}
		batch.Elevation[i] = float32(elev)
		batch.Azimuth[i] = float32(azim)
		batch.CameraDistances[i] = float32(dist)
	}
	return batch, nil
}

func (it *Iterable) sampleLight(pos r3.Vector) r3.Vector {
	dist := it.uniform(it.cfg.LightDistanceRange)
	if it.cfg.LightSampleStrategy == LightMagic3D {
		// light on the upper hemisphere of the camera's local frame
		z := pos.Normalize()
		x := r3.Vector{X: z.Y, Y: -z.X}.Normalize()
		y := z.Cross(x).Normalize()
		az := it.rng.Float64() * 2 * math.Pi
		el := it.rng.Float64()*math.Pi/3 + math.Pi/6
		local := r3.Vector{
			X: math.Cos(el) * math.Cos(az),
			Y: math.Cos(el) * math.Sin(az),
			Z: math.Sin(el),
		}.Mul(dist)
		return x.Mul(local.X).Add(y.Mul(local.Y)).Add(z.Mul(local.Z))
	}
	return pos.Add(it.normal3(it.cfg.LightPositionPerturb)).Normalize().Mul(dist)
}

// Eval is a finite azimuth sweep at fixed elevation, distance and field of
// view, used for validation and test splits.
type Eval struct {
	batch *Batch
}

// NewEval builds n views of an eval sweep at the eval resolution.
func NewEval(cfg Config, split string) (*Eval, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := cfg.NTestViews
	if split == "val" {
		n = cfg.NValViews
	}
	grid := camera.NewDirectionGrid(cfg.EvalHeight, cfg.EvalWidth)
	batch := newBatch(n, cfg.EvalHeight, cfg.EvalWidth)
	for i := 0; i < n; i++ {
		pose := camera.Pose{
			ElevationDeg: cfg.EvalElevationDeg,
			AzimuthDeg:   float64(i) * 360 / float64(n),
			Distance:     cfg.EvalCameraDistance,
		}
		if err := pose.Validate(); err != nil {
			return nil, errs.Configf("random_camera.eval_camera_distance", "%v", err)
		}
		pos := camera.Position(pose)
		c2w, err := camera.LookAt(pos, camera.Origin, camera.WorldUp)
		if err != nil {
			return nil, indexed(err, i)
		}
		if err := fill(batch, i, c2w, grid, cfg.EvalFovyDeg, pos); err != nil {
			return nil, err
		}
		batch.Elevation[i] = float32(pose.ElevationDeg)
		batch.Azimuth[i] = float32(pose.AzimuthDeg)
		batch.CameraDistances[i] = float32(pose.Distance)
	}
	return &Eval{batch: batch}, nil
}

// Len is the number of views in the sweep.
func (e *Eval) Len() int { return e.batch.Size }

// Item returns view i as a single-camera batch.
func (e *Eval) Item(i int) (*Batch, error) {
	if i < 0 || i >= e.batch.Size {
		return nil, fmt.Errorf("index %d out of range [0, %d)", i, e.batch.Size)
	}
	return e.batch.slice(i), nil
}

// fill writes camera i's rays, matrices and light into batch.
func fill(batch *Batch, i int, c2w camera.Mat34, grid *camera.DirectionGrid, fovyDeg float64, light r3.Vector) error {
	fovy := fovyDeg * math.Pi / 180
	proj, err := camera.Projection(fovy, float64(batch.Width)/float64(batch.Height), camera.DefaultNear, camera.DefaultFar)
	if err != nil {
		return err
	}
	o, d := batch.rays(i)
	camera.Rays(grid.Scaled(camera.FocalLength(batch.Height, fovy)), c2w, 0, nil, o, d)

	batch.MVP = camera.MVP(c2w, proj).AppendFloat32(batch.MVP)
	batch.C2W = c2w.AppendFloat32(batch.C2W)
	batch.CameraPositions = appendVec(batch.CameraPositions, c2w.Translation())
	batch.LightPositions = appendVec(batch.LightPositions, light)
	batch.Fovy[i] = float32(fovyDeg)
	return nil
}

func indexed(err error, i int) error {
	var de *errs.DegenerateGeometryError
	if errors.As(err, &de) {
		de.Index = i
	}
	return err
}
