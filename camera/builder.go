package camera

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/Noofbiz/multiview/errs"
	"github.com/Noofbiz/multiview/schedule"
)

// TierGeometry is a resolution tier bundled with its unit-focal direction grid
// and focal length.
type TierGeometry struct {
	schedule.Tier

	Grid  *DirectionGrid
	Focal float64
}

// NewTierGeometries precomputes the direction grid and focal length of every
// tier for a shared field of view (radians).
func NewTierGeometries(tiers []schedule.Tier, fovy float64) []TierGeometry {
	out := make([]TierGeometry, len(tiers))
	for i, t := range tiers {
		out[i] = TierGeometry{
			Tier:  t,
			Grid:  NewDirectionGrid(t.Height, t.Width),
			Focal: FocalLength(t.Height, fovy),
		}
	}
	return out
}

// Set is the derived geometry of N posed frames at one resolution. A Set is
// never modified after Build; a tier change produces a new Set.
type Set struct {
	Height, Width int
	Fovy          float64
	Focal         float64

	Poses     []Pose
	Positions []r3.Vector
	C2W       []Mat34
	Light     r3.Vector
	MVP       []Mat4

	// RaysO and RaysD are packed N×H×W×3.
	RaysO []float32
	RaysD []float32
}

// Len is the number of frames.
func (s *Set) Len() int { return len(s.Poses) }

// Rays returns the origins and directions of frame i, packed H×W×3.
func (s *Set) Rays(i int) (origins, dirs []float32) {
	n := s.Height * s.Width * 3
	return s.RaysO[i*n : (i+1)*n], s.RaysD[i*n : (i+1)*n]
}

// Builder turns poses into a Set for a given tier.
type Builder struct {
	// Fovy is the shared vertical field of view in radians.
	Fovy float64

	// NoiseScale is the ray jitter scale; 0 disables jitter.
	NoiseScale float64

	Near, Far float64

	rng *rand.Rand
}

// NewBuilder validates fovyDeg and returns a Builder whose jitter is drawn
// from a generator seeded with seed.
func NewBuilder(fovyDeg, noiseScale float64, seed int64) (*Builder, error) {
	fovy := fovyDeg * math.Pi / 180
	if err := ValidateFovy(fovy); err != nil {
		return nil, err
	}
	if noiseScale < 0 {
		return nil, errs.Configf("rays_noise_scale", "must be >= 0, got %v", noiseScale)
	}
	return &Builder{
		Fovy:       fovy,
		NoiseScale: noiseScale,
		Near:       DefaultNear,
		Far:        DefaultFar,
		rng:        rand.New(rand.NewSource(seed)),
	}, nil
}

// Build derives positions, transforms, rays and MVP matrices of poses at the
// resolution of tier. Any invalid pose or degenerate basis fails the whole
// build.
func (b *Builder) Build(poses []Pose, tier TierGeometry) (*Set, error) {
	if len(poses) == 0 {
		return nil, errs.Configf("transform_fp", "no camera poses to build")
	}
	proj, err := Projection(b.Fovy, float64(tier.Width)/float64(tier.Height), b.Near, b.Far)
	if err != nil {
		return nil, err
	}

	n := len(poses)
	pixels := tier.Grid.Len()
	set := &Set{
		Height:    tier.Height,
		Width:     tier.Width,
		Fovy:      b.Fovy,
		Focal:     tier.Focal,
		Poses:     append([]Pose(nil), poses...),
		Positions: make([]r3.Vector, n),
		C2W:       make([]Mat34, n),
		MVP:       make([]Mat4, n),
		RaysO:     make([]float32, n*pixels*3),
		RaysD:     make([]float32, n*pixels*3),
	}

	local := tier.Grid.Scaled(tier.Focal)
	for i, p := range poses {
		if err := p.Validate(); err != nil {
			return nil, errs.Configf("poses", "frame %d: %v", i, err)
		}
		pos := Position(p)
		c2w, err := LookAt(pos, Origin, WorldUp)
		if err != nil {
			var de *errs.DegenerateGeometryError
			if errors.As(err, &de) {
				de.Index = i
			}
			return nil, errors.Wrapf(err, "pose elevation=%g azimuth=%g", p.ElevationDeg, p.AzimuthDeg)
		}
		set.Positions[i] = pos
		set.C2W[i] = c2w
		set.MVP[i] = MVP(c2w, proj)
		o, d := set.Rays(i)
		Rays(local, c2w, b.NoiseScale, b.rng, o, d)
	}
	set.Light = set.Positions[0]
	return set, nil
}
