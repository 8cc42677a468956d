// Package schedule selects the active resolution tier from the global
// training step.
//
// Tiers are ordered by milestone. The first tier carries the sentinel
// milestone AlwaysActive so that every step selects some tier; each later
// tier becomes active once the step reaches its milestone.
package schedule

import (
	"fmt"
	"sort"

	"k8s.io/klog/v2"

	"github.com/Noofbiz/multiview/errs"
)

// AlwaysActive is the milestone of the first tier.
const AlwaysActive = -1

// Resolution is an image size in pixels.
type Resolution struct {
	Height, Width int
}

func (r Resolution) String() string { return fmt.Sprintf("%dx%d", r.Height, r.Width) }

// Tier is a resolution together with the step at which it becomes active.
type Tier struct {
	Resolution
	Milestone int
}

// BuildTiers pairs heights and widths with milestones.
//
// A single tier ignores any milestones with a warning. Otherwise the counts
// must satisfy len(heights) == len(milestones)+1 and milestones must be
// ascending.
func BuildTiers(heights, widths, milestones []int) ([]Tier, error) {
	if len(heights) == 0 {
		return nil, errs.Configf("height", "at least one resolution is required")
	}
	if len(heights) != len(widths) {
		return nil, errs.Configf("width", "%d heights but %d widths", len(heights), len(widths))
	}
	for i := range heights {
		if heights[i] <= 0 || widths[i] <= 0 {
			return nil, errs.Configf("height", "resolution %d is %dx%d, both sides must be positive", i, heights[i], widths[i])
		}
	}

	if len(heights) == 1 {
		if len(milestones) > 0 {
			klog.Warningf("Ignoring resolution_milestones %v since height and width are not changing", milestones)
		}
		return []Tier{{Resolution: Resolution{heights[0], widths[0]}, Milestone: AlwaysActive}}, nil
	}

	if len(heights) != len(milestones)+1 {
		return nil, errs.Configf("resolution_milestones",
			"%d resolutions need %d milestones, got %d", len(heights), len(heights)-1, len(milestones))
	}
	if !sort.IntsAreSorted(milestones) {
		return nil, errs.Configf("resolution_milestones", "milestones must be ascending, got %v", milestones)
	}
	if milestones[0] <= AlwaysActive {
		return nil, errs.Configf("resolution_milestones", "milestones must be > %d, got %d", AlwaysActive, milestones[0])
	}

	tiers := make([]Tier, len(heights))
	for i := range heights {
		m := AlwaysActive
		if i > 0 {
			m = milestones[i-1]
		}
		tiers[i] = Tier{Resolution: Resolution{heights[i], widths[i]}, Milestone: m}
	}
	return tiers, nil
}

// Scheduler tracks the active tier for a non-decreasing sequence of steps.
type Scheduler struct {
	tiers      []Tier
	milestones []int
	current    int
}

// NewScheduler starts at tier 0. tiers must come from BuildTiers.
func NewScheduler(tiers []Tier) *Scheduler {
	ms := make([]int, len(tiers))
	for i, t := range tiers {
		ms[i] = t.Milestone
	}
	return &Scheduler{tiers: tiers, milestones: ms}
}

// Current returns the active tier index.
func (s *Scheduler) Current() int { return s.current }

// Tier returns the active tier.
func (s *Scheduler) Tier() Tier { return s.tiers[s.current] }

// Select returns the index of the last tier whose milestone is <= step.
func (s *Scheduler) Select(step int) int {
	// first milestone > step, minus one
	i := sort.Search(len(s.milestones), func(i int) bool { return s.milestones[i] > step }) - 1
	if i < 0 {
		return 0
	}
	return i
}

// Update selects the tier for step and makes it current. changed is false
// when the index did not move or the new tier has the same resolution as the
// previous one, in which case nothing needs to be rebuilt.
func (s *Scheduler) Update(step int) (tier Tier, changed bool) {
	next := s.Select(step)
	if next == s.current {
		return s.tiers[next], false
	}
	prev := s.tiers[s.current]
	s.current = next
	if prev.Resolution == s.tiers[next].Resolution {
		return s.tiers[next], false
	}
	klog.V(1).Infof("Training height: %d, width: %d", s.tiers[next].Height, s.tiers[next].Width)
	return s.tiers[next], true
}
