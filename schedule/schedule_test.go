package schedule

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"

	"github.com/Noofbiz/multiview/errs"
)

func TestSelect_Monotonic(t *testing.T) {
	tiers, err := BuildTiers([]int{64, 128, 256}, []int{64, 128, 256}, []int{100, 500})
	require.NoError(t, err)
	s := NewScheduler(tiers)

	assert.Equal(t, []int{-1, 100, 500}, s.milestones)

	steps := []int{0, 50, 100, 300, 500, 900}
	want := []int{0, 0, 1, 1, 2, 2}
	for i, step := range steps {
		assert.Equal(t, want[i], s.Select(step), "step %d", step)
	}
}

func TestUpdate_ReportsChangesOnce(t *testing.T) {
	tiers, err := BuildTiers([]int{64, 128}, []int{64, 128}, []int{10})
	require.NoError(t, err)
	s := NewScheduler(tiers)

	tier, changed := s.Update(0)
	assert.False(t, changed)
	assert.Equal(t, 64, tier.Height)

	tier, changed = s.Update(10)
	assert.True(t, changed)
	assert.Equal(t, 128, tier.Width)

	_, changed = s.Update(10)
	assert.False(t, changed, "same step must be idempotent")
	_, changed = s.Update(10000)
	assert.False(t, changed, "last tier is terminal")
	assert.Equal(t, 1, s.Current())
}

func TestUpdate_SameResolutionIsNotAChange(t *testing.T) {
	tiers, err := BuildTiers([]int{64, 64, 96}, []int{64, 64, 96}, []int{5, 9})
	require.NoError(t, err)
	s := NewScheduler(tiers)

	_, changed := s.Update(6)
	assert.False(t, changed)
	assert.Equal(t, 1, s.Current())

	_, changed = s.Update(9)
	assert.True(t, changed)
}

func TestBuildTiers_Validation(t *testing.T) {
	_, err := BuildTiers([]int{64, 128}, []int{64, 128}, nil)
	require.Error(t, err)
	assert.True(t, errs.IsConfigError(err))

	_, err = BuildTiers([]int{64, 128}, []int{64}, []int{1})
	assert.True(t, errs.IsConfigError(err))

	_, err = BuildTiers([]int{64, 128, 256}, []int{64, 128, 256}, []int{500, 100})
	assert.True(t, errs.IsConfigError(err))

	_, err = BuildTiers([]int{0}, []int{64}, nil)
	assert.True(t, errs.IsConfigError(err))
}

func TestBuildTiers_SingleTierIgnoresMilestones(t *testing.T) {
	var logs bytes.Buffer
	klog.LogToStderr(false)
	klog.SetOutput(&logs)
	defer klog.LogToStderr(true)

	tiers, err := BuildTiers([]int{96}, []int{128}, []int{100, 200})
	require.NoError(t, err)
	klog.Flush()
	assert.Contains(t, logs.String(), "Ignoring resolution_milestones [100 200]")
	require.Len(t, tiers, 1)
	assert.Equal(t, AlwaysActive, tiers[0].Milestone)
	assert.Equal(t, Resolution{Height: 96, Width: 128}, tiers[0].Resolution)

	s := NewScheduler(tiers)
	assert.Equal(t, 0, s.Select(1_000_000))
}
