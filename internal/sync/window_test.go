package sync

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlanWindowsNonEmpty(t *testing.T) {
	plan := PlanWindows(Watermarks{Newest: 3000, Oldest: 1000}, 600)

	require.Equal(t, Window{Start: 3000, End: 3600}, plan.Forward)
	require.Equal(t, Window{Start: 400, End: 1000}, plan.Backward)
	require.EqualValues(t, 600, plan.Forward.Width())
	require.EqualValues(t, 600, plan.Backward.Width())
}

func TestPlanWindowsColdStart(t *testing.T) {
	const now = 5_000_000
	plan := PlanWindows(Watermarks{Newest: now, Oldest: now, Empty: true}, 10800)

	require.Equal(t, Window{Start: now, End: now + 10800}, plan.Forward)
	require.Equal(t, Window{Start: now, End: now}, plan.Backward, "backward window must degenerate on cold start")
	require.EqualValues(t, 0, plan.Backward.Width())
}

func TestPlanWindowsNoFutureClamping(t *testing.T) {
	// The forward window is a pure function of the watermark: a newest
	// watermark near "now" still yields a full-horizon forward window.
	plan := PlanWindows(Watermarks{Newest: 1_700_000_000, Oldest: 1_600_000_000}, 10800)
	require.EqualValues(t, 1_700_010_800, plan.Forward.End)
}

func TestPlanWindowsSameWatermarkNotEmpty(t *testing.T) {
	// A one-row table has equal watermarks but is not a cold start: the
	// backward window keeps its full width.
	plan := PlanWindows(Watermarks{Newest: 2000, Oldest: 2000}, 600)
	require.Equal(t, Window{Start: 1400, End: 2000}, plan.Backward)
}
