package sync

// PlanWindows computes the next forward and backward fetch windows from a
// watermark pair. The forward window runs from the newest watermark out by
// one horizon; the backward window reaches one horizon behind the oldest.
// On the cold-start collapse (empty table) the backward window degenerates
// to zero width: the first run only extends forward from now.
//
// The forward window is deliberately not clamped against wall-clock time.
// The upstream source returns fewer or no rows for future timestamps, and
// keeping the plan a pure function of the watermarks makes prompt re-runs
// idempotent.
func PlanWindows(wm Watermarks, horizon int64) WindowPlan {
	plan := WindowPlan{
		Forward:  Window{Start: wm.Newest, End: wm.Newest + horizon},
		Backward: Window{Start: wm.Oldest - horizon, End: wm.Oldest},
	}
	if wm.Empty {
		plan.Backward.Start = wm.Oldest
	}
	return plan
}
