package rollup

import "github.com/dashledger/internal/domain/goal"

// AttachGoal populates the result's goal fields. A nil goal leaves both
// absent. Progress is a capped gauge: min(100, revenue/target*100), and it is
// only computed for a positive target.
func AttachGoal(res *Result, g *goal.Goal) {
	if g == nil {
		return
	}

	res.Goal = g

	if g.TargetProfit.IsPositive() {
		revenue, _ := res.Revenue.Float64()
		target, _ := g.TargetProfit.Float64()

		progress := revenue / target * 100
		if progress > 100 {
			progress = 100
		}
		res.GoalProgress = &progress
	}
}
