package engine

// StageMultiplier converts a stat stage into its multiplier:
// 2/(2+|s|) below zero, (2+s)/2 above. Stages outside [-6,6] are clamped first.
func StageMultiplier(stage int) float64 {
	stage = ClampStage(stage)
	if stage < 0 {
		return 2.0 / float64(2-stage)
	}
	return float64(2+stage) / 2.0
}

// AccuracyStageMultiplier is the 3-based table used for accuracy and evasion.
func AccuracyStageMultiplier(stage int) float64 {
	stage = ClampStage(stage)
	if stage < 0 {
		return 3.0 / float64(3-stage)
	}
	return float64(3+stage) / 3.0
}

// ClampStage bounds a stage to [MinStage, MaxStage].
func ClampStage(stage int) int {
	if stage < MinStage {
		return MinStage
	}
	if stage > MaxStage {
		return MaxStage
	}
	return stage
}

// critRates are the hit chances per crit stage; the last tier caps anything higher.
var critRates = []float64{1.0 / 16.0, 0.125, 0.25, 1.0 / 3.0, 0.5}

// CritChance returns the critical-hit probability for a crit stage.
func CritChance(stage int) float64 {
	if stage < 0 {
		stage = 0
	}
	if stage >= len(critRates) {
		stage = len(critRates) - 1
	}
	return critRates[stage]
}
