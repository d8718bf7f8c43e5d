package loader

// Approach moves from toward target by at most delta without overshooting.
func Approach(from, target, delta float64) float64 {
	if from < target {
		from += delta
		if from > target {
			return target
		}
		return from
	}
	from -= delta
	if from < target {
		return target
	}
	return from
}

// ComputeSpeed returns the speed of the first interval containing t, or
// fallback when none does.
func ComputeSpeed(t float64, intervals []SpeedInterval, fallback float64) float64 {
	for _, interval := range intervals {
		if interval.Contains(t) {
			return interval.Speed
		}
	}
	return fallback
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
