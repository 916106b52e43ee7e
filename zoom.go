package pyramid

import (
	"math"
)

// ZoomLevel maps a continuous zoom scale (output pixels per world unit) to
// the pyramid level whose tiles best match it. Halves round up.
// Non-positive or NaN scales resolve to level 0.
func ZoomLevel(scale float64, cfg *Config) int {
	if !(scale > 0) || math.IsInf(scale, 0) {
		if math.IsInf(scale, 1) {
			return MaxZoom - 1
		}
		return 0
	}

	level := math.Floor(math.Log2(cfg.tilesAtFullRes()) + math.Log2(scale) + 0.5)
	if level < 0 {
		return 0
	}
	if level >= MaxZoom {
		return MaxZoom - 1
	}
	return int(level)
}
