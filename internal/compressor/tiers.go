package compressor

import "math"

// Tier is one candidate encoding: resize to MaxWidth, encode at Quality.
type Tier struct {
	Quality  float64
	MaxWidth int
}

// Tiers lists the candidates Compress tries, in order. Quality first steps
// down from InitialQuality to MinQuality at MaxWidth, then the width steps
// down by WidthStep at MinQuality while the previous width is above
// MinWidth. The list is finite for any options.
func Tiers(opts Options) []Tier {
	opts = opts.withDefaults()

	// Whole percent steps; repeated float subtraction drifts below MinQuality.
	initial := percent(opts.InitialQuality)
	minimum := percent(opts.MinQuality)
	step := percent(opts.QualityStep)
	if step <= 0 {
		step = 10
	}

	var tiers []Tier
	q := initial
	for {
		tiers = append(tiers, Tier{Quality: float64(q) / 100, MaxWidth: opts.MaxWidth})
		if q <= minimum {
			break
		}
		q = max(q-step, minimum)
	}

	lastQuality := tiers[len(tiers)-1].Quality
	for w := opts.MaxWidth; w > opts.MinWidth; {
		w -= opts.WidthStep
		if w <= 0 {
			break
		}
		tiers = append(tiers, Tier{Quality: lastQuality, MaxWidth: w})
	}
	return tiers
}

func percent(q float64) int {
	if math.IsNaN(q) || q <= 0 {
		return 0
	}
	return int(math.Round(q * 100))
}
