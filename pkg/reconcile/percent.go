package reconcile

import "github.com/lordzed/achievement-viewer/pkg/steam"

// ApplyPercentages annotates achievements with global unlock percentages.
// Achievements missing from the percentage feed keep a nil Percent; absence
// is not the same as zero percent.
func ApplyPercentages(achievements map[string]steam.Achievement, percentages map[string]float64) {
	for apiName, value := range percentages {
		a, ok := achievements[apiName]
		if !ok {
			continue
		}
		pct := value
		a.Percent = &pct
		achievements[apiName] = a
	}
}
