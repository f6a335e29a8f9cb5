package ranking

import "github.com/crewline/crewline/pkg/models"

// rawSignals extracts the ten raw signal values used for normalization.
func rawSignals(d *developer) models.SignalScores {
	return models.SignalScores{
		Commits:        float64(d.commits),
		Churn:          float64(d.linesAdded + d.linesDeleted),
		HotspotWork:    d.hotspotWork,
		Ownership:      d.ownership,
		Complexity:     d.complexity,
		Communication:  d.communication,
		Recency:        d.recency,
		Fragmentation:  d.fragmentation,
		Coupling:       d.coupling,
		HotspotCommits: float64(d.hotspotCommits),
	}
}

// normalize scales every signal to [0,100] against the per-signal maximum.
// A signal whose maximum is zero normalizes to zero for everyone, never an
// error.
func normalize(devs []*developer) []models.SignalScores {
	var maxes models.SignalScores
	raws := make([]models.SignalScores, len(devs))
	for i, d := range devs {
		raws[i] = rawSignals(d)
		maxes = models.SignalScores{
			Commits:        max(maxes.Commits, raws[i].Commits),
			Churn:          max(maxes.Churn, raws[i].Churn),
			HotspotWork:    max(maxes.HotspotWork, raws[i].HotspotWork),
			Ownership:      max(maxes.Ownership, raws[i].Ownership),
			Complexity:     max(maxes.Complexity, raws[i].Complexity),
			Communication:  max(maxes.Communication, raws[i].Communication),
			Recency:        max(maxes.Recency, raws[i].Recency),
			Fragmentation:  max(maxes.Fragmentation, raws[i].Fragmentation),
			Coupling:       max(maxes.Coupling, raws[i].Coupling),
			HotspotCommits: max(maxes.HotspotCommits, raws[i].HotspotCommits),
		}
	}

	out := make([]models.SignalScores, len(devs))
	for i := range raws {
		out[i] = models.SignalScores{
			Commits:        scale(raws[i].Commits, maxes.Commits),
			Churn:          scale(raws[i].Churn, maxes.Churn),
			HotspotWork:    scale(raws[i].HotspotWork, maxes.HotspotWork),
			Ownership:      scale(raws[i].Ownership, maxes.Ownership),
			Complexity:     scale(raws[i].Complexity, maxes.Complexity),
			Communication:  scale(raws[i].Communication, maxes.Communication),
			Recency:        scale(raws[i].Recency, maxes.Recency),
			Fragmentation:  scale(raws[i].Fragmentation, maxes.Fragmentation),
			Coupling:       scale(raws[i].Coupling, maxes.Coupling),
			HotspotCommits: scale(raws[i].HotspotCommits, maxes.HotspotCommits),
		}
	}
	return out
}

func scale(raw, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	return raw / limit * 100.0
}
