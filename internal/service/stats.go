// server/internal/service/stats.go
package service

import "agrifield-api-server/internal/models"

// ComputeFieldStats sums cost and revenue over the given activities and
// derives net profit. Pure function, no persistence: aggregates are
// recomputed on every listing request instead of cached, trading a little
// recomputation for always-fresh values. Callers pass only non-deleted
// activities.
func ComputeFieldStats(activities []models.Activity) models.FieldStats {
	var stats models.FieldStats
	for _, a := range activities {
		stats.TotalCost += a.Cost
		stats.TotalRevenue += a.Revenue
	}
	stats.NetProfit = stats.TotalRevenue - stats.TotalCost
	return stats
}

// ComputeProgressStage derives a coarse crop progress from which activity
// types have been completed on the field. The derivation is priority-ordered,
// not cumulative: a completed Harvesting dominates everything, then
// Fertilizer, then Irrigation, then Sowing. The precedence order matters when
// several types are present and must not be reordered.
func ComputeProgressStage(activities []models.Activity) models.FieldProgress {
	completed := map[string]bool{}
	for _, a := range activities {
		if a.Status == models.StatusCompleted {
			completed[a.ActivityType] = true
		}
	}

	switch {
	case completed[models.ActivityHarvesting]:
		return models.FieldProgress{Percent: 100, Stage: "Harvested"}
	case completed[models.ActivityFertilizer]:
		return models.FieldProgress{Percent: 75, Stage: "Maturing"}
	case completed[models.ActivityIrrigation]:
		return models.FieldProgress{Percent: 50, Stage: "Growing"}
	case completed[models.ActivitySowing]:
		return models.FieldProgress{Percent: 25, Stage: "Sowed"}
	default:
		return models.FieldProgress{Percent: 0, Stage: "Planning"}
	}
}
