package scheduler

import (
	"strconv"

	"breakd/internal/models"
)

// ProjectBadge renders a time-remaining answer as badge text: nothing while
// disabled or idle, whole minutes while at least one is left, "!" after that.
func ProjectBadge(r models.TimeRemainingResponse) models.Badge {
	if !r.Enabled || !r.IsActive {
		return models.Badge{}
	}
	if minutes := r.TimeRemaining / 60000; minutes > 0 {
		return models.Badge{Text: strconv.FormatInt(minutes, 10) + "m", Color: models.BadgeColorCountdown}
	}
	return models.Badge{Text: "!", Color: models.BadgeColorUrgent}
}
