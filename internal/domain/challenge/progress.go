package challenge

import (
	"math"
	"time"
)

// ComputeProgress процент выполнения: min(100, round(total/required*100)).
// Челлендж без требования по шагам считается выполненным
func ComputeProgress(c Challenge, familyTotalSteps int) int {
	if c.StepsRequired <= 0 {
		return 100
	}
	if familyTotalSteps <= 0 {
		return 0
	}

	pct := int(math.Round(float64(familyTotalSteps) / float64(c.StepsRequired) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

// ComputeDaysRemaining округленное вверх число дней до дедлайна, не меньше нуля
func ComputeDaysRemaining(deadline, now time.Time) int {
	if !now.Before(deadline) {
		return 0
	}
	return int(math.Ceil(deadline.Sub(now).Hours() / 24))
}
