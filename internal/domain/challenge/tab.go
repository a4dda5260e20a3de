package challenge

// FilterByTab список челленджей для вкладки.
// Активные выводятся из списка доступных по флагу участия, завершенные берутся из истории
func FilterByTab(available, history []Challenge, tab Tab) []Challenge {
	switch tab {
	case TabAvailable:
		return available
	case TabActive:
		active := make([]Challenge, 0, len(available))
		for _, c := range available {
			if c.CurrentlyInChallenge {
				active = append(active, c)
			}
		}
		return active
	case TabCompleted:
		return history
	default:
		return nil
	}
}
