package challenge

import "gfit/internal/domain/challenge"

type activeOutput struct {
	Body challenge.ActiveResponse
}

type listOutput struct {
	Body challenge.ListResponse
}

type historyInput struct {
	Body challenge.HistoryRequest
}

type challengeIDInput struct {
	Body challenge.ChallengeIDRequest
}

type familiesOutput struct {
	Body challenge.FamiliesResponse
}

type statusOutput struct {
	Body challenge.StatusResponse
}
