package steps

import "gfit/internal/domain/steps"

type submitInput struct {
	Body steps.SubmitRequest
}

type memberStepsInput struct {
	Body steps.MemberStepsRequest
}

type memberStepsOutput struct {
	Body steps.MemberStepsResponse
}

type updateGoalInput struct {
	Body steps.UpdateGoalRequest
}

type statusOutput struct {
	Body steps.StatusResponse
}
