package member

import "gfit/internal/domain/member"

type listOutput struct {
	Body member.ListResponse
}

type addInput struct {
	Body member.AddRequest
}

type addOutput struct {
	Body member.AddResponse
}
