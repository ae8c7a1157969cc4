package server

import (
	"github.com/mwiater/abplay/internal/abtest"
	"github.com/mwiater/abplay/internal/summary"
)

// EvaluateRequest is the body of POST /v1/evaluate. Counts are pointers so a
// missing field is distinguishable from an explicit zero; range rules stay in
// the engine so its error kinds reach the client unchanged.
type EvaluateRequest struct {
	SampleSizeA  *int     `json:"sample_size_a" binding:"required"`
	ConversionsA *int     `json:"conversions_a" binding:"required"`
	SampleSizeB  *int     `json:"sample_size_b" binding:"required"`
	ConversionsB *int     `json:"conversions_b" binding:"required"`
	Alpha        *float64 `json:"alpha,omitempty"`
	Alternative  string   `json:"alternative,omitempty" binding:"omitempty,alternative"`
}

// EvaluateResponse is returned on success.
type EvaluateResponse struct {
	Result  abtest.Result   `json:"result"`
	Summary summary.Summary `json:"summary"`
}

// TopicResponse describes one explainer topic.
type TopicResponse struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}
