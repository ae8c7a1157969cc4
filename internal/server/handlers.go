package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/mwiater/abplay/internal/abtest"
	"github.com/mwiater/abplay/internal/logging"
	"github.com/mwiater/abplay/internal/summary"
)

// Handlers serves the evaluation API.
type Handlers struct {
	defaults Defaults
	metrics  *Metrics
}

// Defaults fills optional request fields.
type Defaults struct {
	Alpha       float64
	Alternative abtest.Alternative
}

// NewHandlers creates handlers that fall back to defaults for omitted fields.
func NewHandlers(defaults Defaults, metrics *Metrics) *Handlers {
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Handlers{defaults: defaults, metrics: metrics}
}

// HandleEvaluate handles POST /v1/evaluate.
//
// Response:
//
//	200 OK: EvaluateResponse
//	400 Bad Request: ErrorResponse with INVALID_REQUEST or a validation code
func (h *Handlers) HandleEvaluate(c *gin.Context) {
	requestID := getOrCreateRequestID(c)

	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logging.LogEvent("[HTTP] request_id=%s invalid request body: %v", requestID, err)
		h.metrics.observeInvalid(0)
		c.JSON(http.StatusBadRequest, bindingErrorResponse(err))
		return
	}

	in, err := h.toInput(req)
	if err == nil {
		var res abtest.Result
		res, err = abtest.Evaluate(in)
		if err == nil {
			logging.LogEvaluation("http", in, &res, nil)
			h.metrics.observeResult(res.Alternative.String(), res.PValue, res.IsSignificant)
			c.JSON(http.StatusOK, EvaluateResponse{Result: res, Summary: summary.Build(res)})
			return
		}
	}

	logging.LogEvaluation("http", in, nil, err)
	h.metrics.observeInvalid(in.Alternative)
	resp := ErrorResponse{Error: err.Error(), Code: "INVALID_INPUT"}
	var verr *abtest.ValidationError
	if errors.As(err, &verr) {
		resp.Code = verr.Code()
		resp.Field = verr.Field
	}
	c.JSON(http.StatusBadRequest, resp)
}

func (h *Handlers) toInput(req EvaluateRequest) (abtest.Input, error) {
	in := abtest.Input{
		SampleSizeA:  *req.SampleSizeA,
		ConversionsA: *req.ConversionsA,
		SampleSizeB:  *req.SampleSizeB,
		ConversionsB: *req.ConversionsB,
		Alpha:        h.defaults.Alpha,
		Alternative:  h.defaults.Alternative,
	}
	if req.Alpha != nil {
		in.Alpha = *req.Alpha
	}
	if req.Alternative != "" {
		alt, err := abtest.ParseAlternative(req.Alternative)
		if err != nil {
			in.Alternative = 0
			return in, err
		}
		in.Alternative = alt
	}
	return in, nil
}

// HandleListTopics handles GET /v1/topics.
func (h *Handlers) HandleListTopics(c *gin.Context) {
	getOrCreateRequestID(c)
	topics := make([]TopicResponse, 0, len(summary.Topics()))
	for _, t := range summary.Topics() {
		topics = append(topics, TopicResponse{Slug: string(t), Title: t.Title()})
	}
	c.JSON(http.StatusOK, topics)
}

// HandleGetTopic handles GET /v1/topics/:slug.
func (h *Handlers) HandleGetTopic(c *gin.Context) {
	getOrCreateRequestID(c)
	topic, err := summary.ParseTopic(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "TOPIC_NOT_FOUND"})
		return
	}
	body, _ := summary.Lookup(topic)
	c.JSON(http.StatusOK, TopicResponse{Slug: string(topic), Title: topic.Title(), Body: body})
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// bindingErrorResponse reports a rejected alternative with the engine's
// code; every other binding failure is INVALID_REQUEST.
func bindingErrorResponse(err error) ErrorResponse {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "alternative" {
				return ErrorResponse{
					Error: (&abtest.ValidationError{Field: abtest.FieldAlternative, Value: fe.Value(), Kind: abtest.ErrInvalidAlternative}).Error(),
					Code:  abtest.KindCode(abtest.ErrInvalidAlternative),
					Field: abtest.FieldAlternative,
				}
			}
		}
	}
	return ErrorResponse{Error: "Invalid request body", Code: "INVALID_REQUEST"}
}

func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
