package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/AP-047/hvac-assistant/app/agent"
	"github.com/AP-047/hvac-assistant/app/format"
	"github.com/AP-047/hvac-assistant/app/retrieval"
	"github.com/AP-047/hvac-assistant/types"
)

// RequestHandler exposes the single answer(query) operation: gate ->
// retrieve -> synthesize -> format.
type RequestHandler struct {
	retriever *retrieval.Service
	synth     *agent.Synthesizer
}

func NewRequestHandler(retriever *retrieval.Service, synth *agent.Synthesizer) *RequestHandler {
	return &RequestHandler{
		retriever: retriever,
		synth:     synth,
	}
}

func (h *RequestHandler) HandleRequest(c *fiber.Ctx) error {
	var params types.QueryParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}

	if errors := types.Validate(&params); len(errors) > 0 {
		return NewValidationError(errors)
	}

	results, outcome := h.retriever.Retrieve(c.UserContext(), params.Query, params.TopK)

	// Zero hits against a healthy index is the one emptiness worth a 404;
	// degradation and out-of-domain queries still get a composed answer.
	if outcome == retrieval.OutcomeNoMatches {
		return ErrNotFound(params.Query, "relevant documents")
	}

	answer := h.synth.Synthesize(results, params.Query)

	resp := types.SearchResponse{
		Answer:    format.ToMarkup(answer.Body),
		Sources:   answer.Sources,
		Timestamp: time.Now(),
	}
	return c.JSON(resp)
}
