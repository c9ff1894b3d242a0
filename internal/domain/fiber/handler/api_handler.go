package handler

import (
	"strings"

	"github.com/fadilmartias/job-coach-ai/internal/dto"
	"github.com/fadilmartias/job-coach-ai/internal/middleware"
	"github.com/fadilmartias/job-coach-ai/internal/model"
	"github.com/fadilmartias/job-coach-ai/internal/response"
	"github.com/fadilmartias/job-coach-ai/internal/usecase"
	"github.com/fadilmartias/job-coach-ai/internal/util"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type APIHandler struct {
	uc       *usecase.CoachUsecase
	provider string
	logger   *zap.Logger
}

func NewAPIHandler(uc *usecase.CoachUsecase, provider string, logger *zap.Logger) *APIHandler {
	return &APIHandler{uc: uc, provider: provider, logger: logger}
}

func (h *APIHandler) RegisterRoutes(app fiber.Router) {
	api := app.Group("/api")
	api.Get("/session", h.GetSession)
	api.Post("/session", h.CreateSession)
	api.Delete("/session", h.DeleteSession)
	api.Get("/dataset/summary", h.Summary)
	api.Post("/dataset/reload", h.Reload)
	api.Get("/jobs", h.ListJobs)
	api.Get("/index", h.IndexStatus)
	api.Post("/index", h.BuildIndex)
	api.Post("/query", h.Query)
	api.Get("/samples", h.Samples)
	api.Post("/samples/:n", h.AskSample)
}

func (h *APIHandler) session(c *fiber.Ctx) (*model.Session, error) {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		return nil, fiber.ErrUnauthorized
	}
	return sess, nil
}

func (h *APIHandler) sessionResponse(sess *model.Session) dto.SessionResponse {
	return dto.SessionResponse{
		ID:        sess.ID,
		HasAPIKey: sess.HasAPIKey(),
		CreatedAt: sess.CreatedAt,
		Provider:  h.provider,
		MaskedKey: dto.MaskAPIKey(sess.APIKey()),
	}
}

func (h *APIHandler) GetSession(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get session",
		Data:    h.sessionResponse(sess),
	})
}

func (h *APIHandler) CreateSession(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	var req dto.SessionRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}
	key := strings.TrimSpace(req.APIKey)
	if key == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "api key is required",
		}, util.NewFormError("validation failed", map[string]string{"api_key": "required"}))
	}

	sess.SetAPIKey(key)
	h.logger.Info("API key configured", zap.String("session", sess.ID))
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "API key configured",
		Data:    h.sessionResponse(sess),
	})
}

func (h *APIHandler) DeleteSession(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	sess.ClearAPIKey()
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "API key cleared",
		Data:    h.sessionResponse(sess),
	})
}

func (h *APIHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.uc.Summary(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get dataset summary",
		Data:    dto.NewSummaryResponse(summary),
	})
}

func (h *APIHandler) Reload(c *fiber.Ctx) error {
	if _, err := h.uc.Reload(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	summary, err := h.uc.Summary(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Dataset reloaded",
		Data:    dto.NewSummaryResponse(summary),
	})
}

func (h *APIHandler) ListJobs(c *fiber.Ctx) error {
	jobs, page, err := h.uc.ListJobs(c.UserContext(), c.QueryInt("page", 1), c.QueryInt("page_size", response.DefaultPageSize))
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get jobs",
		Data:       jobs,
		Pagination: &page,
	})
}

func (h *APIHandler) IndexStatus(c *fiber.Ctx) error {
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get index status",
		Data:    h.uc.IndexStatus(),
	})
}

func (h *APIHandler) BuildIndex(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	ix, err := h.uc.Index(c.UserContext(), sess)
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Index ready",
		Data: dto.IndexResponse{
			Documents:      ix.Documents(),
			EmbeddingModel: ix.EmbeddingModel(),
			BuiltAt:        ix.BuiltAt(),
		},
	})
}

func (h *APIHandler) Query(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	var req dto.QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	resp, err := h.uc.Ask(c.UserContext(), sess, req.Question)
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success answer question",
		Data:    dto.NewQueryResponse(resp),
	})
}

func (h *APIHandler) Samples(c *fiber.Ctx) error {
	samples := h.uc.SampleQuestions()
	data := make([]dto.SampleResponse, len(samples))
	for i, q := range samples {
		data[i] = dto.SampleResponse{Index: i, Question: q}
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get sample questions",
		Data:    data,
	})
}

func (h *APIHandler) AskSample(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	n, err := c.ParamsInt("n")
	if err != nil {
		return respondError(c, model.ErrUnknownSample)
	}

	resp, err := h.uc.AskSample(c.UserContext(), sess, n)
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success answer sample question",
		Data:    dto.NewQueryResponse(resp),
	})
}
