package handler

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/fadilmartias/job-coach-ai/internal/config"
	"github.com/fadilmartias/job-coach-ai/internal/dto"
	"github.com/fadilmartias/job-coach-ai/internal/middleware"
	"github.com/fadilmartias/job-coach-ai/internal/model"
	"github.com/fadilmartias/job-coach-ai/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

var providerLabels = map[string]string{
	config.ProviderOpenAI:     "OpenAI",
	config.ProviderGemini:     "Gemini",
	config.ProviderOpenRouter: "OpenRouter",
}

var providerKeyURLs = map[string]string{
	config.ProviderOpenAI:     "https://platform.openai.com/api-keys",
	config.ProviderGemini:     "https://aistudio.google.com/apikey",
	config.ProviderOpenRouter: "https://openrouter.ai/keys",
}

// CoachHandler serves the server-rendered page. Every form posts back and
// redirects to "/", which renders the session's current state.
type CoachHandler struct {
	uc       *usecase.CoachUsecase
	appName  string
	provider string
	logger   *zap.Logger
}

func NewCoachHandler(uc *usecase.CoachUsecase, appName, provider string, logger *zap.Logger) *CoachHandler {
	return &CoachHandler{uc: uc, appName: appName, provider: provider, logger: logger}
}

func (h *CoachHandler) RegisterRoutes(app fiber.Router) {
	app.Get("/", h.Index)
	app.Post("/setup", h.Setup)
	app.Post("/forget", h.Forget)
	app.Post("/ask", h.Ask)
	app.Post("/sample", h.Sample)
	app.Post("/reload", h.Reload)
}

type pageView struct {
	AppName       string
	ProviderLabel string
	KeyHelpURL    string

	HasKey    bool
	MaskedKey string

	DataError string
	Summary   model.DatasetSummary
	AvgGrowth string
	MaxGrowth string

	IndexError     string
	IndexReady     bool
	IndexDocuments int

	Samples []dto.SampleResponse
	Result  *model.QueryResult
}

func (h *CoachHandler) Index(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		return fiber.ErrUnauthorized
	}

	view := pageView{
		AppName:       h.appName,
		ProviderLabel: h.providerLabel(),
		KeyHelpURL:    providerKeyURLs[h.provider],
		HasKey:        sess.HasAPIKey(),
	}

	if view.HasKey {
		view.MaskedKey = dto.MaskAPIKey(sess.APIKey())
		h.fillDataset(c, sess, &view)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, view); err != nil {
		h.logger.Error("Failed to render page", zap.Error(err))
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func (h *CoachHandler) fillDataset(c *fiber.Ctx, sess *model.Session, view *pageView) {
	ctx := c.UserContext()

	summary, err := h.uc.Summary(ctx)
	if err != nil {
		view.DataError = err.Error()
		return
	}
	view.Summary = summary
	view.AvgGrowth, view.MaxGrowth = "N/A", "N/A"
	if summary.HasGrowthStats {
		view.AvgGrowth = fmt.Sprintf("%.1f%%", summary.AvgGrowthRate)
		view.MaxGrowth = fmt.Sprintf("%.1f%%", summary.MaxGrowthRate)
	}

	ix, err := h.uc.Index(ctx, sess)
	switch {
	case errors.Is(err, model.ErrNoDocumentsProduced):
		view.IndexError = "No documents created"
		return
	case err != nil:
		view.IndexError = "Error creating index: " + err.Error()
		return
	}
	view.IndexReady = true
	view.IndexDocuments = ix.Documents()

	for i, q := range h.uc.SampleQuestions() {
		view.Samples = append(view.Samples, dto.SampleResponse{Index: i, Question: q})
	}

	if result, ok := h.uc.AnswerPendingSample(ctx, sess); ok {
		view.Result = result
		return
	}
	view.Result = sess.LastResult()
}

func (h *CoachHandler) providerLabel() string {
	if label, ok := providerLabels[h.provider]; ok {
		return label
	}
	return h.provider
}

func (h *CoachHandler) Setup(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		return fiber.ErrUnauthorized
	}
	if key := strings.TrimSpace(c.FormValue("api_key")); key != "" {
		sess.SetAPIKey(key)
		h.logger.Info("API key configured", zap.String("session", sess.ID))
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *CoachHandler) Forget(c *fiber.Ctx) error {
	if sess := middleware.CurrentSession(c); sess != nil {
		sess.ClearAPIKey()
		h.logger.Info("API key cleared", zap.String("session", sess.ID))
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *CoachHandler) Ask(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		return fiber.ErrUnauthorized
	}
	question := c.FormValue("question")
	if strings.TrimSpace(question) != "" {
		h.uc.Answer(c.UserContext(), sess, question, false)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *CoachHandler) Sample(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		return fiber.ErrUnauthorized
	}
	n, err := strconv.Atoi(c.FormValue("n"))
	if err != nil {
		return respondError(c, fmt.Errorf("%w: %q", model.ErrUnknownSample, c.FormValue("n")))
	}
	if err := h.uc.QueueSample(sess, n); err != nil {
		return respondError(c, err)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *CoachHandler) Reload(c *fiber.Ctx) error {
	if _, err := h.uc.Reload(c.UserContext()); err != nil {
		// the page shows the load error
		h.logger.Warn("Reload failed", zap.Error(err))
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}
