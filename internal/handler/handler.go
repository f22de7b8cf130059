package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/planner"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/validation"
)

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	translator ut.Translator
	calendar   *calendar.Calendar
	registry   *domain.ActionRegistry
	engine     *validation.Engine
	builder    *scheduler.Builder
	planner    *planner.Planner
	locker     Locker

	Mux *chi.Mux
}

type Dependencies struct {
	Calendar *calendar.Calendar
	Registry *domain.ActionRegistry
	Engine   *validation.Engine
	Builder  *scheduler.Builder
	Planner  *planner.Planner
	Locker   Locker
}

func NewHandler(cfg *config.Config, deps Dependencies) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		translator: trans,
		calendar:   deps.Calendar,
		registry:   deps.Registry,
		engine:     deps.Engine,
		builder:    deps.Builder,
		planner:    deps.Planner,
		locker:     deps.Locker,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Get("/health", h.Health)

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/ledgers", func(r chi.Router) {
			r.Use(h.ledger)
			r.Post("/validate", h.ValidateLedger)
			r.Post("/model", h.ExportModel)
			// 优化会覆盖已有排班，只有资深助理和黑心可以调用
			r.With(h.RequiredRole([]domain.Role{domain.RoleSeniorAssistant, domain.RoleBlackCore})).Post("/optimize", h.OptimizeLedger)
		})
	})
}
