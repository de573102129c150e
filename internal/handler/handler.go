package handler

import (
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/overtime-tracker/backend/internal/config"
	"github.com/sysu-ecnc-dev/overtime-tracker/backend/internal/domain"
	"github.com/sysu-ecnc-dev/overtime-tracker/backend/internal/overtime"
	"github.com/sysu-ecnc-dev/overtime-tracker/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	service     *overtime.Service
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, svc *overtime.Service, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		service:     svc,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)
	h.Mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   strings.Split(h.config.Server.AllowedOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用。
	// 角色和团队范围的判定统一由 overtime 包的 policy 完成，路由层不再逐条检查。
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/overtime", func(r chi.Router) {
			r.Post("/", h.CreateOvertimeEntry)
			r.Get("/", h.GetMyOvertimeEntries)
			r.Delete("/{id}", h.DeleteOvertimeEntry)
		})

		r.Route("/manager", func(r chi.Router) {
			r.Route("/members", func(r chi.Router) {
				r.Get("/", h.GetTeamMembers)
				r.Post("/", h.CreateTeamMember)
			})
			r.Route("/periods", func(r chi.Router) {
				r.Post("/", h.OpenPeriod)
				r.Get("/", h.GetMemberPeriods)
				r.Delete("/{id}", h.ClosePeriod)
			})
			r.Route("/approvals", func(r chi.Router) {
				r.Get("/", h.GetTeamApprovals)
				r.Post("/", h.UpdateApproval)
			})
			r.Get("/totals", h.GetMonthlyTotals)
			r.Post("/overtime/clear", h.ClearTeamOvertime)
		})

		r.Route("/admin/users", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
			r.Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.With(h.preventOperateInitialAdmin).Delete("/", h.DeleteUser)
			})
		})
	})
}
