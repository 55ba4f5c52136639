package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/clash"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/config"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/period"
	"github.com/unrolled/secure"
)

// Repository 是 handler 需要的持久化操作，由 repository.Repository 实现
type Repository interface {
	GetUserByID(id int64) (*domain.User, error)
	GetUserByUsername(username string) (*domain.User, error)
	GetUsersByTeamID(teamID int64) ([]*domain.User, error)
	UpdateUser(user *domain.User) error
	CreateUser(user *domain.User) error
	CheckEmailIfExists(email string) (bool, error)

	CreateTeam(team *domain.Team, creator *domain.User) error
	GetTeamByID(id int64) (*domain.Team, error)
	GetTeamByInviteCode(code string) (*domain.Team, error)

	ListShifts(teamID int64, start, end string) ([]*domain.Shift, error)
	CreateShifts(shifts []*domain.Shift) error
	DeleteShifts(teamID, ownerID int64) (int64, error)
}

// MailPublisher 由 *amqp.Channel 实现
type MailPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  Repository
	translator  ut.Translator
	mailChannel MailPublisher
	redisClient *redis.Client
	broker      *clash.Broker
	periods     []domain.WorkingPeriod
	now         func() time.Time

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo Repository, mailCh MailPublisher, rdb *redis.Client, broker *clash.Broker) (*Handler, error) {
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
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,
		broker:      broker,
		periods:     period.Generate(cfg.Period.Count, cfg.Period.StartYear),
		now:         time.Now,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)
	h.Mux.Use(secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		IsDevelopment:      h.config.Environment != "production",
	}).Handler)

	loginLimiter := h.rateLimiter(h.config.RateLimit.Login)
	uploadLimiter := h.rateLimiter(h.config.RateLimit.Upload)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.With(loginLimiter).Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Use(loginLimiter)
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 工作周期与登录状态无关
	h.Mux.Get("/periods", h.GetPeriods)

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Use(h.myInfo)

		r.Route("/my-info", func(r chi.Router) {
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/teams", func(r chi.Router) {
			r.Post("/", h.CreateTeam)
			r.Post("/join", h.JoinTeam)
			r.With(h.requireTeam).Get("/mine", h.GetMyTeam)
		})

		// 以下 API 必须要在加入团队后才允许调用
		r.Group(func(r chi.Router) {
			r.Use(h.requireTeam)

			r.Route("/shifts", func(r chi.Router) {
				r.Get("/", h.GetShifts)
				r.Post("/", h.CreateShifts)
				r.With(uploadLimiter).Post("/extract", h.ExtractShifts)
				r.Post("/check", h.CheckShift)
				r.Delete("/mine", h.DeleteMyShifts)
			})

			r.Route("/clashes", func(r chi.Router) {
				r.Get("/", h.GetClashes)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/notify", h.NotifyClashes)
			})

			r.Get("/events", h.StreamEvents)

			r.With(uploadLimiter).With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/batch", h.CompareBatch)
		})
	})
}

func (h *Handler) rateLimiter(requestsPerMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(requestsPerMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			h.writeJSON(w, r, http.StatusTooManyRequests, Response{
				Success: false,
				Message: "请求过于频繁，请稍后再试",
				Data:    nil,
			})
		}),
	)
}
