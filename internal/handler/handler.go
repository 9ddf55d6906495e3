package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/rotaworks-dev/staffhub/backend/internal/breakrule"
	"github.com/rotaworks-dev/staffhub/backend/internal/config"
	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
	"github.com/rotaworks-dev/staffhub/backend/internal/payroll"
	"github.com/rotaworks-dev/staffhub/backend/internal/repository"
)

type Handler struct {
	validate      *validator.Validate
	config        *config.Config
	repository    *repository.Repository
	translator    ut.Translator
	notifyChannel *amqp.Channel
	redisClient   *redis.Client

	defaultBreakTiers []domain.BreakTier
	payrollRates      payroll.Rates

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, notifyCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	cfgTiers, err := config.ParseBreakTiers(cfg.TimeClock.DefaultBreakTiers)
	if err != nil {
		return nil, err
	}

	rates, err := payroll.RatesFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	return &Handler{
		validate:      validate,
		config:        cfg,
		repository:    repo,
		translator:    trans,
		notifyChannel: notifyCh,
		redisClient:   rdb,

		defaultBreakTiers: breakrule.DefaultTiers(cfgTiers),
		payrollRates:      rates,

		Mux: chi.NewRouter(),
	}, nil
}

var (
	managerRoles = []domain.Role{domain.RoleManager, domain.RoleAdmin}
	adminRoles   = []domain.Role{domain.RoleAdmin}
)

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// everything below requires a logged-in caller
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/staff", func(r chi.Router) {
			r.With(h.RequiredRole(adminRoles)).Post("/", h.CreateStaff)
			r.Get("/", h.GetAllStaff)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.staffInfo)
				r.Get("/", h.GetStaff)
				r.With(h.RequiredRole(adminRoles)).Patch("/", h.UpdateStaff)
				r.With(h.RequiredRole(managerRoles)).Get("/availability", h.GetStaffAvailability)
			})
		})

		r.Route("/locations", func(r chi.Router) {
			r.With(h.RequiredRole(managerRoles)).Post("/", h.CreateLocation)
			r.Get("/", h.GetAllLocations)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.location)
				r.Get("/", h.GetLocation)
				r.With(h.RequiredRole(managerRoles)).Patch("/", h.UpdateLocation)
			})
		})

		r.Route("/shift-categories", func(r chi.Router) {
			r.With(h.RequiredRole(managerRoles)).Post("/", h.CreateShiftCategory)
			r.Get("/", h.GetAllShiftCategories)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.shiftCategory)
				r.Get("/", h.GetShiftCategory)
				r.With(h.RequiredRole(managerRoles)).Patch("/", h.UpdateShiftCategory)
			})
		})

		r.Route("/shifts", func(r chi.Router) {
			r.With(h.RequiredRole(managerRoles)).Post("/", h.CreateShift)
			r.Get("/", h.GetShifts)
			r.With(h.RequiredRole(managerRoles)).Post("/suggest-assignments", h.SuggestAssignments)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.shift)
				r.Get("/", h.GetShift)
				r.With(h.RequiredRole(managerRoles)).Patch("/", h.UpdateShift)
				r.With(h.RequiredRole(managerRoles)).Delete("/", h.DeleteShift)
				r.With(h.RequiredRole(managerRoles)).Post("/assign", h.AssignShift)
				r.With(h.RequiredRole(managerRoles)).Post("/archive", h.ArchiveShift)
				r.With(h.myInfo).Post("/swap-requests", h.CreateSwapRequest)
			})
		})

		r.Route("/swap-requests", func(r chi.Router) {
			r.With(h.myInfo).Get("/", h.GetSwapRequests)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.swapRequest)
				r.With(h.RequiredRole(managerRoles)).With(h.myInfo).Post("/resolve", h.ResolveSwapRequest)
			})
		})

		r.Route("/availability", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Post("/", h.CreateAvailability)
			r.Get("/", h.GetMyAvailability)
			r.Delete("/{id}", h.DeleteAvailability)
		})

		r.Route("/time-clock", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Post("/clock-in", h.ClockIn)
			r.Post("/break/start", h.StartBreak)
			r.Post("/break/end", h.EndBreak)
			r.Post("/clock-out", h.ClockOut)
			r.Get("/current", h.GetCurrentTimeEntry)
		})

		r.Route("/time-entries", func(r chi.Router) {
			r.With(h.myInfo).Get("/", h.GetMyTimeEntries)
			r.With(h.RequiredRole(managerRoles)).Post("/", h.CreateManualTimeEntry)
			r.With(h.RequiredRole(managerRoles)).Get("/pending", h.GetPendingTimeEntries)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.timeEntry)
				r.With(h.myInfo).Get("/", h.GetTimeEntry)
				r.With(h.RequiredRole(managerRoles)).With(h.myInfo).Post("/approve", h.ApproveTimeEntry)
				r.With(h.RequiredRole(managerRoles)).With(h.myInfo).Post("/reject", h.RejectTimeEntry)
				r.With(h.RequiredRole(managerRoles)).Post("/clear-flag", h.ClearTimeEntryFlag)
			})
		})

		r.Get("/pay-periods", h.GetPayPeriods)

		r.With(h.RequiredRole(managerRoles)).Get("/reports/payroll", h.GetPayrollReport)
	})
}
