package handler

import (
	"net/http"

	"github.com/credivive/pipeline-manager-api/internal/api/handler/router"
	"github.com/credivive/pipeline-manager-api/internal/events"
	"github.com/credivive/pipeline-manager-api/internal/usecases/aggregating"
	"github.com/credivive/pipeline-manager-api/internal/usecases/authenticating"
	"github.com/credivive/pipeline-manager-api/internal/usecases/pipeline"
	"github.com/credivive/pipeline-manager-api/internal/usecases/quota"
	"github.com/credivive/pipeline-manager-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:    "/v1/password-reset",
			Method:  http.MethodPost,
			Handler: ResetPassword(service),
		},
		{
			Path:        "/v1/password",
			Method:      http.MethodPost,
			Handler:     UpdateOwnPassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/users/:id/generate-password",
			Method:      http.MethodPost,
			Handler:     GeneratePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func User(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/users",
			Method:      http.MethodGet,
			Handler:     ListUsers(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users",
			Method:      http.MethodPost,
			Handler:     CreateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodGet,
			Handler:     GetUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodPut,
			Handler:     UpdateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Clients(service pipeline.Manager) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/clientes",
			Method:      http.MethodGet,
			Handler:     ListClients(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/clientes",
			Method:      http.MethodPost,
			Handler:     CreateClient(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/clientes/:id",
			Method:      http.MethodPut,
			Handler:     UpdateClient(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/clientes/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteClient(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/clientes/:id/estatus",
			Method:      http.MethodPut,
			Handler:     TransitionStatus(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/clientes/:id/historial",
			Method:      http.MethodGet,
			Handler:     ListHistory(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Catalogs() []router.Route {
	return []router.Route{
		{
			Path:        "/v1/catalogos",
			Method:      http.MethodGet,
			Handler:     GetCatalogs(),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Stream(bus *events.Bus) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/stream",
			Method:      http.MethodGet,
			Handler:     ClientStream(bus),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Dashboard(service aggregating.Insighter) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/dashboard/resumen",
			Method:      http.MethodGet,
			Handler:     GetResumen(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Quotas(service quota.Manager) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/metas",
			Method:      http.MethodGet,
			Handler:     ListQuotas(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/metas/:id",
			Method:      http.MethodPut,
			Handler:     UpdateQuota(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/metas/copiar-mes-anterior",
			Method:      http.MethodPost,
			Handler:     CopyPreviousMonthQuotas(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/metas/avance",
			Method:      http.MethodGet,
			Handler:     GetAvance(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Export(service pipeline.Manager) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/export",
			Method:      http.MethodGet,
			Handler:     ExportWorkbook(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
