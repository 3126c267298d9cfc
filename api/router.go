package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	appMiddleware "github.com/seedtabs/qrcoder/api/middleware"
	"github.com/seedtabs/qrcoder/constant"
	appLogger "github.com/seedtabs/qrcoder/infrastructure/logger"
)

// LabelHandler is implemented by Handler
type LabelHandler interface {
	GetLabel(w http.ResponseWriter, r *http.Request)
	GetLabelPayload(w http.ResponseWriter, r *http.Request)
}

// Router represents the application router
type Router struct {
	handler LabelHandler
	router  *chi.Mux
	log     *appLogger.Logger
}

// NewRouter creates a new router
func NewRouter(handler LabelHandler, log *appLogger.Logger) *Router {
	if log == nil {
		log = appLogger.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(appMiddleware.RequestLogger(log))

	return &Router{
		handler: handler,
		router:  r,
		log:     log,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() {
	r.log.Info(constant.MsgSettingUpRoutes, appLogger.LoggerInfo{
		ContextFunction: constant.CtxRouter,
	})

	r.router.Get(constant.RouteLabel, r.handler.GetLabel)
	r.router.Get(constant.RouteLabelPayload, r.handler.GetLabelPayload)

	r.router.Get(constant.RouteHealthcheck, func(w http.ResponseWriter, req *http.Request) {
		r.log.CtxDebug(req.Context(), constant.MsgHealthcheckRequest, appLogger.LoggerInfo{
			ContextFunction: constant.CtxRouter,
		})

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(constant.MsgHealthy))
	})
}

// ServeHTTP implements the http.Handler interface
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
