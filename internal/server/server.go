package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/approvals/pkg/configuration"
	"github.com/iota-uz/approvals/pkg/httpapi"
	"github.com/iota-uz/approvals/pkg/middleware"
)

type Controller interface {
	Key() string
	Register(r *mux.Router)
}

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Pool          *pgxpool.Pool
	Controllers   []Controller
}

type HTTPServer struct {
	handler http.Handler
	log     *logrus.Logger
}

func Default(options *DefaultOptions) (*HTTPServer, error) {
	r := mux.NewRouter()
	r.Use(
		middleware.WithLogger(options.Logger),
		middleware.WithPool(options.Pool),
	)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		_ = httpapi.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	for _, controller := range options.Controllers {
		controller.Register(r)
		options.Logger.WithField("controller", controller.Key()).Debug("registered controller")
	}

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{options.Configuration.Origin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "X-Actor-ID"},
	}).Handler(r)

	return &HTTPServer{handler: handler, log: options.Logger}, nil
}

func (s *HTTPServer) Start(socketAddress string) error {
	srv := &http.Server{
		Addr:         socketAddress,
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return srv.ListenAndServe()
}
