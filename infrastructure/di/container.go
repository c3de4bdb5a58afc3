package di

import (
	"net/http"

	"todo-api/application/adapters"
	"todo-api/infrastructure/config"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Adapters *adapters.Adapters
	Handler  http.Handler
	Ops      *mux.Router
}
