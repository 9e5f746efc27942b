package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"marketplace/app"
	"marketplace/config"
	"marketplace/logger"
)

var (
	application *app.App
	initErr     error
	once        sync.Once
)

func initApp() {
	once.Do(func() {
		gin.SetMode(gin.ReleaseMode)

		cfg, err := config.LoadConfig()
		if err != nil {
			initErr = err
			return
		}

		application, initErr = app.New(context.Background(), cfg, logger.New(cfg.LogLevel))
	})
}

// Handler is the serverless entrypoint. Connections are opened once per
// instance and reused across invocations.
func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	if initErr != nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	application.Router.ServeHTTP(w, r)
}

