package handler

import (
	"net/http"
	"sync"

	"bengkel/config"
	"bengkel/di"
	"bengkel/shared/logger"
	transport "bengkel/transport/http"
)

var (
	app  *transport.HTTP
	once sync.Once
)

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.SetLogLevel(cfg)

		// the instance lives as long as the function container, so its cleanup never runs
		app, _ = di.InitializeService()
	})

	app.ServeHTTP(w, r)
}
