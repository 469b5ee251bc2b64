// Package handler aggregates the transport-layer handlers of the remote
// store server.
package handler

import (
	"github.com/abira1/nijhum-deep/internal/handler/http"
	"github.com/abira1/nijhum-deep/internal/logger"
	"github.com/abira1/nijhum-deep/internal/service"
	"github.com/abira1/nijhum-deep/internal/store"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(auth service.AuthService, records store.RemoteRecordRepository, logger *logger.Logger) *Handlers {
	logger.Info().Msg("creating new handlers...")

	return &Handlers{
		HTTP: http.NewHandler(auth, records, logger),
	}
}
