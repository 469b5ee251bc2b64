// Package http implements the HTTP transport layer of the remote store
// server. It provides middleware, route handlers, and request/response
// utilities for the REST API. Authentication, logging and tracing concerns
// are handled at this layer before requests reach the service layer.
package http

import (
	"github.com/abira1/nijhum-deep/internal/logger"
	"github.com/abira1/nijhum-deep/internal/service"
	"github.com/abira1/nijhum-deep/internal/store"
	"github.com/abira1/nijhum-deep/internal/utils"
)

type Handler struct {
	authService service.AuthService
	records     store.RemoteRecordRepository
	ids         *utils.UUIDGenerator

	logger *logger.Logger
}

func NewHandler(authService service.AuthService, records store.RemoteRecordRepository, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		authService: authService,
		records:     records,
		ids:         utils.NewUUIDGenerator(),
		logger:      logger,
	}
}
