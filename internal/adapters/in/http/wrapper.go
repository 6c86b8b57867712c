package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (POST /api/v1/orders)
	IngestOrder(ctx echo.Context) error
	// (GET /api/v1/orders/{orderId})
	GetOrderStatus(ctx echo.Context, orderId openapi_types.UUID) error
	// (POST /api/v1/orders/{orderId}/events)
	SubmitEvent(ctx echo.Context, orderId openapi_types.UUID) error
	// (GET /api/v1/orders/{orderId}/history)
	GetHistory(ctx echo.Context, orderId openapi_types.UUID) error
	// (POST /api/v1/orders/{orderId}/sessions)
	AssignSession(ctx echo.Context, orderId openapi_types.UUID) error
	// (POST /api/v1/sessions/{sessionId}/steps)
	ReportStep(ctx echo.Context, sessionId openapi_types.UUID) error
	// (POST /api/v1/sessions/{sessionId}/pause)
	PauseSession(ctx echo.Context, sessionId openapi_types.UUID) error
	// (POST /api/v1/sessions/{sessionId}/resume)
	ResumeSession(ctx echo.Context, sessionId openapi_types.UUID) error
	// (POST /api/v1/sessions/{sessionId}/cancel)
	CancelSession(ctx echo.Context, sessionId openapi_types.UUID) error
	// (POST /api/v1/sessions/{sessionId}/handoff)
	HandOffSession(ctx echo.Context, sessionId openapi_types.UUID) error
	// (GET /api/v1/connectors/{connectorId}/status)
	GetConnectorStatus(ctx echo.Context, connectorId openapi_types.UUID) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func bindUUID(ctx echo.Context, name string) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return id, nil
}

// IngestOrder converts echo context to params.
func (w *ServerInterfaceWrapper) IngestOrder(ctx echo.Context) error {
	return w.Handler.IngestOrder(ctx)
}

// GetOrderStatus converts echo context to params.
func (w *ServerInterfaceWrapper) GetOrderStatus(ctx echo.Context) error {
	orderId, err := bindUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.GetOrderStatus(ctx, orderId)
}

// SubmitEvent converts echo context to params.
func (w *ServerInterfaceWrapper) SubmitEvent(ctx echo.Context) error {
	orderId, err := bindUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.SubmitEvent(ctx, orderId)
}

// GetHistory converts echo context to params.
func (w *ServerInterfaceWrapper) GetHistory(ctx echo.Context) error {
	orderId, err := bindUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.GetHistory(ctx, orderId)
}

// AssignSession converts echo context to params.
func (w *ServerInterfaceWrapper) AssignSession(ctx echo.Context) error {
	orderId, err := bindUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.AssignSession(ctx, orderId)
}

// ReportStep converts echo context to params.
func (w *ServerInterfaceWrapper) ReportStep(ctx echo.Context) error {
	sessionId, err := bindUUID(ctx, "sessionId")
	if err != nil {
		return err
	}
	return w.Handler.ReportStep(ctx, sessionId)
}

// PauseSession converts echo context to params.
func (w *ServerInterfaceWrapper) PauseSession(ctx echo.Context) error {
	sessionId, err := bindUUID(ctx, "sessionId")
	if err != nil {
		return err
	}
	return w.Handler.PauseSession(ctx, sessionId)
}

// ResumeSession converts echo context to params.
func (w *ServerInterfaceWrapper) ResumeSession(ctx echo.Context) error {
	sessionId, err := bindUUID(ctx, "sessionId")
	if err != nil {
		return err
	}
	return w.Handler.ResumeSession(ctx, sessionId)
}

// CancelSession converts echo context to params.
func (w *ServerInterfaceWrapper) CancelSession(ctx echo.Context) error {
	sessionId, err := bindUUID(ctx, "sessionId")
	if err != nil {
		return err
	}
	return w.Handler.CancelSession(ctx, sessionId)
}

// HandOffSession converts echo context to params.
func (w *ServerInterfaceWrapper) HandOffSession(ctx echo.Context) error {
	sessionId, err := bindUUID(ctx, "sessionId")
	if err != nil {
		return err
	}
	return w.Handler.HandOffSession(ctx, sessionId)
}

// GetConnectorStatus converts echo context to params.
func (w *ServerInterfaceWrapper) GetConnectorStatus(ctx echo.Context) error {
	connectorId, err := bindUUID(ctx, "connectorId")
	if err != nil {
		return err
	}
	return w.Handler.GetConnectorStatus(ctx, connectorId)
}

// EchoRouter is the subset of *echo.Echo and *echo.Group used for
// registration.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers the handlers, prepending baseURL to
// every path.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	w := ServerInterfaceWrapper{Handler: si}

	router.POST(baseURL+"/api/v1/orders", w.IngestOrder)
	router.GET(baseURL+"/api/v1/orders/:orderId", w.GetOrderStatus)
	router.POST(baseURL+"/api/v1/orders/:orderId/events", w.SubmitEvent)
	router.GET(baseURL+"/api/v1/orders/:orderId/history", w.GetHistory)
	router.POST(baseURL+"/api/v1/orders/:orderId/sessions", w.AssignSession)
	router.POST(baseURL+"/api/v1/sessions/:sessionId/steps", w.ReportStep)
	router.POST(baseURL+"/api/v1/sessions/:sessionId/pause", w.PauseSession)
	router.POST(baseURL+"/api/v1/sessions/:sessionId/resume", w.ResumeSession)
	router.POST(baseURL+"/api/v1/sessions/:sessionId/cancel", w.CancelSession)
	router.POST(baseURL+"/api/v1/sessions/:sessionId/handoff", w.HandOffSession)
	router.GET(baseURL+"/api/v1/connectors/:connectorId/status", w.GetConnectorStatus)
}
