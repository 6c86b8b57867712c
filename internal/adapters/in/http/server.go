package http

import (
	"log/slog"
	"net/http"

	"pickingpacking/internal/core/application/usecases/commands"
	"pickingpacking/internal/core/application/usecases/queries"
	"pickingpacking/internal/core/domain/model/event"
	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/session"
	"pickingpacking/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Handlers groups the use cases the HTTP server dispatches to.
type Handlers struct {
	// Command handlers
	IngestOrder   commands.IngestOrderCommandHandler
	SubmitEvent   commands.SubmitEventCommandHandler
	AssignSession commands.AssignSessionCommandHandler
	ReportStep    commands.ReportStepCommandHandler
	ChangeSession commands.ChangeSessionCommandHandler

	// Query handlers
	GetOrderStatus     queries.GetOrderStatusQueryHandler
	GetHistory         queries.GetHistoryQueryHandler
	GetConnectorStatus queries.GetConnectorStatusQueryHandler
}

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	h      Handlers
	logger *slog.Logger
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(h Handlers, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{h: h, logger: logger}
}

// IngestOrder handles POST /api/v1/orders - registers a connector order in
// NEW_ORDER status.
func (s *Server) IngestOrder(ctx echo.Context) error {
	var req NewOrder
	if err := ctx.Bind(&req); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	var connectorID *kernel.UUID
	if req.ConnectorId != nil {
		id, err := toKernel(*req.ConnectorId)
		if err != nil {
			return s.fail(ctx, err)
		}
		connectorID = &id
	}

	lines := make([]commands.LineInput, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = commands.LineInput{
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			Location:    l.Location,
			Barcode:     deref(l.Barcode),
		}
	}

	cmd, err := commands.NewIngestOrderCommand(kernel.NewUUID(), connectorID, req.RemoteId, deref(req.ShippingInfo), lines)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err := s.h.IngestOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, Created{Id: cmd.OrderID().Bytes()})
}

// GetOrderStatus handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrderStatus(ctx echo.Context, orderId openapi_types.UUID) error {
	id, err := toKernel(orderId)
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewGetOrderStatusQuery(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	resp, err := s.h.GetOrderStatus.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	out := OrderStatus{
		Id:               resp.ID.Bytes(),
		ConnectorId:      fromKernel(resp.ConnectorID),
		RemoteId:         resp.RemoteID,
		ShippingInfo:     resp.ShippingInfo,
		Status:           resp.Status,
		OnHold:           resp.OnHold,
		PackingPrepared:  resp.PackingPrepared,
		PickingSessionId: fromKernel(resp.PickingSessionID),
		PackingSessionId: fromKernel(resp.PackingSessionID),
		CartSection:      resp.CartSection,
		PendingEvents:    resp.PendingEvents,
		Lines:            make([]Line, len(resp.Lines)),
	}
	for i, l := range resp.Lines {
		out.Lines[i] = Line{
			Id:          l.ID.Bytes(),
			ProductName: l.ProductName,
			Quantity:    l.Quantity.String(),
			Location:    l.Location,
			Barcode:     l.Barcode,
			Status:      l.Status,
		}
	}
	if last := resp.LastEvent; last != nil {
		out.LastEvent = &EventResult{
			Id:          last.ID.Bytes(),
			Type:        last.Type,
			Priority:    last.Priority,
			Result:      last.Result,
			Detail:      last.Detail,
			ProcessedAt: last.ProcessedAt,
		}
	}

	return ctx.JSON(http.StatusOK, out)
}

// SubmitEvent handles POST /api/v1/orders/{orderId}/events - queues an
// operational event. The event is applied later by the controller.
func (s *Server) SubmitEvent(ctx echo.Context, orderId openapi_types.UUID) error {
	var req NewEvent
	if err := ctx.Bind(&req); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	id, err := toKernel(orderId)
	if err != nil {
		return s.fail(ctx, err)
	}
	eventType, err := event.ParseType(req.Type)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewSubmitEventCommand(kernel.NewUUID(), id, eventType, deref(req.Priority), req.Payload)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err := s.h.SubmitEvent.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusAccepted, Created{Id: cmd.EventID().Bytes()})
}

// GetHistory handles GET /api/v1/orders/{orderId}/history.
func (s *Server) GetHistory(ctx echo.Context, orderId openapi_types.UUID) error {
	id, err := toKernel(orderId)
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewGetHistoryQuery(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	entries, err := s.h.GetHistory.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	out := make([]HistoryEntry, len(entries))
	for i, e := range entries {
		out[i] = HistoryEntry{
			Id:           e.ID.Bytes(),
			Seq:          e.Seq,
			CreatedAt:    e.CreatedAt,
			Description:  e.Description,
			StatusBefore: e.StatusBefore,
			StatusAfter:  e.StatusAfter,
			EventId:      fromKernel(e.EventID),
		}
	}
	return ctx.JSON(http.StatusOK, out)
}

// AssignSession handles POST /api/v1/orders/{orderId}/sessions - starts a
// picking or packing session right away, outside the event queue.
func (s *Server) AssignSession(ctx echo.Context, orderId openapi_types.UUID) error {
	var req NewSession
	if err := ctx.Bind(&req); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	id, err := toKernel(orderId)
	if err != nil {
		return s.fail(ctx, err)
	}
	kind, err := session.ParseKind(req.Kind)
	if err != nil {
		return s.fail(ctx, err)
	}
	var resourceID *kernel.UUID
	if req.ResourceId != nil {
		rid, err := toKernel(*req.ResourceId)
		if err != nil {
			return s.fail(ctx, err)
		}
		resourceID = &rid
	}

	cmd, err := commands.NewAssignSessionCommand(kernel.NewUUID(), id, kind, resourceID, req.User, req.CartSection)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err := s.h.AssignSession.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, Created{Id: cmd.SessionID().Bytes()})
}

// ReportStep handles POST /api/v1/sessions/{sessionId}/steps - records one
// picked or packed line.
func (s *Server) ReportStep(ctx echo.Context, sessionId openapi_types.UUID) error {
	var req Step
	if err := ctx.Bind(&req); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	id, err := toKernel(sessionId)
	if err != nil {
		return s.fail(ctx, err)
	}
	lineID, err := toKernel(req.LineId)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewReportStepCommand(id, lineID)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err := s.h.ReportStep.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// PauseSession handles POST /api/v1/sessions/{sessionId}/pause.
func (s *Server) PauseSession(ctx echo.Context, sessionId openapi_types.UUID) error {
	return s.changeSession(ctx, sessionId, commands.PauseSession, "")
}

// ResumeSession handles POST /api/v1/sessions/{sessionId}/resume.
func (s *Server) ResumeSession(ctx echo.Context, sessionId openapi_types.UUID) error {
	return s.changeSession(ctx, sessionId, commands.ResumeSession, "")
}

// CancelSession handles POST /api/v1/sessions/{sessionId}/cancel.
func (s *Server) CancelSession(ctx echo.Context, sessionId openapi_types.UUID) error {
	return s.changeSession(ctx, sessionId, commands.CancelSession, "")
}

// HandOffSession handles POST /api/v1/sessions/{sessionId}/handoff.
func (s *Server) HandOffSession(ctx echo.Context, sessionId openapi_types.UUID) error {
	var req HandOff
	if err := ctx.Bind(&req); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}
	return s.changeSession(ctx, sessionId, commands.HandOffSession, req.User)
}

func (s *Server) changeSession(
	ctx echo.Context,
	sessionId openapi_types.UUID,
	action commands.SessionAction,
	user string,
) error {
	id, err := toKernel(sessionId)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewChangeSessionCommand(id, action, user)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err := s.h.ChangeSession.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// GetConnectorStatus handles GET /api/v1/connectors/{connectorId}/status.
func (s *Server) GetConnectorStatus(ctx echo.Context, connectorId openapi_types.UUID) error {
	id, err := toKernel(connectorId)
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewGetConnectorStatusQuery(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	resp, err := s.h.GetConnectorStatus.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, ConnectorStatus{
		Id:      resp.ID.Bytes(),
		Name:    resp.Name,
		Status:  resp.Status,
		Command: resp.Command,
	})
}

func (s *Server) badRequest(ctx echo.Context, msg string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: msg})
}

func toKernel(id openapi_types.UUID) (kernel.UUID, error) {
	k, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	return k, nil
}

func fromKernel(id *kernel.UUID) *openapi_types.UUID {
	if id == nil {
		return nil
	}
	u := id.Bytes()
	return &u
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
