package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	api "pickingpacking/internal/adapters/in/http"
	"pickingpacking/internal/adapters/out/memory"
	"pickingpacking/internal/core/application/controller"
	"pickingpacking/internal/core/application/usecases/commands"
	"pickingpacking/internal/core/application/usecases/queries"
	"pickingpacking/internal/core/domain/model/connector"
	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/resource"
	"pickingpacking/internal/core/ports"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uowFactory struct{ ports.UnitOfWorkFactory }

func (f uowFactory) Create() commands.UoW { return f.UnitOfWorkFactory.Create() }

type eventUoWFactory struct{ ports.UnitOfWorkFactory }

func (f eventUoWFactory) Create() commands.EventUoW { return f.UnitOfWorkFactory.Create() }

type ingestUoWFactory struct{ ports.UnitOfWorkFactory }

func (f ingestUoWFactory) Create() commands.IngestUoW { return f.UnitOfWorkFactory.Create() }

type testAPI struct {
	t     *testing.T
	e     *echo.Echo
	store ports.UnitOfWorkFactory
	ctrl  *controller.Controller
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := memory.NewUnitOfWorkFactory(memory.NewStore())
	clock := kernel.NewClock(kernel.NewAtomicSequence(0), kernel.WithNow(func() time.Time {
		return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	}))
	recorder := commands.NewHistoryRecorder(clock, nil)
	feed := commands.NewStatusFeed(memory.NewStatusFeed(), nil)
	ctrl := controller.New(store, commands.NewProcessOrderEventsCommandHandler(uowFactory{store}, recorder, feed))

	server := api.NewServer(api.Handlers{
		IngestOrder:        commands.NewIngestOrderCommandHandler(ingestUoWFactory{store}, recorder),
		SubmitEvent:        commands.NewSubmitEventCommandHandler(eventUoWFactory{store}, clock, ctrl),
		AssignSession:      commands.NewAssignSessionCommandHandler(uowFactory{store}, recorder, feed),
		ReportStep:         commands.NewReportStepCommandHandler(uowFactory{store}, recorder, feed, ctrl),
		ChangeSession:      commands.NewChangeSessionCommandHandler(uowFactory{store}, recorder, feed, ctrl),
		GetOrderStatus:     queries.NewGetOrderStatusQueryHandler(store),
		GetHistory:         queries.NewGetHistoryQueryHandler(store),
		GetConnectorStatus: queries.NewGetConnectorStatusQueryHandler(store),
	}, nil)

	e, err := api.NewRouter(server)
	require.NoError(t, err)
	return &testAPI{t: t, e: e, store: store, ctrl: ctrl}
}

func (a *testAPI) do(method, path, body string) *httptest.ResponseRecorder {
	a.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (a *testAPI) ingest(remoteID string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/v1/orders", `{
		"remoteId": "`+remoteID+`",
		"shippingInfo": "Main St 1",
		"lines": [
			{"productName": "Desk lamp", "quantity": "1", "location": 12},
			{"productName": "Bulb", "quantity": "2.5", "location": 3, "barcode": "4006381333931"}
		]
	}`)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[api.Created](a.t, rec).Id.String()
}

func (a *testAPI) status(orderID string) api.OrderStatus {
	a.t.Helper()
	rec := a.do(http.MethodGet, "/api/v1/orders/"+orderID, "")
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[api.OrderStatus](a.t, rec)
}

func (a *testAPI) addCart(name string) kernel.UUID {
	a.t.Helper()
	cart, err := resource.NewPickCart(kernel.NewUUID(), name, 4)
	require.NoError(a.t, err)

	uow := a.store.Create()
	require.NoError(a.t, uow.Begin(a.t.Context()))
	require.NoError(a.t, uow.ResourceRepository().Add(a.t.Context(), cart))
	require.NoError(a.t, uow.Commit(a.t.Context()))
	return cart.ID()
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIngestOrder_ThenGetOrderStatus(t *testing.T) {
	a := newTestAPI(t)

	id := a.ingest("AMZ-1001")
	got := a.status(id)

	assert.Equal(t, "NEW_ORDER", got.Status)
	assert.Equal(t, "AMZ-1001", got.RemoteId)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, "Desk lamp", got.Lines[0].ProductName)
	assert.Equal(t, "2.5", got.Lines[1].Quantity)
	assert.Nil(t, got.LastEvent)
	assert.Zero(t, got.PendingEvents)
}

func TestIngestOrder_DuplicateRemoteIDIsConflict(t *testing.T) {
	a := newTestAPI(t)
	a.ingest("AMZ-1001")

	rec := a.do(http.MethodPost, "/api/v1/orders", `{"remoteId": "AMZ-1001", "lines": []}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestIngestOrder_UnknownConnectorIsNotFound(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodPost, "/api/v1/orders",
		`{"connectorId": "`+kernel.NewUUID().String()+`", "remoteId": "AMZ-1", "lines": []}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIngestOrder_RejectedByDocument(t *testing.T) {
	a := newTestAPI(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing remote id", `{"lines": []}`},
		{"empty product name", `{"remoteId": "R", "lines": [{"productName": "", "quantity": "1", "location": 1}]}`},
		{"negative location", `{"remoteId": "R", "lines": [{"productName": "A", "quantity": "1", "location": -1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(http.MethodPost, "/api/v1/orders", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, http.StatusBadRequest, decode[api.Error](t, rec).Code)
		})
	}
}

func TestGetOrderStatus_Errors(t *testing.T) {
	a := newTestAPI(t)

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/api/v1/orders/not-a-uuid", "").Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/v1/orders/"+kernel.NewUUID().String(), "").Code)
}

func TestSubmitEvent_CancelIsAppliedByController(t *testing.T) {
	a := newTestAPI(t)
	id := a.ingest("AMZ-1001")

	rec := a.do(http.MethodPost, "/api/v1/orders/"+id+"/events", `{"type": "CANCEL", "priority": 10}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	eventID := decode[api.Created](t, rec).Id
	assert.Equal(t, 1, a.status(id).PendingEvents)

	_, err := a.ctrl.RunPass(t.Context())
	require.NoError(t, err)

	got := a.status(id)
	assert.Equal(t, "CANCELED", got.Status)
	assert.Zero(t, got.PendingEvents)
	require.NotNil(t, got.LastEvent)
	assert.Equal(t, eventID, got.LastEvent.Id)
	assert.Equal(t, "CANCEL", got.LastEvent.Type)
	assert.Equal(t, "APPLIED", got.LastEvent.Result)

	history := decode[[]api.HistoryEntry](t, a.do(http.MethodGet, "/api/v1/orders/"+id+"/history", ""))
	require.NotEmpty(t, history)
	last := history[len(history)-1]
	assert.Equal(t, "CANCELED", last.StatusAfter)
	require.NotNil(t, last.EventId)
	assert.Equal(t, eventID, *last.EventId)
}

func TestSubmitEvent_Errors(t *testing.T) {
	a := newTestAPI(t)
	id := a.ingest("AMZ-1001")

	assert.Equal(t, http.StatusBadRequest,
		a.do(http.MethodPost, "/api/v1/orders/"+id+"/events", `{"type": "TELEPORT"}`).Code)
	assert.Equal(t, http.StatusNotFound,
		a.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/events", `{"type": "HOLD"}`).Code)
}

func TestAssignSession_NoFreeCartIsUnavailable(t *testing.T) {
	a := newTestAPI(t)
	id := a.ingest("AMZ-1001")

	rec := a.do(http.MethodPost, "/api/v1/orders/"+id+"/sessions", `{"kind": "PICKING", "user": "alice"}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "NEW_ORDER", a.status(id).Status)
}

func TestPickingFlow(t *testing.T) {
	a := newTestAPI(t)
	a.addCart("cart-01")
	id := a.ingest("AMZ-1001")

	rec := a.do(http.MethodPost, "/api/v1/orders/"+id+"/sessions", `{"kind": "PICKING", "user": "alice", "cartSection": 2}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sessionID := decode[api.Created](t, rec).Id.String()

	got := a.status(id)
	assert.Equal(t, "PICKING_IN_PROGRESS", got.Status)
	require.NotNil(t, got.PickingSessionId)
	assert.Equal(t, sessionID, got.PickingSessionId.String())
	require.NotNil(t, got.CartSection)
	assert.Equal(t, 2, *got.CartSection)

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodPost, "/api/v1/sessions/"+sessionID+"/pause", "").Code)
	assert.Equal(t, http.StatusConflict, a.do(http.MethodPost, "/api/v1/sessions/"+sessionID+"/pause", "").Code)
	assert.Equal(t, http.StatusNoContent, a.do(http.MethodPost, "/api/v1/sessions/"+sessionID+"/resume", "").Code)
	assert.Equal(t, http.StatusNoContent,
		a.do(http.MethodPost, "/api/v1/sessions/"+sessionID+"/handoff", `{"user": "bob"}`).Code)

	for _, l := range got.Lines {
		rec = a.do(http.MethodPost, "/api/v1/sessions/"+sessionID+"/steps", `{"lineId": "`+l.Id.String()+`"}`)
		require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	}

	got = a.status(id)
	assert.Equal(t, "PICKING_COMPLETED", got.Status)
	for _, l := range got.Lines {
		assert.Equal(t, "PICKED", l.Status)
	}

	assert.Equal(t, http.StatusConflict, a.do(http.MethodPost, "/api/v1/sessions/"+sessionID+"/cancel", "").Code)
}

func TestSessionOperations_UnknownSession(t *testing.T) {
	a := newTestAPI(t)
	sessionID := kernel.NewUUID().String()

	for _, action := range []string{"pause", "resume", "cancel"} {
		assert.Equal(t, http.StatusNotFound, a.do(http.MethodPost, "/api/v1/sessions/"+sessionID+"/"+action, "").Code, action)
	}
	assert.Equal(t, http.StatusNotFound,
		a.do(http.MethodPost, "/api/v1/sessions/"+sessionID+"/steps", `{"lineId": "`+kernel.NewUUID().String()+`"}`).Code)
	assert.Equal(t, http.StatusBadRequest,
		a.do(http.MethodPost, "/api/v1/sessions/"+sessionID+"/handoff", `{"user": ""}`).Code)
}

func TestGetConnectorStatus(t *testing.T) {
	a := newTestAPI(t)
	c, err := connector.NewConnector(kernel.NewUUID(), "amazon")
	require.NoError(t, err)
	uow := a.store.Create()
	require.NoError(t, uow.Begin(t.Context()))
	require.NoError(t, uow.ConnectorRepository().Add(t.Context(), c))
	require.NoError(t, uow.Commit(t.Context()))

	rec := a.do(http.MethodGet, "/api/v1/connectors/"+c.ID().String()+"/status", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[api.ConnectorStatus](t, rec)
	assert.Equal(t, "amazon", got.Name)
	assert.Equal(t, c.Status().String(), got.Status)

	assert.Equal(t, http.StatusNotFound,
		a.do(http.MethodGet, "/api/v1/connectors/"+kernel.NewUUID().String()+"/status", "").Code)
}
