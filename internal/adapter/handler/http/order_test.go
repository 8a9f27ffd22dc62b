package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MikeRez0/ypfulfillment/internal/adapter/config"
	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"github.com/MikeRez0/ypfulfillment/internal/core/port"
	"github.com/MikeRez0/ypfulfillment/internal/core/port/mock"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type prepareMocks func(svc *mock.MockService)

func newTestRouter(t *testing.T, ctrl *gomock.Controller, svc port.Service) *Router {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	tokens := mock.NewMockTokenService(ctrl)
	tokens.EXPECT().VerifyToken(gomock.Any()).DoAndReturn(func(token string) (*port.TokenPayload, error) {
		// test tokens are "<role>:<id>"
		role, id, ok := strings.Cut(token, ":")
		if !ok {
			return nil, domain.ErrInvalidToken
		}
		return &port.TokenPayload{ActorID: id, Role: domain.Role(role)}, nil
	}).AnyTimes()
	tokens.EXPECT().CreateToken(gomock.Any()).Return("issued", nil).AnyTimes()

	oh, err := NewOrderHandler(svc, logger)
	require.NoError(t, err)
	ah, err := NewActorHandler(tokens, logger)
	require.NoError(t, err)
	r, err := NewRouter(&config.HTTP{}, tokens, oh, ah, logger)
	require.NoError(t, err)
	return r
}

func sampleOrder() *domain.Order {
	o := &domain.Order{
		ID:            "o1",
		Number:        "20240101-000001",
		CustomerID:    "c1",
		BranchID:      "b2",
		PaymentMethod: domain.PaymentMethodCOD,
		ShippingFee:   decimal.MustParse("5"),
		TaxRate:       decimal.Zero,
		Lines: []domain.OrderLine{
			{ProductID: "p1", Quantity: 2, UnitPrice: decimal.MustParse("10.50")},
		},
	}
	_ = o.Recalculate()
	o.Open(domain.Actor{ID: "c1", Role: domain.RoleCustomer}, o.CreatedAt)
	return o
}

func TestOrderHandler(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	type handlerTest struct {
		name       string
		method     string
		path       string
		token      string
		body       string
		mock       prepareMocks
		expStatus  int
		expContain []string
	}

	tests := []handlerTest{
		{
			name:   "create order",
			method: http.MethodPost,
			path:   "/api/orders",
			token:  "CUSTOMER:c1",
			body:   `{"lines":[{"product_id":"p1","quantity":2}],"destination":{"lat":1,"lng":2},"payment_method":"COD"}`,
			mock: func(svc *mock.MockService) {
				svc.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ any, cmd domain.CreateOrderCommand) (*domain.Placement, error) {
						assert.Equal(t, "c1", cmd.CustomerID)
						assert.Equal(t, domain.Coordinates{Lat: 1, Lng: 2}, *cmd.Destination)
						return &domain.Placement{
							Order: sampleOrder(),
							Trail: []domain.TrailEntry{{BranchID: "b2", Satisfied: true}},
						}, nil
					})
			},
			expStatus:  http.StatusCreated,
			expContain: []string{`"total":26.00`, `"branch_id":"b2"`, `"satisfied":true`},
		},
		{
			name:   "create order with no branch returns trail",
			method: http.MethodPost,
			path:   "/api/orders",
			token:  "CUSTOMER:c1",
			body:   `{"lines":[{"product_id":"p1","quantity":2}],"shipping_address":"x","payment_method":"COD"}`,
			mock: func(svc *mock.MockService) {
				svc.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(nil, &domain.NoBranchAvailableError{
					Trail: []domain.TrailEntry{{BranchID: "b1", Shortages: "p1 (need 2, have 1)"}},
				})
			},
			expStatus:  http.StatusUnprocessableEntity,
			expContain: []string{`"trail"`, `need 2, have 1`},
		},
		{
			name:      "staff may not create orders",
			method:    http.MethodPost,
			path:      "/api/orders",
			token:     "DELIVERY:d1",
			body:      `{}`,
			mock:      func(svc *mock.MockService) {},
			expStatus: http.StatusForbidden,
		},
		{
			name:      "missing token",
			method:    http.MethodGet,
			path:      "/api/orders",
			mock:      func(svc *mock.MockService) {},
			expStatus: http.StatusUnauthorized,
		},
		{
			name:   "advance without proof",
			method: http.MethodPost,
			path:   "/api/orders/o1/status",
			token:  "DELIVERY:d1",
			body:   `{"status":"DELIVERED"}`,
			mock: func(svc *mock.MockService) {
				svc.EXPECT().AdvanceStatus(gomock.Any(), domain.AdvanceStatusCommand{
					OrderID: "o1",
					Target:  domain.OrderStatusDelivered,
					Actor:   domain.Actor{ID: "d1", Role: domain.RoleDelivery},
				}).Return(nil, domain.Reject(domain.ErrValidation, "missing delivery confirmation"))
			},
			expStatus:  http.StatusBadRequest,
			expContain: []string{"missing delivery confirmation"},
		},
		{
			name:   "illegal transition",
			method: http.MethodPost,
			path:   "/api/orders/o1/status",
			token:  "ADMIN:a1",
			body:   `{"status":"COMPLETED"}`,
			mock: func(svc *mock.MockService) {
				svc.EXPECT().AdvanceStatus(gomock.Any(), gomock.Any()).
					Return(nil, domain.Reject(domain.ErrIllegalTransition, "transition PACKING -> COMPLETED is not allowed"))
			},
			expStatus: http.StatusConflict,
		},
		{
			name:   "cancel without body",
			method: http.MethodPost,
			path:   "/api/orders/o1/cancel",
			token:  "CUSTOMER:c1",
			mock: func(svc *mock.MockService) {
				svc.EXPECT().CancelOrder(gomock.Any(), domain.CancelOrderCommand{OrderID: "o1", CustomerID: "c1"}).
					Return(sampleOrder(), nil)
			},
			expStatus: http.StatusOK,
		},
		{
			name:   "adjust line",
			method: http.MethodPatch,
			path:   "/api/orders/o1/lines/p1",
			token:  "CUSTOMER:c1",
			body:   `{"quantity":3}`,
			mock: func(svc *mock.MockService) {
				svc.EXPECT().AdjustLineQuantity(gomock.Any(), domain.AdjustLineQuantityCommand{
					OrderID: "o1", ProductID: "p1", NewQuantity: 3, CustomerID: "c1",
				}).Return(nil, domain.Reject(domain.ErrInsufficientStock, "branch b2 can not hold 1 more of p1"))
			},
			expStatus: http.StatusConflict,
		},
		{
			name:   "collaborator down",
			method: http.MethodGet,
			path:   "/api/orders/o1",
			token:  "FULFILLMENT:f1",
			mock: func(svc *mock.MockService) {
				svc.EXPECT().GetOrder(gomock.Any(), "o1", gomock.Any()).
					Return(nil, errors.Join(domain.ErrCollaboratorUnavailable, errors.New("dial tcp")))
			},
			expStatus: http.StatusServiceUnavailable,
		},
		{
			name:      "branch reassignment is admin only",
			method:    http.MethodPost,
			path:      "/api/orders/o1/branch",
			token:     "CUSTOMER:c1",
			body:      `{"branch_id":"b1"}`,
			mock:      func(svc *mock.MockService) {},
			expStatus: http.StatusForbidden,
		},
		{
			name:       "admin issues token",
			method:     http.MethodPost,
			path:       "/api/tokens",
			token:      "ADMIN:a1",
			body:       `{"actor_id":"courier-1","role":"DELIVERY"}`,
			mock:       func(svc *mock.MockService) {},
			expStatus:  http.StatusCreated,
			expContain: []string{`"token":"issued"`},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			svc := mock.NewMockService(mockCtrl)
			test.mock(svc)
			r := newTestRouter(t, mockCtrl, svc)

			req := httptest.NewRequest(test.method, test.path, strings.NewReader(test.body))
			if test.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			if test.token != "" {
				req.Header.Set(authHeaderKey, authType+" "+test.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, test.expStatus, w.Code, w.Body.String())
			for _, s := range test.expContain {
				assert.Contains(t, w.Body.String(), s)
			}
			if w.Code >= http.StatusBadRequest {
				var body map[string]any
				assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{domain.NewValidationError("lines", "cart is empty"), http.StatusBadRequest},
		{&domain.ReservationFailedError{ProductID: "p1", Cause: domain.ErrInsufficientStock}, http.StatusConflict},
		{&domain.ReservationFailedError{ProductID: "p1", Cause: domain.ErrCollaboratorUnavailable}, http.StatusConflict},
		{domain.Reject(domain.ErrForbidden, "nope"), http.StatusForbidden},
		{domain.ErrDataNotFound, http.StatusNotFound},
	}
	for _, test := range tests {
		status, ok := statusOf(test.err)
		assert.True(t, ok)
		assert.Equal(t, test.status, status, test.err.Error())
	}

	_, ok := statusOf(errors.New("unknown"))
	assert.False(t, ok)
}
