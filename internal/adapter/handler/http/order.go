package http

import (
	"net/http"

	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"github.com/MikeRez0/ypfulfillment/internal/core/port"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderHandler struct {
	Handler
	service port.Service
}

func NewOrderHandler(service port.Service, logger *zap.Logger) (*OrderHandler, error) {
	return &OrderHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type CreateOrderReq struct {
	Lines []struct {
		ProductID string `json:"product_id"`
		Quantity  int64  `json:"quantity"`
	} `json:"lines"`
	ShippingAddress string           `json:"shipping_address"`
	Destination     *coordinatesBody `json:"destination"`
	PaymentMethod   string           `json:"payment_method"`
	PromotionID     string           `json:"promotion_id"`
}

func (oh *OrderHandler) CreateOrder(ctx *gin.Context) {
	req := CreateOrderReq{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	cmd := domain.CreateOrderCommand{
		CustomerID:      getActor(ctx).ID,
		Lines:           make([]domain.CreateOrderLine, 0, len(req.Lines)),
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   domain.PaymentMethod(req.PaymentMethod),
		PromotionID:     req.PromotionID,
	}
	for _, l := range req.Lines {
		cmd.Lines = append(cmd.Lines, domain.CreateOrderLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	if req.Destination != nil {
		cmd.Destination = &domain.Coordinates{Lat: req.Destination.Lat, Lng: req.Destination.Lng}
	}

	placement, err := oh.service.CreateOrder(ctx.Request.Context(), cmd)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccessWithStatus(ctx, PlacementResp{
		Order: newOrderResp(placement.Order, true),
		Trail: placement.Trail,
	}, http.StatusCreated)
}

func (oh *OrderHandler) ListOrders(ctx *gin.Context) {
	list, err := oh.service.ListCustomerOrders(ctx.Request.Context(), getActor(ctx).ID)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	result := make([]OrderResp, 0, len(list))
	for _, o := range list {
		result = append(result, newOrderResp(o, false))
	}
	oh.handleSuccess(ctx, result)
}

func (oh *OrderHandler) GetOrder(ctx *gin.Context) {
	order, err := oh.service.GetOrder(ctx.Request.Context(), ctx.Param("id"), getActor(ctx))
	if err != nil {
		oh.handleError(ctx, err)
		return
	}
	oh.handleSuccess(ctx, newOrderResp(order, true))
}

type AdvanceStatusReq struct {
	Status        string `json:"status"`
	DeliveryProof string `json:"delivery_proof"`
	Note          string `json:"note"`
}

func (oh *OrderHandler) AdvanceStatus(ctx *gin.Context) {
	req := AdvanceStatusReq{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := oh.service.AdvanceStatus(ctx.Request.Context(), domain.AdvanceStatusCommand{
		OrderID:       ctx.Param("id"),
		Target:        domain.OrderStatus(req.Status),
		Actor:         getActor(ctx),
		DeliveryProof: req.DeliveryProof,
		Note:          req.Note,
	})
	if err != nil {
		oh.handleError(ctx, err)
		return
	}
	oh.handleSuccess(ctx, newOrderResp(order, true))
}

type ForceStatusReq struct {
	Status        string `json:"status"`
	Justification string `json:"justification"`
}

func (oh *OrderHandler) ForceStatus(ctx *gin.Context) {
	req := ForceStatusReq{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := oh.service.ForceStatus(ctx.Request.Context(), domain.ForceStatusCommand{
		OrderID:       ctx.Param("id"),
		Target:        domain.OrderStatus(req.Status),
		Actor:         getActor(ctx),
		Justification: req.Justification,
	})
	if err != nil {
		oh.handleError(ctx, err)
		return
	}
	oh.handleSuccess(ctx, newOrderResp(order, true))
}

type CancelOrderReq struct {
	Reason string `json:"reason"`
}

func (oh *OrderHandler) CancelOrder(ctx *gin.Context) {
	req := CancelOrderReq{}
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			oh.handleValidationError(ctx, err)
			return
		}
	}

	order, err := oh.service.CancelOrder(ctx.Request.Context(), domain.CancelOrderCommand{
		OrderID:    ctx.Param("id"),
		CustomerID: getActor(ctx).ID,
		Reason:     req.Reason,
	})
	if err != nil {
		oh.handleError(ctx, err)
		return
	}
	oh.handleSuccess(ctx, newOrderResp(order, true))
}

type AdjustLineReq struct {
	Quantity int64 `json:"quantity"`
}

func (oh *OrderHandler) AdjustLineQuantity(ctx *gin.Context) {
	req := AdjustLineReq{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := oh.service.AdjustLineQuantity(ctx.Request.Context(), domain.AdjustLineQuantityCommand{
		OrderID:     ctx.Param("id"),
		ProductID:   ctx.Param("product"),
		NewQuantity: req.Quantity,
		CustomerID:  getActor(ctx).ID,
	})
	if err != nil {
		oh.handleError(ctx, err)
		return
	}
	oh.handleSuccess(ctx, newOrderResp(order, false))
}

type AssignBranchReq struct {
	BranchID      string `json:"branch_id"`
	Justification string `json:"justification"`
}

func (oh *OrderHandler) AssignBranch(ctx *gin.Context) {
	req := AssignBranchReq{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := oh.service.AssignBranch(ctx.Request.Context(), domain.AssignBranchCommand{
		OrderID:       ctx.Param("id"),
		BranchID:      req.BranchID,
		Actor:         getActor(ctx),
		Justification: req.Justification,
	})
	if err != nil {
		oh.handleError(ctx, err)
		return
	}
	oh.handleSuccess(ctx, newOrderResp(order, true))
}
