package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"github.com/tmdt/furnishop/internal/core/domain"
	"github.com/tmdt/furnishop/internal/core/port"
	"go.uber.org/zap"
)

type CartHandler struct {
	Handler
	service port.Service
}

func NewCartHandler(service port.Service, logger *zap.Logger) (*CartHandler, error) {
	return &CartHandler{
		Handler: Handler{logger: logger},
		service: service,
	}, nil
}

type cartItemResponse struct {
	ID          uint64          `json:"id"`
	ProductID   uint64          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int32           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func (ch *CartHandler) GetCart(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	items, err := ch.service.GetCart(ctx, userID)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	result := make([]cartItemResponse, 0, len(items))
	for _, i := range items {
		result = append(result, cartItemResponse{
			ID:          i.ID,
			ProductID:   i.ProductID,
			ProductName: i.ProductName,
			Quantity:    i.Quantity,
			UnitPrice:   i.UnitPrice,
		})
	}

	ch.handleSuccess(ctx, result)
}

type addToCartRequest struct {
	ProductID uint64 `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

func (ch *CartHandler) AddToCart(ctx *gin.Context) {
	req := addToCartRequest{}
	err := ctx.ShouldBindBodyWithJSON(&req)
	if err != nil {
		ch.handleValidationError(ctx, err)
		return
	}

	userID := getAuthPayload(ctx).UserID

	item, err := ch.service.AddToCart(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	ch.handleSuccessWithStatus(ctx, cartItemResponse{
		ID:          item.ID,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
	}, http.StatusCreated)
}

type voucherPreviewResponse struct {
	Code     string          `json:"code"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
}

// PreviewVoucher prices a voucher against the caller's current cart without
// redeeming it. The authoritative usage guard still runs at checkout.
func (ch *CartHandler) PreviewVoucher(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	items, err := ch.service.GetCart(ctx, userID)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}
	if len(items) == 0 {
		ch.handleError(ctx, domain.ErrEmptyCart)
		return
	}

	subtotal := decimal.Zero
	for i := range items {
		lineTotal, err := items[i].TotalPrice()
		if err != nil {
			ch.handleError(ctx, domain.ErrInternal)
			return
		}
		subtotal, err = subtotal.Add(lineTotal)
		if err != nil {
			ch.handleError(ctx, domain.ErrInternal)
			return
		}
	}

	code := ctx.Param("code")
	discount, err := ch.service.PreviewVoucher(ctx, code, subtotal)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	ch.handleSuccess(ctx, voucherPreviewResponse{
		Code:     code,
		Subtotal: subtotal,
		Discount: discount,
	})
}

func (ch *CartHandler) RemoveFromCart(ctx *gin.Context) {
	itemID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ch.handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	userID := getAuthPayload(ctx).UserID

	err = ch.service.RemoveFromCart(ctx, userID, itemID)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	ch.handleSuccessWithStatus(ctx, nil, http.StatusNoContent)
}
