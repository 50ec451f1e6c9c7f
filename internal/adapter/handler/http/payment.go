package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"github.com/tmdt/furnishop/internal/core/domain"
	"github.com/tmdt/furnishop/internal/core/port"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	Handler
	service port.Service
}

func NewPaymentHandler(service port.Service, logger *zap.Logger) (*PaymentHandler, error) {
	return &PaymentHandler{
		Handler: Handler{logger: logger},
		service: service,
	}, nil
}

// PayOrder creates a gateway payment for an existing unpaid order and
// returns the redirect URL the client should open.
func (ph *PaymentHandler) PayOrder(ctx *gin.Context) {
	orderID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ph.handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	userID := getAuthPayload(ctx).UserID

	payment, err := ph.service.PayOrder(ctx, orderID, userID)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccess(ctx, paymentResponse{
		PayURL:    payment.PayURL,
		OrderRef:  payment.OrderRef,
		RequestID: payment.RequestID,
		Amount:    payment.Amount,
	})
}

type ipnRequest struct {
	OrderID    string `json:"orderId"`
	RequestID  string `json:"requestId"`
	ResultCode int    `json:"resultCode"`
	TransID    int64  `json:"transId"`
	Amount     int64  `json:"amount"`
	Message    string `json:"message"`
}

// Notify receives the gateway IPN. The gateway retries on anything other
// than a 2xx, so the endpoint acknowledges with 204 even when internal
// processing fails; failures are logged and settled by replayed deliveries.
func (ph *PaymentHandler) Notify(ctx *gin.Context) {
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		ph.logger.Error("reading gateway notification body", zap.Error(err))
		ctx.Status(http.StatusNoContent)
		return
	}

	req := ipnRequest{}
	if err := json.Unmarshal(body, &req); err != nil {
		ph.logger.Error("decoding gateway notification", zap.Error(err),
			zap.ByteString("body", body))
		ctx.Status(http.StatusNoContent)
		return
	}

	amount, err := decimal.New(req.Amount, 0)
	if err != nil {
		ph.logger.Error("gateway notification amount out of range",
			zap.Int64("amount", req.Amount))
		ctx.Status(http.StatusNoContent)
		return
	}

	cb := &domain.GatewayCallback{
		OrderRef:   req.OrderID,
		RequestID:  req.RequestID,
		ResultCode: req.ResultCode,
		TransID:    strconv.FormatInt(req.TransID, 10),
		Amount:     amount,
		Raw:        string(body),
	}

	if err := ph.service.HandleGatewayCallback(ctx, cb); err != nil {
		ph.logger.Error("processing gateway notification", zap.Error(err),
			zap.String("order_ref", cb.OrderRef),
			zap.String("request_id", cb.RequestID),
			zap.Int("result_code", cb.ResultCode))
	}

	ctx.Status(http.StatusNoContent)
}
