package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"github.com/tmdt/furnishop/internal/core/port"
	"go.uber.org/zap"
)

type WalletHandler struct {
	Handler
	service port.Service
}

func NewWalletHandler(service port.Service, logger *zap.Logger) (*WalletHandler, error) {
	return &WalletHandler{
		Handler: Handler{logger: logger},
		service: service,
	}, nil
}

type walletResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

func (wh *WalletHandler) GetWallet(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	wallet, err := wh.service.GetWallet(ctx, userID)
	if err != nil {
		wh.handleError(ctx, err)
		return
	}

	wh.handleSuccess(ctx, walletResponse{Balance: wallet.Balance})
}

type transactionResponse struct {
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	OrderCode   string          `json:"order_code,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (wh *WalletHandler) ListTransactions(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	list, err := wh.service.ListWalletTransactions(ctx, userID)
	if err != nil {
		wh.handleError(ctx, err)
		return
	}

	result := make([]transactionResponse, 0, len(list))
	for _, tr := range list {
		result = append(result, transactionResponse{
			Amount:      tr.Amount,
			Type:        string(tr.Type),
			Description: tr.Description,
			OrderCode:   tr.OrderCode,
			CreatedAt:   tr.CreatedAt,
		})
	}

	wh.handleSuccess(ctx, result)
}

type topUpRequest struct {
	Sum float64 `json:"sum"`
}

type paymentResponse struct {
	PayURL    string          `json:"pay_url"`
	OrderRef  string          `json:"order_ref"`
	RequestID string          `json:"request_id"`
	Amount    decimal.Decimal `json:"amount"`
}

func (wh *WalletHandler) TopUp(ctx *gin.Context) {
	req := topUpRequest{}
	err := ctx.ShouldBindBodyWithJSON(&req)
	if err != nil {
		wh.handleValidationError(ctx, err)
		return
	}

	amount, err := decimal.NewFromFloat64(req.Sum)
	if err != nil {
		wh.handleValidationError(ctx, err)
		return
	}

	userID := getAuthPayload(ctx).UserID

	payment, err := wh.service.TopUpWallet(ctx, userID, amount)
	if err != nil {
		wh.handleError(ctx, err)
		return
	}

	wh.handleSuccess(ctx, paymentResponse{
		PayURL:    payment.PayURL,
		OrderRef:  payment.OrderRef,
		RequestID: payment.RequestID,
		Amount:    payment.Amount,
	})
}
