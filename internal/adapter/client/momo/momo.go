package momo

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/tmdt/furnishop/internal/adapter/config"
	"github.com/tmdt/furnishop/internal/core/domain"
	"github.com/tmdt/furnishop/internal/core/port"
	"go.uber.org/zap"
)

const requestType = "captureWallet"

type Client struct {
	cfg        *config.Gateway
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(cfg *config.Gateway, log *zap.Logger) (*Client, error) {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log,
	}, nil
}

type captureRequest struct {
	PartnerCode string `json:"partnerCode"`
	PartnerName string `json:"partnerName"`
	StoreID     string `json:"storeId"`
	RequestID   string `json:"requestId"`
	Amount      string `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	RedirectURL string `json:"redirectUrl"`
	IPNURL      string `json:"ipnUrl"`
	Lang        string `json:"lang"`
	ExtraData   string `json:"extraData"`
	RequestType string `json:"requestType"`
	Signature   string `json:"signature"`
}

type captureResponse struct {
	ResultCode int    `json:"resultCode"`
	PayURL     string `json:"payUrl"`
	TransID    int64  `json:"transId"`
	Message    string `json:"message"`
}

// rawSignature builds the canonical signing string: a fixed set of key=value
// pairs joined in lexicographic key order. The gateway rejects any other
// ordering.
func rawSignature(cfg *config.Gateway, requestID, orderID, orderInfo, amount string) string {
	return "accessKey=" + cfg.AccessKey +
		"&amount=" + amount +
		"&extraData=" +
		"&ipnUrl=" + cfg.IPNURL +
		"&orderId=" + orderID +
		"&orderInfo=" + orderInfo +
		"&partnerCode=" + cfg.PartnerCode +
		"&redirectUrl=" + cfg.RedirectURL +
		"&requestId=" + requestID +
		"&requestType=" + requestType
}

func sign(secretKey, raw string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

// CreatePayment submits a signed capture-wallet request. The amount is sent
// as an integer string (the gateway settles whole currency units only).
// A non-zero result code surfaces as ErrGatewayDeclined with the gateway's
// message verbatim.
func (c *Client) CreatePayment(ctx context.Context, req *port.GatewayRequest) (*port.GatewayResponse, error) {
	amount := req.Amount.Trunc(0).String()

	raw := rawSignature(c.cfg, req.RequestID, req.OrderRef, req.OrderInfo, amount)

	body := captureRequest{
		PartnerCode: c.cfg.PartnerCode,
		PartnerName: c.cfg.PartnerName,
		StoreID:     c.cfg.StoreID,
		RequestID:   req.RequestID,
		Amount:      amount,
		OrderID:     req.OrderRef,
		OrderInfo:   req.OrderInfo,
		RedirectURL: c.cfg.RedirectURL,
		IPNURL:      c.cfg.IPNURL,
		Lang:        "vi",
		ExtraData:   "",
		RequestType: requestType,
		Signature:   sign(c.cfg.SecretKey, raw),
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug("fire capture request",
		zap.String("ref", req.OrderRef),
		zap.String("purpose", string(req.Purpose)))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrGatewayUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("unexpected status from gateway",
			zap.String("ref", req.OrderRef), zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", domain.ErrGatewayUnavailable, resp.StatusCode)
	}

	var result captureResponse
	err = json.NewDecoder(resp.Body).Decode(&result)
	if err != nil {
		return nil, fmt.Errorf("error on response decode: %w", err)
	}

	if result.ResultCode != 0 {
		c.logger.Warn("gateway declined capture request",
			zap.String("ref", req.OrderRef),
			zap.Int("result_code", result.ResultCode),
			zap.String("message", result.Message))
		return nil, fmt.Errorf("%w: %s (code %d)", domain.ErrGatewayDeclined, result.Message, result.ResultCode)
	}

	return &port.GatewayResponse{
		ResultCode: result.ResultCode,
		PayURL:     result.PayURL,
		TransID:    strconv.FormatInt(result.TransID, 10),
		Message:    result.Message,
	}, nil
}
