package momo_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmdt/furnishop/internal/adapter/client/momo"
	"github.com/tmdt/furnishop/internal/adapter/config"
	"github.com/tmdt/furnishop/internal/core/domain"
	"github.com/tmdt/furnishop/internal/core/port"
	"go.uber.org/zap"
)

func testConfig(endpoint string) *config.Gateway {
	return &config.Gateway{
		PartnerCode: "PARTNER",
		PartnerName: "Furnishop",
		StoreID:     "FurnishopStore",
		AccessKey:   "access-key",
		SecretKey:   "secret-key",
		Endpoint:    endpoint,
		RedirectURL: "https://shop.example/return",
		IPNURL:      "https://shop.example/api/payment/notify",
	}
}

func expectedSignature(cfg *config.Gateway, requestID, orderID, orderInfo, amount string) string {
	raw := "accessKey=" + cfg.AccessKey +
		"&amount=" + amount +
		"&extraData=" +
		"&ipnUrl=" + cfg.IPNURL +
		"&orderId=" + orderID +
		"&orderInfo=" + orderInfo +
		"&partnerCode=" + cfg.PartnerCode +
		"&redirectUrl=" + cfg.RedirectURL +
		"&requestId=" + requestID +
		"&requestType=captureWallet"

	mac := hmac.New(sha256.New, []byte(cfg.SecretKey))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestClient_CreatePayment(t *testing.T) {
	logger, _ := zap.NewProduction()

	t.Run("signs and submits the capture request", func(t *testing.T) {
		var got map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"resultCode":0,"payUrl":"https://pay.example/1","transId":123456,"message":"Success"}`))
		}))
		defer server.Close()

		cfg := testConfig(server.URL)
		client, err := momo.NewClient(cfg, logger)
		require.NoError(t, err)

		resp, err := client.CreatePayment(context.Background(), &port.GatewayRequest{
			RequestID: "req-1",
			OrderRef:  "ORD1",
			OrderInfo: "order payment ORD1",
			Amount:    decimal.MustParse("300000"),
			Purpose:   domain.PaymentPurposeOrder,
		})
		require.NoError(t, err)

		assert.Equal(t, "https://pay.example/1", resp.PayURL)
		assert.Equal(t, "123456", resp.TransID)

		assert.Equal(t, "PARTNER", got["partnerCode"])
		assert.Equal(t, "300000", got["amount"])
		assert.Equal(t, "ORD1", got["orderId"])
		assert.Equal(t, "captureWallet", got["requestType"])
		assert.Equal(t,
			expectedSignature(cfg, "req-1", "ORD1", "order payment ORD1", "300000"),
			got["signature"])
	})

	t.Run("fractional amounts are truncated to whole units", func(t *testing.T) {
		var got map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_, _ = w.Write([]byte(`{"resultCode":0,"payUrl":"https://pay.example/1"}`))
		}))
		defer server.Close()

		client, err := momo.NewClient(testConfig(server.URL), logger)
		require.NoError(t, err)

		_, err = client.CreatePayment(context.Background(), &port.GatewayRequest{
			RequestID: "req-1",
			OrderRef:  "ORD1",
			Amount:    decimal.MustParse("300000.70"),
		})
		require.NoError(t, err)
		assert.Equal(t, "300000", got["amount"])
	})

	t.Run("decline carries the gateway message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"resultCode":41,"message":"Duplicated orderId"}`))
		}))
		defer server.Close()

		client, err := momo.NewClient(testConfig(server.URL), logger)
		require.NoError(t, err)

		_, err = client.CreatePayment(context.Background(), &port.GatewayRequest{
			RequestID: "req-1",
			OrderRef:  "ORD1",
			Amount:    decimal.MustParse("300000"),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrGatewayDeclined)
		assert.Contains(t, err.Error(), "Duplicated orderId")
	})

	t.Run("http error surfaces as unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client, err := momo.NewClient(testConfig(server.URL), logger)
		require.NoError(t, err)

		_, err = client.CreatePayment(context.Background(), &port.GatewayRequest{
			RequestID: "req-1",
			OrderRef:  "ORD1",
			Amount:    decimal.MustParse("300000"),
		})
		assert.ErrorIs(t, err, domain.ErrGatewayUnavailable)
	})
}
