package polymarket

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/domain"
)

// Relay implementa ports.OrderSubmitter delegando la firma y el envío real
// al servicio de ejecución configurado. Firmar órdenes del CLOB requiere la
// clave de la cuenta; este proceso nunca la toca, sólo habla con el relay
// por HTTP.
type Relay struct {
	client  *Client
	baseURL string
	limiter *rate.Limiter
}

// NewRelay crea el submitter contra el servicio de ejecución.
func NewRelay(client *Client, baseURL string) *Relay {
	return &Relay{
		client:  client,
		baseURL: baseURL,
		limiter: rate.NewLimiter(5, 2),
	}
}

// relayOrderRequest es el body de POST /execute-trade del relay.
type relayOrderRequest struct {
	TokenID string  `json:"tokenId"`
	Side    string  `json:"side"`
	Price   float64 `json:"price"`
	Size    float64 `json:"size"`
}

// relayOrderResponse es la respuesta del relay.
type relayOrderResponse struct {
	Success       bool    `json:"success"`
	OrderID       string  `json:"orderId"`
	ExecutedPrice float64 `json:"executedPrice"`
	ExecutedSize  float64 `json:"executedSize"`
	Error         string  `json:"error"`
}

// PlaceLimitOrder envía la orden al relay y devuelve el resultado del
// exchange. Un error aquí es de transporte; una orden rechazada vuelve
// como Success=false con la razón del exchange.
func (r *Relay) PlaceLimitOrder(ctx context.Context, order domain.Order) (domain.OrderResult, error) {
	req := relayOrderRequest{
		TokenID: order.TokenID,
		Side:    order.Side,
		Price:   order.Price,
		Size:    order.Shares,
	}

	var resp relayOrderResponse
	u := r.baseURL + "/execute-trade"
	if err := r.client.post(ctx, r.limiter, u, req, &resp); err != nil {
		return domain.OrderResult{}, fmt.Errorf("polymarket.PlaceLimitOrder: %w", err)
	}

	return domain.OrderResult{
		Success:       resp.Success,
		OrderID:       resp.OrderID,
		ExecutedPrice: resp.ExecutedPrice,
		ExecutedSize:  resp.ExecutedSize,
		Error:         resp.Error,
	}, nil
}
