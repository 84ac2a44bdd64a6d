package stripeadapter

import (
	"context"
	"log/slog"

	"revshare/contexts/finance-core/payout-engine/ports"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// Gateway issues Stripe Connect transfers to contributor accounts.
type Gateway struct {
	api    *client.API
	logger *slog.Logger
}

func NewGateway(secretKey string, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Gateway{
		api:    api,
		logger: logger,
	}
}

func (g *Gateway) CreateTransfer(ctx context.Context, req ports.TransferRequest) (string, error) {
	params := &stripe.TransferParams{
		Amount:      stripe.Int64(req.Amount),
		Currency:    stripe.String(req.Currency),
		Destination: stripe.String(req.Destination),
		Description: stripe.String(req.Description),
	}
	params.Context = ctx
	for key, value := range req.Metadata {
		params.AddMetadata(key, value)
	}

	transfer, err := g.api.Transfers.New(params)
	if err != nil {
		g.logger.Warn("stripe transfer rejected",
			"event", "stripe_transfer_rejected",
			"module", "finance-core/payout-engine",
			"layer", "adapter",
			"destination", req.Destination,
			"amount", req.Amount,
			"error", err.Error(),
		)
		return "", err
	}
	return transfer.ID, nil
}
