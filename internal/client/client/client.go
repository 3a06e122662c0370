package client

import (
	"context"

	"github.com/dmitrijs2005/mitteie/internal/client/models"
)

// Client is the contract of the inventory server as seen by the CLI.
type Client interface {
	ExchangeSession(ctx context.Context, sessionID string) (models.User, error)
	Me(ctx context.Context) (models.User, error)
	Logout(ctx context.Context) error
	Login(ctx context.Context, email string, password []byte) (models.User, error)
	Signup(ctx context.Context, email, name string, password []byte) (models.User, error)

	ListItems(ctx context.Context) ([]models.Item, error)
	GetItem(ctx context.Context, id string) (models.Item, error)
	CreateItem(ctx context.Context, in models.ItemInput) (models.Item, error)
	UpdateItem(ctx context.Context, id string, in models.ItemInput) (models.Item, error)
	DeleteItem(ctx context.Context, id string) error

	CreateCheckout(ctx context.Context, req models.CheckoutRequest) (models.CheckoutSession, error)
	PaymentStatus(ctx context.Context, sessionID string) (models.PaymentStatus, error)
	UploadSignature(ctx context.Context, resourceType string) (models.UploadSignature, error)
}

var _ Client = (*HTTPClient)(nil)
