package storefrontclient

import (
	"context"
	"net/http"

	"github.com/vfg2006/storefront-api/internal/domain"
)

// GeneratePaymentURL envia o pedido ao endpoint de pagamento; o protocolo do provedor fica do outro lado
func (c *StorefrontClient) GeneratePaymentURL(ctx context.Context, req domain.PaymentURLRequest) (*domain.PaymentURLResponse, error) {
	var response domain.PaymentURLResponse
	if err := c.do(ctx, http.MethodPost, c.config.Storefront.PaymentURLPath, nil, req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}
