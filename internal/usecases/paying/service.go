package paying

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vfg2006/storefront-api/infrastructure/integrator/storefront"
	"github.com/vfg2006/storefront-api/internal/domain"
	"github.com/vfg2006/storefront-api/pkg/log"
)

const DefaultOrderInfo = "Payment for order"

var (
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
	ErrEmptyPaymentURL = errors.New("payment URL not received")
)

type Service struct {
	gateway storefront.PaymentGateway
	now     func() time.Time
}

func NewService(gateway storefront.PaymentGateway) *Service {
	return &Service{
		gateway: gateway,
		now:     time.Now,
	}
}

// CreatePaymentURL pede ao endpoint de pagamento a URL de redirecionamento.
// Sem orderId gera ORDER_<unix millis>; sem descrição usa DefaultOrderInfo.
func (s *Service) CreatePaymentURL(ctx context.Context, req domain.PaymentURLRequest) (*domain.PaymentURLResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	if strings.TrimSpace(req.OrderID) == "" {
		req.OrderID = fmt.Sprintf("ORDER_%d", s.now().UnixMilli())
	}

	if strings.TrimSpace(req.OrderInfo) == "" {
		req.OrderInfo = DefaultOrderInfo
	}

	resp, err := s.gateway.GeneratePaymentURL(ctx, req)
	if err != nil {
		log.ForContext(ctx).WithError(err).WithField("order_id", req.OrderID).Error("Erro ao iniciar pagamento")
		return nil, err
	}

	if resp == nil || resp.PaymentURL == "" {
		log.ForContext(ctx).WithField("order_id", req.OrderID).Error("URL de pagamento não recebida")
		return nil, ErrEmptyPaymentURL
	}

	log.ForContext(ctx).WithField("order_id", req.OrderID).Info("URL de pagamento gerada")

	return resp, nil
}
