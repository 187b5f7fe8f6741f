package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopsmith/storefront/internal/models"
	"github.com/shopsmith/storefront/pkg/sendgrid"
)

// NotificationService renders and sends the order confirmation email. It
// is best-effort by contract: the checkout flow logs a failure and keeps
// the confirmed order either way.
type NotificationService struct {
	emailService sendgrid.EmailService
}

func NewNotificationService(emailService sendgrid.EmailService) *NotificationService {
	return &NotificationService{emailService: emailService}
}

func (n *NotificationService) SendOrderConfirmation(ctx context.Context, email string, order *models.Order) error {
	req := &models.EmailNotificationRequest{
		To:      email,
		Subject: fmt.Sprintf("Order #%s confirmed", order.Number),
		Content: renderOrderConfirmation(order),
	}

	if err := n.emailService.Send(ctx, req); err != nil {
		return fmt.Errorf("failed to send order confirmation: %w", err)
	}

	return nil
}

func renderOrderConfirmation(order *models.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Thank you for your purchase. Your order #%s has been placed.\n\n", order.Number)

	for _, item := range order.Items {
		fmt.Fprintf(&b, "%s x%d  $%.2f\n", item.Product.Title, item.Quantity, item.Product.Price*float64(item.Quantity))
	}

	fmt.Fprintf(&b, "\nSubtotal: $%.2f\n", order.Subtotal)

	if order.Shipping == 0 {
		b.WriteString("Shipping: Free\n")
	} else {
		fmt.Fprintf(&b, "Shipping: $%.2f\n", order.Shipping)
	}

	fmt.Fprintf(&b, "Total: $%.2f\n", order.Total)
	fmt.Fprintf(&b, "Estimated delivery: %s\n", order.DeliveryEstimate.Format("January 2, 2006"))

	return b.String()
}
