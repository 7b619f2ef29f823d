package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"tenantvolt/internal/mailer"
	"tenantvolt/internal/models"
	"tenantvolt/internal/repositories"
)

var (
	// ErrInvalidMonth is returned before the store is touched.
	ErrInvalidMonth = errors.New("invalid month format. Expected YYYY-MM")
	// ErrNoTenantMatch means no tenant of any owner carries the product id.
	ErrNoTenantMatch = errors.New("no tenant found")
	// ErrMailDelivery wraps transport failures; no bill record is written.
	ErrMailDelivery = errors.New("failed to send email notification")
)

// BillNotificationRequest is a validated send-notification payload.
type BillNotificationRequest struct {
	ProductID string
	Month     string
	Amount    float64
	KwValue   float64
}

// TenantContact identifies the notified tenant in the response.
type TenantContact struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// BillSummary echoes the billed values in the response.
type BillSummary struct {
	Month   string  `json:"month"`
	Amount  float64 `json:"amount"`
	KwValue float64 `json:"kw_value"`
}

// BillNotificationResult is the successful dispatch outcome.
type BillNotificationResult struct {
	Message string
	Tenant  TenantContact
	Bill    BillSummary
}

// BillingService resolves a tenant by product id, sends the bill email and
// records the dispatched bill.
type BillingService interface {
	SendBillNotification(ctx context.Context, req *BillNotificationRequest) (*BillNotificationResult, error)
}

type billingService struct {
	owners repositories.OwnerRepository
	bills  repositories.BillRepository
	mail   mailer.Mailer
	now    func() time.Time
}

func NewBillingService(owners repositories.OwnerRepository, bills repositories.BillRepository, mail mailer.Mailer) BillingService {
	return &billingService{owners: owners, bills: bills, mail: mail, now: time.Now}
}

// billMatch is the tenant resolved by the product-id scan, together with the
// owner context needed for the email body.
type billMatch struct {
	tenantName      string
	tenantEmail     string
	ownerName       string
	propertyAddress string
}

var errScanDone = errors.New("scan done")

// findTenantByProductID walks every owner document and returns the first
// tenant whose product_id matches. product_id uniqueness is never enforced;
// with duplicates the winner is simply the first hit in store stream order.
func (s *billingService) findTenantByProductID(ctx context.Context, productID string) (*billMatch, error) {
	var match *billMatch
	err := s.owners.StreamAll(ctx, func(owner *models.Owner) error {
		for _, tenant := range owner.Tenants {
			if tenant.ProductID != productID {
				continue
			}
			name := tenant.Name
			if name == "" {
				name = "Valued Tenant"
			}
			address := tenant.Address
			if address == "" {
				address = owner.Address
			}
			if address == "" {
				address = "your rental property"
			}
			match = &billMatch{
				tenantName:      name,
				tenantEmail:     tenant.Email,
				ownerName:       owner.FullName(),
				propertyAddress: address,
			}
			return errScanDone
		}
		return nil
	})
	if err != nil && !errors.Is(err, errScanDone) {
		return nil, err
	}
	return match, nil
}

func (s *billingService) SendBillNotification(ctx context.Context, req *BillNotificationRequest) (*BillNotificationResult, error) {
	monthDate, err := time.Parse("2006-01", req.Month)
	if err != nil {
		return nil, ErrInvalidMonth
	}
	formattedMonth := monthDate.Format("January 2006")

	match, err := s.findTenantByProductID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, fmt.Errorf("%w with product_id: %s", ErrNoTenantMatch, req.ProductID)
	}

	subject := fmt.Sprintf("Electricity Bill Notification - %s", formattedMonth)
	body := buildBillEmail(match, formattedMonth, req.Amount, req.KwValue)

	if err := s.mail.Send(ctx, match.tenantEmail, subject, body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}

	log.Printf("Bill notification email sent to %s for product_id %s", match.tenantEmail, req.ProductID)

	bill := &models.Bill{
		ProductID:        req.ProductID,
		TenantEmail:      match.tenantEmail,
		Month:            req.Month,
		Amount:           req.Amount,
		KwValue:          req.KwValue,
		NotificationSent: true,
		NotificationDate: s.now().UTC().Format(models.TimeLayout),
	}
	if err := s.bills.Append(ctx, bill); err != nil {
		return nil, err
	}

	return &BillNotificationResult{
		Message: fmt.Sprintf("Bill notification sent to %s", match.tenantEmail),
		Tenant:  TenantContact{Email: match.tenantEmail, Name: match.tenantName},
		Bill:    BillSummary{Month: req.Month, Amount: req.Amount, KwValue: req.KwValue},
	}, nil
}

func buildBillEmail(match *billMatch, formattedMonth string, amount, kwValue float64) string {
	body := fmt.Sprintf(`Hello %s,

ELECTRICITY BILL NOTIFICATION

This is to inform you that your electricity bill for %s is now available:

Property: %s
Total Usage: %v kWh
Amount Due: $%.2f

Please make your payment at your earliest convenience to avoid any service interruption.

If you have any questions about this bill, please contact your property manager.

Best Regards,
%s
TenantVolt System`, match.tenantName, formattedMonth, match.propertyAddress, kwValue, amount, match.ownerName)
	return strings.TrimSpace(body)
}
