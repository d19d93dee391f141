package edukit

import (
	"context"
	"strings"
	"time"

	"github.com/edukit/edukit/pkg/validate"
)

// VoucherInput is the create/update payload for a voucher. Exactly one
// of Percent and Amount carries the discount.
type VoucherInput struct {
	Code      string    `json:"code"`
	Percent   int       `json:"percent,omitempty"`
	Amount    float64   `json:"amount,omitempty"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Active    bool      `json:"active"`
}

// ValidateVoucher checks the input synchronously, before any network
// call. Field-level messages come back keyed by JSON field name so
// forms can render them inline.
func ValidateVoucher(in VoucherInput, now time.Time) validate.Errors {
	errs := validate.Errors{}

	if strings.TrimSpace(in.Code) == "" {
		errs.Add("code", "code is required")
	}

	switch {
	case in.Percent == 0 && in.Amount == 0:
		errs.Add("percent", "either a percent or an amount discount is required")
	case in.Percent != 0 && in.Amount != 0:
		errs.Add("percent", "set only one of percent or amount")
	case in.Percent != 0 && (in.Percent < 1 || in.Percent > 100):
		errs.Add("percent", "percent must be between 1 and 100")
	case in.Amount < 0:
		errs.Add("amount", "amount must be greater than zero")
	}

	if in.StartDate.IsZero() {
		errs.Add("startDate", "start date is required")
	}
	if in.EndDate.IsZero() {
		errs.Add("endDate", "end date is required")
	}
	if !in.StartDate.IsZero() && !in.EndDate.IsZero() && !in.StartDate.Before(in.EndDate) {
		errs.Add("endDate", "end date must be after start date")
	}
	if !in.EndDate.IsZero() && in.EndDate.Before(now) {
		errs.Add("endDate", "voucher is already expired")
	}

	return errs
}

// CreateVoucher validates the input and creates the voucher. Validation
// failures are returned as validate.Errors without touching the network.
func (c *Client) CreateVoucher(ctx context.Context, in VoucherInput) (Voucher, error) {
	if errs := ValidateVoucher(in, time.Now()); !errs.Valid() {
		return Voucher{}, errs
	}
	return c.vouchers.Create(ctx, in)
}

// UpdateVoucher validates the input and updates the voucher.
func (c *Client) UpdateVoucher(ctx context.Context, id string, in VoucherInput) (Voucher, error) {
	if errs := ValidateVoucher(in, time.Now()); !errs.Valid() {
		return Voucher{}, errs
	}
	return c.vouchers.Update(ctx, id, in)
}
