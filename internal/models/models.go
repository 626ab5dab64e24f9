// Package models defines the domain entities for the donation tracker.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the default currency for new stores.
const DefaultCurrency = "USD"

// DefaultLanguage is the default interface language tag.
const DefaultLanguage = "so"

// SupportedCurrencies lists all supported currency codes.
var SupportedCurrencies = map[string]string{
	"USD":  "$",
	"SLSH": "SLSH",
	"SOS":  "Sh.So.",
	"EUR":  "€",
	"GBP":  "£",
	"ETB":  "Br",
	"KES":  "KSh",
	"DJF":  "Fdj",
	"AED":  "د.إ",
}

// ContributorStatus values.
const (
	ContributorStatusPending  = "pending"
	ContributorStatusPaid     = "paid"
	ContributorStatusDeclined = "declined"
)

// PaymentStatus values.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusApproved = "approved"
	PaymentStatusRejected = "rejected"
)

// CampaignCodeLength is the number of decimal digits in a campaign code.
const CampaignCodeLength = 4

// Campaign is the aggregate root: a fundraising effort with a goal.
type Campaign struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Goal           decimal.Decimal `json:"goal"`
	Deadline       *time.Time      `json:"deadline,omitempty"`
	CoordinatorPIN string          `json:"coordinatorPin"`
	UserID         string          `json:"userId"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Contributor is a person pledged or recorded as having paid toward a campaign.
type Contributor struct {
	ID         string          `json:"id"`
	CampaignID string          `json:"campaignId"`
	Name       string          `json:"name"`
	Phone      string          `json:"phone"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	PaymentID  string          `json:"paymentId"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// Payment is a self-reported contribution awaiting coordinator approval.
// Approving a payment also creates or updates a paid Contributor for the
// same amount, linked back through Contributor.PaymentID.
type Payment struct {
	ID           string          `json:"id"`
	CampaignID   string          `json:"campaignId"`
	ReporterName string          `json:"reporterName"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	ApprovedAt   *time.Time      `json:"approvedAt,omitempty"`
	RejectedAt   *time.Time      `json:"rejectedAt,omitempty"`
}

// Template is a reusable message body with {variable} placeholders.
// The Variables list is informational, used for validation and UI hints.
type Template struct {
	ID          string    `json:"id"`
	MessageType string    `json:"messageType"`
	Name        string    `json:"name"`
	Body        string    `json:"body"`
	Variables   []string  `json:"variables"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Settings is the store-wide configuration singleton.
type Settings struct {
	Currency             string `json:"currency"`
	CurrencySymbol       string `json:"currencySymbol"`
	Language             string `json:"language"`
	DefaultPaymentNumber string `json:"defaultPaymentNumber"`
}

// DefaultSettings returns the settings a fresh store starts with.
func DefaultSettings() Settings {
	return Settings{
		Currency:       DefaultCurrency,
		CurrencySymbol: SupportedCurrencies[DefaultCurrency],
		Language:       DefaultLanguage,
	}
}

// LogEntry is an immutable audit record. Entries are append-only.
type LogEntry struct {
	ID         string    `json:"id"`
	CampaignID string    `json:"campaignId"`
	Action     string    `json:"action"`
	Detail     string    `json:"detail"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Profile is the remote account record for a signed-in user.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
