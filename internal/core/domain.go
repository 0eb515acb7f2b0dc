package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// UnknownPlayer is the display name used when a ledger user has no usable name fields.
const UnknownPlayer = "Unknown"

type (
	// PlayerRef identifies a participant as the ledger reports them.
	PlayerRef struct {
		FirstName string `json:"first_name,omitempty"`
		LastName  string `json:"last_name,omitempty"`
		Name      string `json:"name,omitempty"`
		Email     string `json:"email,omitempty"`
	}

	// Participation is one user's side of a shared expense. Shares are kept as
	// the ledger's textual decimals and coerced on use.
	Participation struct {
		Player    PlayerRef `json:"player"`
		PaidShare string    `json:"paid_share,omitempty"`
		OwedShare string    `json:"owed_share,omitempty"`
	}

	// Expense is a raw ledger record. Description and Payment are optional:
	// nil description reads as "" and nil payment reads as false.
	Expense struct {
		ID           int64           `json:"id"`
		Description  *string         `json:"description,omitempty"`
		Date         string          `json:"date"`
		Payment      *bool           `json:"payment,omitempty"`
		Participants []Participation `json:"participants"`
	}

	// WinningsRow is one player's non-zero net result on one expense.
	WinningsRow struct {
		Date        Date
		Player      string
		Net         decimal.Decimal
		Description string
	}

	// BucketedRow is a WinningsRow with its week-of-month bucket attached.
	BucketedRow struct {
		WinningsRow
		Week WeekBucket
	}
)

var (
	ErrUnparseableDate = errors.New("unparseable date")
	ErrEmptyDate       = errors.New("empty date")
)

// DisplayName resolves the name shown on leaderboards: "first last" trimmed,
// then the account name, then the email, then UnknownPlayer.
func (p PlayerRef) DisplayName() string {
	full := strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
	if full != "" {
		return full
	}
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	if email := strings.TrimSpace(p.Email); email != "" {
		return email
	}
	return UnknownPlayer
}

// Net returns paid minus owed; positive means the player won money.
func (p Participation) Net() decimal.Decimal {
	return ParseShare(p.PaidShare).Sub(ParseShare(p.OwedShare))
}

// DescriptionText returns the description or "" when absent.
func (e Expense) DescriptionText() string {
	if e.Description == nil {
		return ""
	}
	return *e.Description
}

// IsPayment reports whether the ledger flagged the expense as a settlement.
func (e Expense) IsPayment() bool {
	return e.Payment != nil && *e.Payment
}

// Label returns the row's week label, e.g. "Mar W2".
func (r BucketedRow) Label() string {
	return r.Week.Label()
}

// NewExpense is a convenience constructor used by adapters and tests.
func NewExpense(id int64, description, date string, participants ...Participation) Expense {
	return Expense{
		ID:           id,
		Description:  &description,
		Date:         date,
		Participants: participants,
	}
}

// WithPayment returns a copy of e carrying the given payment flag.
func (e Expense) WithPayment(payment bool) Expense {
	e.Payment = &payment
	return e
}

// GeneratedStamp formats t the way report file names carry it.
func GeneratedStamp(t time.Time) string {
	return t.Format("20060102_150405")
}
