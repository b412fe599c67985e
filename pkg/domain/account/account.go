// Package account holds the points ledger aggregate: an account identified by
// an external user id and carrying a non-negative integer balance.
package account

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/pointmarket/pkg/domain"
)

var (
	// ErrInvalidAccountID is returned when an account id is empty.
	ErrInvalidAccountID = fmt.Errorf("account id is required: %w", domain.ErrValidation)

	// ErrAmountMustBePositive is returned when a credit, debit or transfer amount is not positive.
	ErrAmountMustBePositive = fmt.Errorf("amount must be positive: %w", domain.ErrValidation)

	// ErrInsufficientFunds is returned when a debit would drive a balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrSelfTransfer is returned when source and destination of a transfer are the same account.
	ErrSelfTransfer = errors.New("cannot transfer to the same account")

	// ErrRecipientNotAllowed is returned when a transfer targets an account that may not receive points.
	ErrRecipientNotAllowed = fmt.Errorf("recipient not allowed: %w", domain.ErrForbidden)

	// ErrAccountNotFound is returned when an account cannot be found.
	ErrAccountNotFound = fmt.Errorf("account not found: %w", domain.ErrNotFound)
)

// InsufficientFundsError carries the amounts involved in a rejected debit.
type InsufficientFundsError struct {
	Required  int64
	Available int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: required %d, available %d", e.Required, e.Available)
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

// Account is a single ledger entry keyed by an opaque user id.
//
// Invariants:
//   - Points is never negative.
//   - An account exists once any operation has referenced its id and is never deleted.
type Account struct {
	ID        string
	Points    int64
	LastClaim DailyClaim
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Builder constructs Account values, mostly when hydrating from storage.
type Builder struct {
	id        string
	points    int64
	lastClaim DailyClaim
	createdAt time.Time
	updatedAt time.Time
}

// New returns a Builder for a fresh zero-balance account.
func New() *Builder {
	return &Builder{createdAt: time.Now().UTC()}
}

func (b *Builder) WithID(id string) *Builder {
	b.id = id
	return b
}

// WithPoints sets the balance. Only storage hydration and tests should use it.
func (b *Builder) WithPoints(points int64) *Builder {
	b.points = points
	return b
}

func (b *Builder) WithLastClaim(c DailyClaim) *Builder {
	b.lastClaim = c
	return b
}

func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

func (b *Builder) WithUpdatedAt(t time.Time) *Builder {
	b.updatedAt = t
	return b
}

// Build validates the id and balance and returns the account.
func (b *Builder) Build() (*Account, error) {
	if err := ValidateID(b.id); err != nil {
		return nil, err
	}
	if b.points < 0 {
		return nil, fmt.Errorf("negative balance %d: %w", b.points, domain.ErrValidation)
	}
	return &Account{
		ID:        b.id,
		Points:    b.points,
		LastClaim: b.lastClaim,
		CreatedAt: b.createdAt,
		UpdatedAt: b.updatedAt,
	}, nil
}

// ValidateID rejects blank account ids.
func ValidateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidAccountID
	}
	return nil
}

// ValidateAmount rejects zero and negative amounts.
func ValidateAmount(amount int64) error {
	if amount <= 0 {
		return ErrAmountMustBePositive
	}
	return nil
}

// ValidateDebit checks that amount can be taken from the account.
func (a *Account) ValidateDebit(amount int64) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if a.Points < amount {
		return &InsufficientFundsError{Required: amount, Available: a.Points}
	}
	return nil
}

// ValidateTransfer checks a transfer of amount from a to the account identified by to.
func (a *Account) ValidateTransfer(to string, amount int64) error {
	if err := ValidateID(to); err != nil {
		return err
	}
	if a.ID == to {
		return ErrSelfTransfer
	}
	return a.ValidateDebit(amount)
}
