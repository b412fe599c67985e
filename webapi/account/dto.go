package account

import (
	"time"

	"github.com/amirasaad/pointmarket/pkg/dto"
)

//revive:disable

// TransferRequest represents the request body for sending points to another account.
type TransferRequest struct {
	To     string `json:"to" validate:"required,max=64"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
}

// BalanceDTO is the API response representation of an account balance.
type BalanceDTO struct {
	AccountID string `json:"account_id"`
	Points    int64  `json:"points"`
}

// TransferDTO reports both balances after a transfer.
type TransferDTO struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Amount      int64  `json:"amount"`
	FromBalance int64  `json:"from_balance"`
	ToBalance   int64  `json:"to_balance"`
}

// ClaimDTO reports a granted daily reward.
type ClaimDTO struct {
	Granted      int64     `json:"granted"`
	NewBalance   int64     `json:"new_balance"`
	NextEligible time.Time `json:"next_eligible"`
}

// LeaderboardDTO wraps the ranked entries.
type LeaderboardDTO struct {
	Entries []dto.LeaderboardEntry `json:"entries"`
}
