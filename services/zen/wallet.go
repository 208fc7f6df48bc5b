package zen

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrInsufficientFunds = errors.New("not enough zen points")
	ErrInvalidAmount     = errors.New("amount must not be negative")
)

// Wallet holds the zen point balance shared by campaign and free play.
// The balance never goes below zero and the peak never decreases.
type Wallet struct {
	balance int
	peak    int
}

func NewWallet(balance int) *Wallet {
	w := &Wallet{}
	w.Restore(balance, balance)
	return w
}

func (w *Wallet) Balance() int {
	return w.balance
}

func (w *Wallet) Peak() int {
	return w.peak
}

func (w *Wallet) AddPoints(amount int) error {
	if amount < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}
	w.balance += amount
	if w.balance > w.peak {
		w.peak = w.balance
	}
	return nil
}

// SpendPoints deducts amount and reports whether it could be afforded.
// On failure the balance is left untouched.
func (w *Wallet) SpendPoints(amount int) bool {
	if amount < 0 || amount > w.balance {
		return false
	}
	w.balance -= amount
	return true
}

// Spend is SpendPoints with an error carrying the shortfall
func (w *Wallet) Spend(amount int) error {
	if amount < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}
	if !w.SpendPoints(amount) {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, amount, w.balance)
	}
	return nil
}

// Penalize removes up to amount points, clamping the balance at zero
func (w *Wallet) Penalize(amount int) int {
	if amount <= 0 {
		return 0
	}
	if amount > w.balance {
		amount = w.balance
	}
	w.balance -= amount
	return amount
}

// Restore loads persisted values, clamping both into range
func (w *Wallet) Restore(balance, peak int) {
	if balance < 0 {
		balance = 0
	}
	if peak < balance {
		peak = balance
	}
	w.balance = balance
	w.peak = peak
}

type walletJSON struct {
	Balance int `json:"zenPointBalance"`
	Peak    int `json:"zenPointsPeak"`
}

func (w *Wallet) MarshalJSON() ([]byte, error) {
	return json.Marshal(walletJSON{Balance: w.balance, Peak: w.peak})
}

func (w *Wallet) UnmarshalJSON(data []byte) error {
	var v walletJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	w.Restore(v.Balance, v.Peak)
	return nil
}
