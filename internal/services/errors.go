package services

import "errors"

// Sentinel errors returned by the service layer. Handlers translate
// these to HTTP statuses with errors.Is.
var (
	// ErrGameNotOpen is returned when a ticket purchase targets a game
	// that is not in the active state.
	ErrGameNotOpen = errors.New("game is not open for ticket sales")

	// ErrNumberAlreadyTaken is returned when a requested number is
	// already held by another ticket of the same game.
	ErrNumberAlreadyTaken = errors.New("one or more numbers are already taken for this game")

	// ErrInvalidNumbers is returned when the requested numbers are
	// empty, duplicated, or outside the game's range.
	ErrInvalidNumbers = errors.New("invalid ticket numbers")

	// ErrInsufficientFunds is returned when a wallet debit would
	// overdraw the balance.
	ErrInsufficientFunds = errors.New("insufficient wallet balance")

	// ErrWalletInactive is returned when a balance operation targets a
	// deactivated wallet.
	ErrWalletInactive = errors.New("wallet is not active")

	// ErrNoTicketsToSettle is returned when a settlement finds no
	// pending tickets for the game.
	ErrNoTicketsToSettle = errors.New("no pending tickets to settle")

	// ErrAlreadyClaimed is returned when a prize claim repeats.
	ErrAlreadyClaimed = errors.New("prize has already been claimed")

	// ErrNotClaimed is returned when a payout is recorded for an
	// unclaimed prize.
	ErrNotClaimed = errors.New("prize has not been claimed yet")

	// ErrInvalidTransition is returned when a game status change
	// violates the lifecycle.
	ErrInvalidTransition = errors.New("invalid game status transition")

	// ErrEmailTaken is returned when registration reuses an email.
	ErrEmailTaken = errors.New("email is already registered")

	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
