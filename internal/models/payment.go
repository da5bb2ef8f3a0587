package models

import (
	"time"

	"github.com/winningticket/lottery-backend/pkg/money"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentType classifies a financial transaction
type PaymentType string

const (
	PaymentTypeTicket     PaymentType = "ticket"
	PaymentTypePayout     PaymentType = "payout"
	PaymentTypeRefund     PaymentType = "refund"
	PaymentTypeCommission PaymentType = "commission"
	PaymentTypeDeposit    PaymentType = "deposit"
	PaymentTypeWithdrawal PaymentType = "withdrawal"
)

// PaymentStatus is the processing state of a payment
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusCanceled   PaymentStatus = "canceled"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

// PaymentMethod is how the money moved
type PaymentMethod string

const (
	PaymentMethodWallet       PaymentMethod = "wallet"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCard         PaymentMethod = "card"
)

// Payment is an append-only audit record of a money movement. Rows are
// never rewritten after insert; only status and its timestamps change.
type Payment struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TransactionID     string             `bson:"transactionId" json:"transactionId"`
	InternalReference string             `bson:"internalReference,omitempty" json:"internalReference,omitempty"`
	UserID            primitive.ObjectID `bson:"userId" json:"userId"`
	GameID            primitive.ObjectID `bson:"gameId,omitempty" json:"gameId,omitempty"`
	TicketID          primitive.ObjectID `bson:"ticketId,omitempty" json:"ticketId,omitempty"`
	Amount            money.Amount       `bson:"amount" json:"amount"`
	PaymentType       PaymentType        `bson:"paymentType" json:"paymentType"`
	PaymentMethod     PaymentMethod      `bson:"paymentMethod" json:"paymentMethod"`
	Status            PaymentStatus      `bson:"status" json:"status"`
	CompletedAt       time.Time          `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsSuccessful reports whether the payment completed
func (p *Payment) IsSuccessful() bool {
	return p.Status == PaymentStatusCompleted
}
