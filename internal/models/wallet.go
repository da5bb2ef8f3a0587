package models

import (
	"time"

	"github.com/winningticket/lottery-backend/pkg/money"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WalletType identifies the purpose of a wallet. A user has at most one
// wallet of each type.
type WalletType string

const (
	WalletTypeMain     WalletType = "main"
	WalletTypeBonus    WalletType = "bonus"
	WalletTypeWinnings WalletType = "winnings"
)

// Wallet is a per-user, per-purpose stored-value balance. Wallets are
// never deleted, only deactivated. Balance can go negative only through
// an administrative adjustment; purchase and payout paths reject
// insufficient funds before any mutation.
type Wallet struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	WalletType WalletType         `bson:"walletType" json:"walletType"`
	Balance    money.Amount       `bson:"balance" json:"balance"`
	IsActive   bool               `bson:"isActive" json:"isActive"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
