package models

import (
	"time"

	"github.com/winningticket/lottery-backend/pkg/money"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role controls access to the staff surface
type Role string

const (
	RoleUser  Role = "user"
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

// User represents a registered player or staff member
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	FirstName string             `bson:"firstName" json:"firstName"`
	LastName  string             `bson:"lastName" json:"lastName"`
	Role      Role               `bson:"role" json:"role"`
	IsActive  bool               `bson:"isActive" json:"isActive"`

	// Player statistics, maintained by the purchase and winner flows
	TotalSpent       money.Amount `bson:"totalSpent" json:"totalSpent"`
	TotalWon         money.Amount `bson:"totalWon" json:"totalWon"`
	TicketsPurchased int          `bson:"ticketsPurchased" json:"ticketsPurchased"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsStaff reports whether the user may trigger draws and settlements
func (u *User) IsStaff() bool {
	return u.Role == RoleStaff || u.Role == RoleAdmin
}
