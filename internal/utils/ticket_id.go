package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateTicketID builds a public ticket reference of the form
// PREF-20260830-12345: a four-letter prefix taken from the game slug,
// the purchase date, and five random digits. Collisions are resolved by
// the unique index on ticketId, callers retry on duplicate key.
func GenerateTicketID(gameSlug string, at time.Time) string {
	prefix := strings.ToUpper(slugLetters(gameSlug))
	for len(prefix) < 4 {
		prefix += "X"
	}
	return fmt.Sprintf("%s-%s-%05d", prefix[:4], at.Format("20060102"), rand.Intn(100000))
}

func slugLetters(slug string) string {
	var b strings.Builder
	for _, r := range slug {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
			if b.Len() == 4 {
				break
			}
		}
	}
	return b.String()
}

// GenerateTransactionID returns a unique payment transaction reference
func GenerateTransactionID(prefix string) string {
	return fmt.Sprintf("%s-%s", strings.ToUpper(prefix), uuid.NewString())
}
