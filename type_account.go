package investor

import "github.com/google/uuid"

// AccountID is the stable identity of an account holder.
type AccountID = uuid.UUID

// ParseAccountID parses the canonical textual form of an account id.
func ParseAccountID(s string) (AccountID, error) {
	return uuid.Parse(s)
}
