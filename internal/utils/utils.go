package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	UserIDPrefix        = "usr"
	AccountIDPrefix     = "acc"
	TransactionIDPrefix = "txn"
)

// GenerateID generates a unique ID with the given prefix
func GenerateID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}

// HasIDPrefix reports whether id looks like an ID generated with prefix.
func HasIDPrefix(id, prefix string) bool {
	rest, ok := strings.CutPrefix(id, prefix+"-")
	if !ok {
		return false
	}
	return uuid.Validate(rest) == nil
}
