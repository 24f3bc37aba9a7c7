// Package domain holds account identity rules: the address grammar and
// private-key to address derivation. Nothing here touches the network.
package domain

import (
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/pool-arbitrage/internal/apperror"
)

// IsValidAddress reports whether s is "0x" followed by exactly 40 hex
// digits. The prefix is mandatory; letter case is not checked.
func IsValidAddress(s string) bool {
	return strings.HasPrefix(s, "0x") && common.IsHexAddress(s)
}

// AddressCheck is the verdict for one named address field.
type AddressCheck struct {
	Field string
	Value string
	Valid bool
}

// ValidateAddresses checks every field and returns verdicts sorted by field name.
func ValidateAddresses(fields map[string]string) []AddressCheck {
	out := make([]AddressCheck, 0, len(fields))
	for field, value := range fields {
		out = append(out, AddressCheck{Field: field, Value: value, Valid: IsValidAddress(value)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

// RequireValidAddresses returns InvalidAddress naming every failing field,
// or nil when all pass.
func RequireValidAddresses(fields map[string]string) error {
	var bad []string
	for _, c := range ValidateAddresses(fields) {
		if !c.Valid {
			bad = append(bad, c.Field)
		}
	}
	if len(bad) == 0 {
		return nil
	}
	return apperror.New(apperror.CodeInvalidAddress,
		apperror.WithContextf("fields=%s", strings.Join(bad, ",")))
}
