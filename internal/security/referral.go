package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

const ReferralCodePrefix = "BAL"

// ReferralCode derives the public referral code from a user id: BAL followed by
// the id zero-padded to at least five digits (7 -> BAL00007, 123456 -> BAL123456).
func ReferralCode(userID int64) string {
	return fmt.Sprintf("%s%05d", ReferralCodePrefix, userID)
}

// ParseReferralCode extracts the user id from a code produced by ReferralCode.
func ParseReferralCode(code string) (int64, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !strings.HasPrefix(code, ReferralCodePrefix) {
		return 0, false
	}
	digits := code[len(ReferralCodePrefix):]
	if len(digits) < 5 {
		return 0, false
	}
	id, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// TemporaryReferralCode is a placeholder stored until the row id is known.
func TemporaryReferralCode() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate referral placeholder: %w", err)
	}
	return "TMP" + strings.ToUpper(hex.EncodeToString(buf)), nil
}
