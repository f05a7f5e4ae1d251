package rules

import (
	"strings"
	"unicode"
)

// Password policy messages, one per clause.
const (
	MsgPasswordTooShort        = "This password is too short. It must contain at least 8 characters."
	MsgPasswordTooCommon       = "This password is too common."
	MsgPasswordEntirelyNumeric = "This password is entirely numeric."
	MsgPasswordLikeUsername    = "The password is too similar to the username."
	MsgPasswordLikeEmail       = "The password is too similar to the email address."
)

const (
	minPasswordLength   = 8
	similarityThreshold = 0.7
)

// commonPasswords is a short list of the passwords seen most often in breach
// corpora. Matching is case-insensitive.
var commonPasswords = map[string]struct{}{
	"password":   {},
	"password1":  {},
	"passw0rd":   {},
	"12345678":   {},
	"123456789":  {},
	"1234567890": {},
	"qwerty123":  {},
	"qwertyuiop": {},
	"iloveyou":   {},
	"admin123":   {},
	"welcome1":   {},
	"letmein1":   {},
	"sunshine":   {},
	"princess":   {},
	"football":   {},
	"baseball":   {},
	"superman":   {},
	"trustno1":   {},
	"dragon123":  {},
	"monkey123":  {},
}

// CheckPassword applies the strength policy to a non-blank password and
// returns every violated clause, in policy order: similarity to the username
// and email, minimum length, common-password list, entirely numeric.
func CheckPassword(password, username, email string) []string {
	var msgs []string

	if tooSimilar(password, username) {
		msgs = append(msgs, MsgPasswordLikeUsername)
	}
	if tooSimilar(password, email) || tooSimilar(password, emailLocalPart(email)) {
		msgs = append(msgs, MsgPasswordLikeEmail)
	}
	if len(password) < minPasswordLength {
		msgs = append(msgs, MsgPasswordTooShort)
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		msgs = append(msgs, MsgPasswordTooCommon)
	}
	if entirelyNumeric(password) {
		msgs = append(msgs, MsgPasswordEntirelyNumeric)
	}
	return msgs
}

func entirelyNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

func emailLocalPart(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return ""
}

// tooSimilar reports whether password and attr share enough content that the
// password would be trivially guessable from the account attribute. Uses a
// longest-common-subsequence ratio, case-insensitive.
func tooSimilar(password, attr string) bool {
	p := strings.ToLower(password)
	a := strings.ToLower(strings.TrimSpace(attr))
	if len(a) < 3 {
		return false
	}
	if strings.Contains(p, a) || strings.Contains(a, p) {
		return true
	}
	return similarity(p, a) >= similarityThreshold
}

// similarity is 2*LCS(a,b) / (len(a)+len(b)) over bytes.
func similarity(a, b string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	lcs := prev[len(b)]
	return 2 * float64(lcs) / float64(len(a)+len(b))
}
