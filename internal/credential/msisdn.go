package credential

import (
	"regexp"
	"strings"

	"github.com/arifislam007/eco-public-wifi/pkg/apperr"
)

var nonDigits = regexp.MustCompile(`\D`)

// NormalizeMobile はバングラデシュの携帯番号表記を国際形式
// +8801XXXXXXXXX へ正規化する。受理する入力は
// 8801XXXXXXXXX / 01XXXXXXXXX / 1XXXXXXXXX(区切り記号・先頭の+は
// 無視)。それ以外はapperr.ErrMalformedIdentifier。
func NormalizeMobile(raw string) (string, error) {
	digits := nonDigits.ReplaceAllString(strings.TrimSpace(raw), "")
	switch {
	case len(digits) == 13 && strings.HasPrefix(digits, "8801"):
		// そのまま
	case len(digits) == 11 && strings.HasPrefix(digits, "01"):
		digits = "880" + digits[1:]
	case len(digits) == 10 && strings.HasPrefix(digits, "1"):
		digits = "880" + digits
	default:
		return "", apperr.ErrMalformedIdentifier
	}
	// 8801に続くオペレーター番号は3〜9で始まる。
	if digits[4] < '3' || digits[4] > '9' {
		return "", apperr.ErrMalformedIdentifier
	}
	return "+" + digits, nil
}
