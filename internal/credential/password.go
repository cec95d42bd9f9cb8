package credential

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"time"
	"unicode/utf16"

	"golang.org/x/crypto/md4"

	"github.com/arifislam007/eco-public-wifi/pkg/apperr"
)

// VerifySecret は保存済み属性とパスワードを照合する。
// ハッシュ形式の優先順位はcleartext → MD5 → SHA1 → NTで固定し、
// 最初に存在する属性1つだけで判定する。照合成功後にExpirationを
// 確認するため、正しいパスワードでも失効済みならexpiredとなる。
// この順序を入れ替えてはならない。
func VerifySecret(attrs *SecretAttributes, password string, now time.Time) error {
	var ok bool
	switch {
	case attrs.Cleartext != "":
		ok = subtle.ConstantTimeCompare([]byte(attrs.Cleartext), []byte(password)) == 1
	case attrs.MD5 != "":
		sum := md5.Sum([]byte(password))
		ok = hexEqual(attrs.MD5, sum[:])
	case attrs.SHA1 != "":
		sum := sha1.Sum([]byte(password))
		ok = hexEqual(attrs.SHA1, sum[:])
	case attrs.NT != "":
		ok = hexEqual(attrs.NT, ntHash(password))
	default:
		return apperr.ErrBadSecret
	}
	if !ok {
		return apperr.ErrBadSecret
	}
	if attrs.Expiration > 0 && !now.Before(time.Unix(attrs.Expiration, 0)) {
		return apperr.ErrCredentialExpired
	}
	return nil
}

// ntHash はMD4(UTF-16LE(password))を計算する。
func ntHash(password string) []byte {
	codes := utf16.Encode([]rune(password))
	buf := make([]byte, len(codes)*2)
	for i, c := range codes {
		binary.LittleEndian.PutUint16(buf[i*2:], c)
	}
	h := md4.New()
	h.Write(buf)
	return h.Sum(nil)
}

func hexEqual(stored string, sum []byte) bool {
	return strings.EqualFold(stored, hex.EncodeToString(sum))
}
