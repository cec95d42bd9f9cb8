package credential

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/arifislam007/eco-public-wifi/internal/config"
	"github.com/arifislam007/eco-public-wifi/pkg/apperr"
	"github.com/arifislam007/eco-public-wifi/pkg/logging"
)

// OTPAuthenticator はワンタイムコードの発行と検証を行う。
// 検証対象は番号ごとの最新チャレンジのみであり、新しいコードの
// 発行により古いコードは有効期限内でも無効になる。
type OTPAuthenticator struct {
	otps    OTPStore
	mobiles MobileStore
	creds   CredentialStore
	log     *slog.Logger
	ttl     time.Duration
	now     func() time.Time

	// maskMobile はログ上の番号マスキングの有効フラグ
	maskMobile bool
}

// NewOTPAuthenticator はOTPAuthenticatorを生成する。
func NewOTPAuthenticator(otps OTPStore, mobiles MobileStore, creds CredentialStore, cfg *config.Config, logger *slog.Logger) *OTPAuthenticator {
	return &OTPAuthenticator{
		otps:       otps,
		mobiles:    mobiles,
		creds:      creds,
		log:        logger,
		ttl:        config.OTPTTL,
		now:        time.Now,
		maskMobile: cfg.LogMaskMobile,
	}
}

// IssueChallenge は正規化済み番号へ新しいコードを発行する。
// SMSゲートウェイへの送信は行わず、配信要求のレコードをログに残す。
func (a *OTPAuthenticator) IssueChallenge(ctx context.Context, rawMobile string) (*OTPChallenge, error) {
	mobile, err := NormalizeMobile(rawMobile)
	if err != nil {
		return nil, err
	}

	code, err := generateCode(config.OTPCodeDigits)
	if err != nil {
		return nil, err
	}

	now := a.now()
	challenge := &OTPChallenge{
		Mobile:    mobile,
		Code:      code,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(a.ttl).Unix(),
	}
	if err := a.otps.Push(ctx, challenge); err != nil {
		return nil, err
	}

	a.log.Info("otp challenge issued",
		"event_id", "OTP_ISSUE",
		"mobile", logging.MaskMobile(mobile, a.maskMobile),
		"expires_at", challenge.ExpiresAt,
	)
	return challenge, nil
}

// Verify はコードを検証し、番号に対応するユーザー名を返す。
// 未紐づけの番号には新規ユーザーを合成して紐づける。
func (a *OTPAuthenticator) Verify(ctx context.Context, rawMobile, code string) (string, error) {
	mobile, err := NormalizeMobile(rawMobile)
	if err != nil {
		return "", err
	}

	challenge, err := a.otps.Newest(ctx, mobile)
	if err != nil {
		return "", err
	}
	if challenge.Verified {
		return "", apperr.ErrOTPInvalid
	}
	if !a.now().Before(time.Unix(challenge.ExpiresAt, 0)) {
		return "", apperr.ErrOTPInvalid
	}
	if subtle.ConstantTimeCompare([]byte(challenge.Code), []byte(code)) != 1 {
		return "", apperr.ErrOTPInvalid
	}
	if err := a.otps.MarkVerified(ctx, mobile); err != nil {
		return "", err
	}

	username, err := a.mobiles.Lookup(ctx, mobile)
	if err != nil {
		return "", err
	}
	if username == "" {
		username, err = a.provisionUser(ctx, mobile)
		if err != nil {
			return "", err
		}
	}

	a.log.Info("otp verified",
		"event_id", "OTP_VERIFY",
		"mobile", logging.MaskMobile(mobile, a.maskMobile),
		"username", username,
	)
	return username, nil
}

// provisionUser は番号から新規ユーザーを合成して紐づける。
// ベース名が衝突する場合は数値サフィックスを付ける。
func (a *OTPAuthenticator) provisionUser(ctx context.Context, mobile string) (string, error) {
	base := "mobile_" + strings.TrimPrefix(mobile, "+")
	username := base
	for i := 0; ; i++ {
		exists, err := a.creds.Exists(ctx, username)
		if err != nil {
			return "", err
		}
		if !exists {
			break
		}
		suffix, err := randomSuffix()
		if err != nil {
			return "", err
		}
		username = fmt.Sprintf("%s_%s", base, suffix)
		if i >= 10 {
			return "", fmt.Errorf("credential: could not find free username for %s", base)
		}
	}

	secret, err := randomSecret()
	if err != nil {
		return "", err
	}
	if err := a.creds.PutSecretAttributes(ctx, username, &SecretAttributes{Cleartext: secret}); err != nil {
		return "", err
	}
	if err := a.mobiles.Link(ctx, mobile, username); err != nil {
		return "", err
	}
	return username, nil
}

// generateCode は指定桁数の数字コードを生成する。先頭ゼロも許す。
func generateCode(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}

func randomSuffix() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n), nil
}

func randomSecret() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
