package usecase

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredential = errors.New("invalid credential")

// AuthUsecase は単一オペレーターのログイン。
// ユーザーテーブルは持たず、設定のbcryptハッシュと照合する。
type AuthUsecase struct {
	passwordHash []byte
	secret       []byte
	tokenTTL     time.Duration
}

func NewAuthUsecase(passwordHash string, secret string, tokenTTL time.Duration) *AuthUsecase {
	return &AuthUsecase{
		passwordHash: []byte(passwordHash),
		secret:       []byte(secret),
		tokenTTL:     tokenTTL,
	}
}

// Login はパスワード照合に成功したらHS256のJWTを発行する。
func (u *AuthUsecase) Login(password string) (string, time.Time, error) {
	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)); err != nil {
		return "", time.Time{}, ErrInvalidCredential
	}

	now := time.Now()
	expiresAt := now.Add(u.tokenTTL)

	claims := jwt.MapClaims{
		"sub": "operator",
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(u.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}
