// Package token は署名付きセッショントークンの発行と検証を提供する。
//
// トークンはHS256署名のJWTで、ユーザーのメールアドレスをidentityクレームとして
// 埋め込む。サーバー側には保持しない（ステートレス）。有効期間は発行時刻から
// 固定（デフォルト1時間）で、クライアントのHTTP Only Cookieに保存される。
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// 検証失敗の種別。呼び出し側はこれらを区別してログに残せるが、
// HTTPレスポンスでは単一の401に畳み込むこと。
var (
	// ErrTokenMalformed はトークンがJWTとして解析できないことを示す。
	ErrTokenMalformed = errors.New("token is malformed")
	// ErrTokenExpired はトークンの有効期限が切れていることを示す。
	ErrTokenExpired = errors.New("token is expired")
	// ErrTokenInvalid は署名検証の失敗など、その他の無効なトークンを示す。
	ErrTokenInvalid = errors.New("token is invalid")
)

// sessionClaims はセッショントークンのクレームセット。
type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Codec はセッショントークンの発行と検証を行う。
// 生成後はイミュータブルであり、複数goroutineから安全に使用できる。
type Codec struct {
	secret   []byte
	lifetime time.Duration
}

// New はCodecを生成する。
// secretが空の場合はエラーを返す（設定エラーとして起動時に検出する）。
// lifetimeが0以下の場合は1時間を使用する。
func New(secret string, lifetime time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	if lifetime <= 0 {
		lifetime = time.Hour
	}
	return &Codec{
		secret:   []byte(secret),
		lifetime: lifetime,
	}, nil
}

// Issue はidentity（メールアドレス）を埋め込んだ署名付きトークンを発行する。
// 有効期限は発行時刻からlifetime後に設定される。
func (c *Codec) Issue(identity string) (string, error) {
	if identity == "" {
		return "", errors.New("identity must not be empty")
	}

	now := time.Now()
	claims := sessionClaims{
		Email: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.lifetime)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify はトークンの署名と有効期限を検証し、identityを返す。
// 失敗時はErrTokenMalformed、ErrTokenExpired、ErrTokenInvalidのいずれかを
// ラップしたエラーを返す。
func (c *Codec) Verify(tokenString string) (string, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", fmt.Errorf("%w: %v", ErrTokenExpired, err)
		default:
			return "", fmt.Errorf("%w: %v", ErrTokenInvalid, err)
		}
	}

	if !parsed.Valid || claims.Email == "" {
		return "", ErrTokenInvalid
	}

	return claims.Email, nil
}
