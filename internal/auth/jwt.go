package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type Config struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

var cfg Config

func Init(c Config) error {
	if c.Secret == "" {
		return fmt.Errorf("JWT secret is not set")
	}
	cfg = c
	return nil
}

func GenerateAccessToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"sub": float64(userID),
		"typ": TokenTypeAccess,
		"exp": time.Now().Add(cfg.AccessTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// GenerateRefreshToken mints a refresh token carrying a jti so the server can
// revoke it on rotation.
func GenerateRefreshToken(userID uint, jti string) (string, error) {
	claims := jwt.MapClaims{
		"sub": float64(userID),
		"typ": TokenTypeRefresh,
		"jti": jti,
		"exp": time.Now().Add(cfg.RefreshTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// VerifyJWT validates the signature, expiry and token type, and returns the claims.
func VerifyJWT(tokenString, tokenType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(cfg.Secret), nil
	})

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("Invalid token claims")
	}

	if typ, _ := claims["typ"].(string); typ != tokenType {
		return nil, fmt.Errorf("Unexpected token type")
	}

	return claims, nil
}

func UserIDFromClaims(claims jwt.MapClaims) (uint, error) {
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, fmt.Errorf("Invalid subject in token claims")
	}
	return uint(sub), nil
}

func JTIFromClaims(claims jwt.MapClaims) (string, error) {
	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		return "", fmt.Errorf("Missing jti in token claims")
	}
	return jti, nil
}
