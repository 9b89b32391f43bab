package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func signRequest(botToken string, req TelegramAuthRequest) string {
	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(req.checkString()))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyTelegramAuth(t *testing.T) {
	InitTelegram("123456:bot-token")

	req := TelegramAuthRequest{
		ID:        777000,
		FirstName: "Tele",
		LastName:  "Gram",
		Username:  "telegram",
		AuthDate:  time.Now().Unix(),
	}
	req.Hash = signRequest("123456:bot-token", req)

	require.True(t, VerifyTelegramAuth(req))
}

func TestVerifyTelegramAuthOptionalFields(t *testing.T) {
	InitTelegram("123456:bot-token")

	// Absent optional fields stay out of the data-check-string.
	req := TelegramAuthRequest{
		ID:        777000,
		FirstName: "Tele",
		AuthDate:  time.Now().Unix(),
	}
	req.Hash = signRequest("123456:bot-token", req)

	require.True(t, VerifyTelegramAuth(req))
}

func TestVerifyTelegramAuthTampered(t *testing.T) {
	InitTelegram("123456:bot-token")

	req := TelegramAuthRequest{
		ID:        777000,
		FirstName: "Tele",
		AuthDate:  time.Now().Unix(),
	}
	req.Hash = signRequest("123456:bot-token", req)
	req.FirstName = "Mallory"

	require.False(t, VerifyTelegramAuth(req))
}

func TestVerifyTelegramAuthStale(t *testing.T) {
	InitTelegram("123456:bot-token")

	req := TelegramAuthRequest{
		ID:        777000,
		FirstName: "Tele",
		AuthDate:  time.Now().Add(-25 * time.Hour).Unix(),
	}
	req.Hash = signRequest("123456:bot-token", req)

	require.False(t, VerifyTelegramAuth(req))
}

func TestVerifyTelegramAuthNoBotToken(t *testing.T) {
	InitTelegram("")

	req := TelegramAuthRequest{
		ID:        777000,
		FirstName: "Tele",
		AuthDate:  time.Now().Unix(),
	}

	require.False(t, VerifyTelegramAuth(req))
}

func TestDisplayName(t *testing.T) {
	require.Equal(t, "Tele Gram", TelegramAuthRequest{FirstName: "Tele", LastName: "Gram"}.DisplayName())
	require.Equal(t, "Tele", TelegramAuthRequest{FirstName: "Tele"}.DisplayName())
}
