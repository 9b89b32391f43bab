package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// maxTelegramAuthAge rejects widget payloads older than a day, per the
// Telegram Login Widget docs.
const maxTelegramAuthAge = 24 * time.Hour

var telegramBotToken string

func InitTelegram(botToken string) {
	telegramBotToken = botToken
}

// TelegramAuthRequest is the payload the Telegram Login Widget posts back.
// Optional fields absent from the payload must not enter the signature check.
type TelegramAuthRequest struct {
	ID        int64  `json:"id" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	PhotoURL  string `json:"photo_url"`
	AuthDate  int64  `json:"auth_date" binding:"required"`
	Hash      string `json:"hash" binding:"required"`
}

func (r TelegramAuthRequest) DisplayName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// checkString builds the data-check-string: sorted key=value pairs of every
// present field except hash, joined by newlines.
func (r TelegramAuthRequest) checkString() string {
	pairs := map[string]string{
		"id":         fmt.Sprintf("%d", r.ID),
		"first_name": r.FirstName,
		"auth_date":  fmt.Sprintf("%d", r.AuthDate),
	}
	if r.LastName != "" {
		pairs["last_name"] = r.LastName
	}
	if r.Username != "" {
		pairs["username"] = r.Username
	}
	if r.PhotoURL != "" {
		pairs["photo_url"] = r.PhotoURL
	}

	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+pairs[k])
	}

	return strings.Join(lines, "\n")
}

// VerifyTelegramAuth checks the HMAC-SHA256 signature of the widget payload.
// The key is SHA-256 of the bot token.
func VerifyTelegramAuth(req TelegramAuthRequest) bool {
	if telegramBotToken == "" {
		return false
	}

	if time.Since(time.Unix(req.AuthDate, 0)) > maxTelegramAuthAge {
		return false
	}

	secret := sha256.Sum256([]byte(telegramBotToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(req.checkString()))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(req.Hash))
}
