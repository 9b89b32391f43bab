package handlers_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	r := setupTest(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Alice",
		"email":    "Alice@Example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	require.NotEmpty(t, body["access_token"])
	require.NotEmpty(t, body["refresh_token"])
	require.Equal(t, "bearer", body["token_type"])

	user := body["user"].(map[string]interface{})
	require.Equal(t, "Alice", user["name"])
	// Email is normalized on the way in.
	require.Equal(t, "alice@example.com", user["email"])

	// Login with any casing of the same address.
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "ALICE@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotEmpty(t, decodeBody(t, w)["access_token"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r := setupTest(t)

	registerUser(t, r, "Alice", "alice@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Imposter",
		"email":    "alice@example.com",
		"password": "password456",
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	r := setupTest(t)

	registerUser(t, r, "Alice", "alice@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "not-the-password",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe(t *testing.T) {
	r := setupTest(t)

	_, token := registerUser(t, r, "Alice", "alice@example.com")

	w := doJSON(t, r, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	user := decodeBody(t, w)["user"].(map[string]interface{})
	require.Equal(t, "Alice", user["name"])

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshRotation(t *testing.T) {
	r := setupTest(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	firstRefresh := decodeBody(t, w)["refresh_token"].(string)

	w = doJSON(t, r, http.MethodPost, "/api/auth/refresh", "", gin.H{
		"refresh_token": firstRefresh,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	secondRefresh := body["refresh_token"].(string)
	require.NotEqual(t, firstRefresh, secondRefresh)

	// The consumed token must not work twice.
	w = doJSON(t, r, http.MethodPost, "/api/auth/refresh", "", gin.H{
		"refresh_token": firstRefresh,
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// The rotated one still does.
	w = doJSON(t, r, http.MethodPost, "/api/auth/refresh", "", gin.H{
		"refresh_token": secondRefresh,
	})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	r := setupTest(t)

	_, token := registerUser(t, r, "Alice", "alice@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/auth/refresh", "", gin.H{
		"refresh_token": token,
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

// signTelegramPayload reproduces the Login Widget signature so the handler
// accepts the payload.
func signTelegramPayload(botToken string, fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+fields[k])
	}

	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestTelegramAuth(t *testing.T) {
	r := setupTest(t)

	authDate := time.Now().Unix()
	fields := map[string]string{
		"id":         "777000",
		"first_name": "Tele",
		"last_name":  "Gram",
		"username":   "telegram",
		"auth_date":  fmt.Sprintf("%d", authDate),
	}

	payload := gin.H{
		"id":         777000,
		"first_name": "Tele",
		"last_name":  "Gram",
		"username":   "telegram",
		"auth_date":  authDate,
		"hash":       signTelegramPayload(testBotToken, fields),
	}

	w := doJSON(t, r, http.MethodPost, "/api/auth/telegram", "", payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	require.Equal(t, "Tele Gram", body["username"])
	require.NotEmpty(t, body["access_token"])
	firstID := body["id"].(float64)

	// A second login with the same telegram id reuses the account.
	w = doJSON(t, r, http.MethodPost, "/api/auth/telegram", "", payload)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, firstID, decodeBody(t, w)["id"].(float64))

	// Tampered payloads are rejected.
	payload["first_name"] = "Mallory"
	w = doJSON(t, r, http.MethodPost, "/api/auth/telegram", "", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
