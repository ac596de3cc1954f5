package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"time"
)

// authHeaders — двухступенчатая подпись Bitunix:
//
//	digest = SHA256(nonce + timestamp + apiKey + queryString + body)
//	sign   = SHA256(digest + secretKey)
//
// Оба хэша — lowercase hex. Чистая функция от аргументов, nonce и timestamp
// передаются снаружи.
func authHeaders(apiKey, secretKey, queryString, body, nonce, timestamp string) map[string]string {
	digest := sha256Hex(nonce + timestamp + apiKey + queryString + body)
	sign := sha256Hex(digest + secretKey)

	return map[string]string{
		"api-key":      apiKey,
		"nonce":        nonce,
		"timestamp":    timestamp,
		"sign":         sign,
		"Content-Type": "application/json",
	}
}

func sha256Hex(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// newNonce — 32 hex-символа случайности; криптостойкость не требуется,
// но повторы в коротком окне недопустимы.
func newNonce() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

func msTimestamp(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// sortParams собирает query string для подписи: ключи по алфавиту,
// k=v через &, без экранирования — ровно то, что уходит в URL.
func sortParams(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}
	return strings.Join(parts, "&")
}
