package auth

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// CheckinAuthMiddleware validates HMAC signatures on QR check-in submissions.
// The scanner devices sign the request body with a shared secret instead of
// carrying user tokens.
type CheckinAuthMiddleware struct {
	Secret  []byte
	MaxSkew time.Duration
}

// NewCheckinAuthMiddleware constructs check-in auth middleware.
func NewCheckinAuthMiddleware(secret []byte, maxSkew time.Duration) *CheckinAuthMiddleware {
	return &CheckinAuthMiddleware{Secret: secret, MaxSkew: maxSkew}
}

// Wrap enforces check-in signature validation.
func (m *CheckinAuthMiddleware) Wrap(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(m.Secret) == 0 {
			http.Error(w, "checkin auth not configured", http.StatusUnauthorized)
			return
		}
		timestamp := strings.TrimSpace(r.Header.Get("X-Checkin-Timestamp"))
		signature := strings.TrimSpace(r.Header.Get("X-Checkin-Signature"))
		if timestamp == "" || signature == "" {
			http.Error(w, "missing checkin signature", http.StatusUnauthorized)
			return
		}
		ts, err := strconv.ParseInt(timestamp, 10, 64)
		if err != nil {
			http.Error(w, "invalid checkin timestamp", http.StatusUnauthorized)
			return
		}
		skew := time.Since(time.Unix(ts, 0))
		if skew < 0 {
			skew = -skew
		}
		if m.MaxSkew > 0 && skew > m.MaxSkew {
			http.Error(w, "checkin signature expired", http.StatusUnauthorized)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "read body error", http.StatusBadRequest)
			return
		}
		_ = r.Body.Close()

		expected := computeCheckinSignature(m.Secret, timestamp, body)
		if !hmac.Equal([]byte(strings.ToLower(signature)), []byte(expected)) {
			http.Error(w, "invalid checkin signature", http.StatusUnauthorized)
			return
		}

		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

func computeCheckinSignature(secret []byte, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write([]byte(timestamp))
	_, _ = mac.Write([]byte("\n"))
	_, _ = mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
