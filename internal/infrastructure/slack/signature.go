package slack

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// MaxSignatureAge replay window cho X-Slack-Request-Timestamp
const MaxSignatureAge = 5 * time.Minute

var ErrInvalidSignature = errors.New("invalid slack signature")

// BuildSignature tính "v0=" + hex(HMAC-SHA256(secret, "v0:{ts}:{body}"))
func BuildSignature(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("v0:" + timestamp + ":"))
	mac.Write(body)
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks X-Slack-Signature against the raw body
func VerifySignature(secret, timestamp, signature string, body []byte, now time.Time) error {
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad timestamp", ErrInvalidSignature)
	}

	age := now.Sub(time.Unix(ts, 0))
	if age < 0 {
		age = -age
	}
	if age > MaxSignatureAge {
		return fmt.Errorf("%w: stale timestamp", ErrInvalidSignature)
	}

	expected := BuildSignature(secret, timestamp, body)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}
