package provider

import (
	"encoding/hex"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Redact replaces every occurrence of secret in s with a masked marker that
// carries a short fingerprint, so logs can tell keys apart without exposing them.
func Redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "***"+KeyFingerprint(secret))
}

// KeyFingerprint returns the first 8 hex chars of the blake2b-256 digest of key.
func KeyFingerprint(key string) string {
	sum := blake2b.Sum256([]byte(key))
	return "(" + hex.EncodeToString(sum[:4]) + ")"
}

// LogRequest logs an API request being made. The URL must already be redacted.
func LogRequest(provider, method, url string, params map[string]interface{}) {
	if len(params) > 0 {
		log.Printf("[%s] %s %s params=%v", provider, method, url, params)
	} else {
		log.Printf("[%s] %s %s", provider, method, url)
	}
}

// LogResponse logs an API response received.
func LogResponse(provider string, statusCode int, duration time.Duration, bodyBytes int) {
	log.Printf("[%s] response status=%d duration=%dms bytes=%d",
		provider, statusCode, duration.Milliseconds(), bodyBytes)
}

// LogRetry logs a failed attempt that will be retried.
func LogRetry(provider string, attempt, maxAttempts int, delay time.Duration, err error) {
	log.Printf("[%s] attempt %d/%d failed: %v (retrying in %v)",
		provider, attempt, maxAttempts, err, delay)
}

// LogError logs an error from an API operation.
func LogError(provider, operation string, err error) {
	log.Printf("[%s] %s error: %v", provider, operation, err)
}

// LogTransform logs normalization of a payload.
func LogTransform(provider string, inputCount, outputCount, rejected int, duration time.Duration) {
	log.Printf("[%s] normalized %d -> %d records (rejected %d) in %dms",
		provider, inputCount, outputCount, rejected, duration.Milliseconds())
}

// LogUpsert logs database write operations.
func LogUpsert(provider string, count int, duration time.Duration) {
	log.Printf("[%s] persisted %d records in %dms",
		provider, count, duration.Milliseconds())
}

// LogFallback logs a fallback stage transition.
func LogFallback(stage string, entries int, f Filters) {
	log.Printf("[fallback] stage=%s entries=%d state=%q district=%q limit=%d",
		stage, entries, f.State, f.District, f.Limit)
}
