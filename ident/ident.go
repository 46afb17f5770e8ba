// Package ident generates short names for test resources such as streams,
// subjects and consumers.
package ident

import (
	rand "math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// uniqueSkip is how many leading hex digits of the millisecond clock
// UniqueEnough drops. They change only every few years.
const uniqueSkip = 6

// UniqueEnough returns a short token derived from the current time.
//
// Tokens produced at least one millisecond apart differ. The token contains
// only letters, so it is safe in stream names and subject tokens.
func UniqueEnough() string {
	return UniqueEnoughAt(time.Now())
}

// UniqueEnoughAt is UniqueEnough for a fixed instant.
//
// The Unix millisecond clock is rendered in lower hex, its first six digits
// are dropped and the digits 0-9 are shifted to the letters g-p.
func UniqueEnoughAt(t time.Time) string {
	hex := strconv.FormatInt(t.UnixMilli(), 16)
	if len(hex) > uniqueSkip {
		hex = hex[uniqueSkip:]
	}

	var sb strings.Builder
	sb.Grow(len(hex))
	for _, c := range hex {
		if c >= '0' && c <= '9' {
			sb.WriteRune(c - '0' + 'g')
		} else {
			sb.WriteRune(c)
		}
	}

	return sb.String()
}

// RandomString returns length lower-case hex characters drawn from the
// package-level PRNG. It is not suitable for secrets.
func RandomString(length int) string {
	if length <= 0 {
		return ""
	}

	var sb strings.Builder
	sb.Grow(length + 16)
	for sb.Len() < length {
		sb.WriteString(strconv.FormatUint(rand.Uint64(), 16)) //nolint:gosec // resource names only
	}

	return sb.String()[:length]
}

// NewMsgID returns a random message id for the Nats-Msg-Id header, which
// JetStream uses to drop duplicate publishes.
func NewMsgID() string {
	return uuid.NewString()
}
