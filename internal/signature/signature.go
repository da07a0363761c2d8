// Package signature computes and verifies the integrity code exchanged with the payment gateway.
//
// Parameters are canonicalized by dropping the signature field, sorting the remaining keys and
// joining query-escaped key=value pairs with '&'. The canonical string is authenticated with
// HMAC-SHA256 keyed by the merchant key and rendered as lower-case hex.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"sort"
	"strings"
)

// Field is the parameter name that carries the signature on the wire.
const Field = "CHECKSUMHASH"

// ErrEmptySecret is returned when signing without a merchant key.
var ErrEmptySecret = errors.New("signature: empty secret")

// Sign returns the integrity code for params.
func Sign(params map[string]string, secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	return hex.EncodeToString(mac(params, secret)), nil
}

// Verify reports whether candidate is the integrity code for params.
// It never fails loudly: a missing secret or a malformed candidate yields false.
func Verify(params map[string]string, secret, candidate string) bool {
	if secret == "" || candidate == "" {
		return false
	}

	got, err := hex.DecodeString(strings.ToLower(strings.TrimSpace(candidate)))
	if err != nil || len(got) != sha256.Size {
		return false
	}

	return hmac.Equal(mac(params, secret), got)
}

// VerifyParams verifies the signature embedded in params under Field.
func VerifyParams(params map[string]string, secret string) bool {
	candidate, ok := params[Field]
	if !ok {
		return false
	}
	return Verify(params, secret, candidate)
}

// Canonicalize renders params in the order and encoding that is signed.
func Canonicalize(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == Field {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[k]))
	}
	return b.String()
}

func mac(params map[string]string, secret string) []byte {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(Canonicalize(params))) //nolint:errcheck // hash.Hash writes never fail
	return h.Sum(nil)
}
