// Package orderid generates merchant order identifiers.
package orderid

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// Prefix starts every generated order id.
const Prefix = "ORD"

// Generator produces order identifiers
type Generator interface {
	Generate() string
}

// GeneratorFunc adapts a plain function to Generator
type GeneratorFunc func() string

// Generate calls f.
func (f GeneratorFunc) Generate() string {
	return f()
}

type uuidV7Generator struct{}

// New returns the default generator.
//
// Identifiers are a UUIDv7 rendered as upper-case hex: a 48-bit millisecond timestamp, a 12-bit
// sub-millisecond sequence and 62 bits from crypto/rand. Ids sort by creation time and stay
// within the gateway's alphanumeric order id alphabet.
func New() Generator {
	return uuidV7Generator{}
}

func (uuidV7Generator) Generate() string {
	id := uuid.Must(uuid.NewV7())
	return Prefix + strings.ToUpper(hex.EncodeToString(id[:]))
}
