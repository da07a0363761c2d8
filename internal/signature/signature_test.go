package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "VrUA6E69o_R%a%te"

func initiationParams() map[string]string {
	return map[string]string{
		"MID":              "Merchant0001",
		"WEBSITE":          "DEFAULT",
		"CHANNEL_ID":       "WEB",
		"INDUSTRY_TYPE_ID": "Retail109",
		"ORDER_ID":         "ORD0192F3A1B2C37D4E8F9A0B1C2D3E4F5A",
		"CUST_ID":          "a@b.com",
		"TXN_AMOUNT":       "499.00",
		"CALLBACK_URL":     "https://shop.example.com/api/paytm/callback",
		"EMAIL":            "a@b.com",
		"MOBILE_NO":        "9999999999",
	}
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name     string
		params   map[string]string
		expected string
	}{
		{
			name:     "empty map",
			params:   map[string]string{},
			expected: "",
		},
		{
			name:     "keys sorted lexicographically",
			params:   map[string]string{"b": "2", "a": "1", "C": "3"},
			expected: "C=3&a=1&b=2",
		},
		{
			name:     "signature field excluded",
			params:   map[string]string{"ORDERID": "1", Field: "abc"},
			expected: "ORDERID=1",
		},
		{
			name:     "separators in values are escaped",
			params:   map[string]string{"a": "x&b=y", "b": "z"},
			expected: "a=x%26b%3Dy&b=z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Canonicalize(tt.params))
		})
	}
}

func TestSign_MatchesHMACOfCanonicalForm(t *testing.T) {
	params := map[string]string{"MID": "m1", "ORDERID": "o1"}

	got, err := Sign(params, testSecret)
	require.NoError(t, err)

	h := hmac.New(sha256.New, []byte(testSecret))
	h.Write([]byte("MID=m1&ORDERID=o1"))
	assert.Equal(t, hex.EncodeToString(h.Sum(nil)), got)
}

func TestSign_EmptySecret(t *testing.T) {
	_, err := Sign(initiationParams(), "")
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestSign_IgnoresExistingSignatureField(t *testing.T) {
	params := initiationParams()
	first, err := Sign(params, testSecret)
	require.NoError(t, err)

	params[Field] = first
	second, err := Sign(params, testSecret)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestVerify_RoundTrip(t *testing.T) {
	cases := []map[string]string{
		{},
		{"k": ""},
		initiationParams(),
		{"ORDERID": "ORD1", "STATUS": "TXN_SUCCESS", "RESPMSG": "Txn Success | ok = yes"},
	}
	secrets := []string{"k", testSecret, "a much longer merchant key with spaces"}

	for _, params := range cases {
		for _, secret := range secrets {
			sig, err := Sign(params, secret)
			require.NoError(t, err)
			assert.True(t, Verify(params, secret, sig))
		}
	}
}

func TestVerify_DetectsSingleCharacterTampering(t *testing.T) {
	params := initiationParams()
	sig, err := Sign(params, testSecret)
	require.NoError(t, err)

	for i := range sig {
		tampered := []byte(sig)
		if tampered[i] == '0' {
			tampered[i] = '1'
		} else {
			tampered[i] = '0'
		}
		assert.False(t, Verify(params, testSecret, string(tampered)), "position %d", i)
	}
}

func TestVerify_DetectsParameterTampering(t *testing.T) {
	params := initiationParams()
	sig, err := Sign(params, testSecret)
	require.NoError(t, err)

	params["TXN_AMOUNT"] = "1.00"
	assert.False(t, Verify(params, testSecret, sig))
}

func TestVerify_MalformedInput(t *testing.T) {
	params := initiationParams()
	sig, err := Sign(params, testSecret)
	require.NoError(t, err)

	tests := []struct {
		name      string
		secret    string
		candidate string
	}{
		{"empty candidate", testSecret, ""},
		{"non-hex candidate", testSecret, "not-a-signature"},
		{"truncated candidate", testSecret, sig[:len(sig)-2]},
		{"wrong secret", "other", sig},
		{"empty secret", "", sig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Verify(params, tt.secret, tt.candidate))
		})
	}
}

func TestVerify_AcceptsUpperCaseHex(t *testing.T) {
	params := initiationParams()
	sig, err := Sign(params, testSecret)
	require.NoError(t, err)

	upper := []byte(sig)
	for i, c := range upper {
		if c >= 'a' && c <= 'f' {
			upper[i] = c - 'a' + 'A'
		}
	}
	assert.True(t, Verify(params, testSecret, string(upper)))
}

func TestVerifyParams(t *testing.T) {
	params := initiationParams()
	sig, err := Sign(params, testSecret)
	require.NoError(t, err)

	assert.False(t, VerifyParams(params, testSecret), "missing field must not verify")

	params[Field] = sig
	assert.True(t, VerifyParams(params, testSecret))

	params["EMAIL"] = "x@y.com"
	assert.False(t, VerifyParams(params, testSecret))
}
