package portfolio

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"strings"
)

// pssSaltLength is the salt length the exchange's signature verifier
// expects. It is not the digest length, so rsa.PSSSaltLengthAuto would
// produce signatures the API rejects.
const pssSaltLength = 32

// RequestSigner signs authenticated exchange requests with RSA-PSS
// over SHA256. The signed message is timestampMs + METHOD + path.
type RequestSigner struct {
	keyID      string
	privateKey *rsa.PrivateKey
}

// NewRequestSigner builds a signer from an access key ID and a
// PEM-encoded RSA private key.
func NewRequestSigner(keyID string, privateKeyPEM []byte) (*RequestSigner, error) {
	key, err := ParsePrivateKey(privateKeyPEM)
	if err != nil {
		return nil, err
	}
	return &RequestSigner{keyID: keyID, privateKey: key}, nil
}

// KeyID returns the access key identifier sent alongside signatures.
func (s *RequestSigner) KeyID() string {
	return s.keyID
}

// Sign produces the base64 signature for one request.
func (s *RequestSigner) Sign(timestampMs, method, path string) (string, error) {
	message := timestampMs + strings.ToUpper(method) + path
	digest := sha256.Sum256([]byte(message))

	signature, err := rsa.SignPSS(rand.Reader, s.privateKey, crypto.SHA256, digest[:], &rsa.PSSOptions{
		SaltLength: pssSaltLength,
		Hash:       crypto.SHA256,
	})
	if err != nil {
		return "", fmt.Errorf("signing request: %w", err)
	}
	return base64.StdEncoding.EncodeToString(signature), nil
}

// ParsePrivateKey decodes a PEM-encoded RSA private key in either
// PKCS#8 or PKCS#1 form.
func ParsePrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in private key")
	}

	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("private key is not RSA")
		}
		return rsaKey, nil
	}

	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	return key, nil
}
