package recommendation

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SignatureHeader carries the signed token on webhook deliveries.
const SignatureHeader = "X-ReelTV-Signature"

const signatureIssuer = "reeltv"

// signatureTTL bounds how long a receiver should accept a delivery.
const signatureTTL = 5 * time.Minute

var ErrBodyMismatch = errors.New("webhook body does not match signature")

// SignatureClaims bind a webhook body to the card it announces.
type SignatureClaims struct {
	BodySHA256 string `json:"body_sha256"`
	jwt.RegisteredClaims
}

func bodyDigest(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// signBody returns an HS256 token over body for the card with cardID.
func signBody(secret []byte, cardID string, body []byte, now time.Time) (string, error) {
	claims := &SignatureClaims{
		BodySHA256: bodyDigest(body),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   cardID,
			Issuer:    signatureIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(signatureTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifySignature checks a delivery's token against its body. Receivers in
// Go can use it directly.
func VerifySignature(secret []byte, tokenString string, body []byte) (*SignatureClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SignatureClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithIssuer(signatureIssuer))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SignatureClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.BodySHA256 != bodyDigest(body) {
		return nil, ErrBodyMismatch
	}
	return claims, nil
}
