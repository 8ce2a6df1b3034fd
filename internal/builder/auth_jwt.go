package builder

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"time"

	"github.com/arayel/squrl/internal/objectmodel"
	"github.com/arayel/squrl/internal/resolver"
	"github.com/golang-jwt/jwt/v5"
)

// applyJwtAuth substitutes variables into jwtAuth's payload, signs it fresh,
// and sets the Authorization header to "Bearer <token>" (spec.md §4.4 "JWT
// auth": a JWT is generated on every request, not cached).
func applyJwtAuth(headers *OrderedHeader, jwtAuth *objectmodel.JwtAuth, r *resolver.Resolver) error {
	token, err := signJWT(jwtAuth, r)
	if err != nil {
		return err
	}
	headers.Add("Authorization", "Bearer "+token)
	return nil
}

// signJWT builds and signs a JWT from jwtAuth.Payload (a raw JSON claims
// object, variable-substituted before parsing) plus an automatic "iat"
// claim, using the algorithm and secret/key named by jwtAuth.
func signJWT(jwtAuth *objectmodel.JwtAuth, r *resolver.Resolver) (string, error) {
	payloadJSON := r.Substitute(jwtAuth.Payload)

	claims := jwt.MapClaims{}
	if payloadJSON != "" {
		if err := json.Unmarshal([]byte(payloadJSON), &claims); err != nil {
			return "", fmt.Errorf("%w: payload is not a JSON object: %v", ErrJWT, err)
		}
	}
	claims["iat"] = time.Now().Unix()

	method := jwt.GetSigningMethod(jwtAuth.Algorithm)
	if method == nil {
		return "", fmt.Errorf("%w: unsupported algorithm %q", ErrJWT, jwtAuth.Algorithm)
	}

	key, err := jwtSigningKey(jwtAuth, r)
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(method, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrJWT, err)
	}
	return signed, nil
}

// jwtSigningKey decodes jwtAuth.Secret into the key shape jwt-go expects for
// its algorithm family: raw bytes for HMAC, a parsed private key for
// RSA/ECDSA/EdDSA.
func jwtSigningKey(jwtAuth *objectmodel.JwtAuth, r *resolver.Resolver) (interface{}, error) {
	secret := r.Substitute(jwtAuth.Secret)

	switch {
	case len(jwtAuth.Algorithm) >= 2 && jwtAuth.Algorithm[:2] == "HS":
		switch jwtAuth.SecretType {
		case objectmodel.JwtSecretBase64:
			decoded, err := base64.StdEncoding.DecodeString(secret)
			if err != nil {
				return nil, fmt.Errorf("%w: base64 secret: %v", ErrJWT, err)
			}
			return decoded, nil
		default:
			return []byte(secret), nil
		}
	default:
		return parsePEMKey(jwtAuth.Algorithm, secret)
	}
}

// parsePEMKey decodes a PEM-encoded private key appropriate for algorithm's
// family (RSA for RS*/PS*, ECDSA for ES*, Ed25519 for EdDSA).
func parsePEMKey(algorithm, secret string) (interface{}, error) {
	block, _ := pem.Decode([]byte(secret))
	if block == nil {
		return nil, fmt.Errorf("%w: secret is not PEM-encoded", ErrJWT)
	}

	switch {
	case len(algorithm) >= 2 && (algorithm[:2] == "RS" || algorithm[:2] == "PS"):
		if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
			return key, nil
		}
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: rsa key: %v", ErrJWT, err)
		}
		return key, nil

	case len(algorithm) >= 2 && algorithm[:2] == "ES":
		key, err := x509.ParseECPrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: ec key: %v", ErrJWT, err)
		}
		return key, nil

	case algorithm == "EdDSA":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: ed25519 key: %v", ErrJWT, err)
		}
		edKey, ok := key.(ed25519.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: pem key is not ed25519", ErrJWT)
		}
		return edKey, nil

	default:
		return nil, fmt.Errorf("%w: unsupported algorithm %q", ErrJWT, algorithm)
	}
}
