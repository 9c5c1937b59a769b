// Package jwttoken issues and validates curator bearer tokens.
package jwttoken

import (
	"errors"
	"time"

	id "studycat/pkg/domain"
	dErrors "studycat/pkg/domain-errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the claims carried by a curator token.
type Claims struct {
	CuratorID  string `json:"curator_id"`
	APIVersion string `json:"api_version,omitempty"`
	jwt.RegisteredClaims
}

// JWTService signs and validates HS256 curator tokens.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
	now        func() time.Time
}

func NewJWTService(signingKey string, issuer string, audience string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		now:        time.Now,
	}
}

// GenerateToken issues a token for curatorID valid for expiresIn.
func (s *JWTService) GenerateToken(curatorID id.CuratorID, version id.APIVersion, expiresIn time.Duration) (string, error) {
	if curatorID.IsNil() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "curator ID required")
	}
	now := s.now()
	claims := Claims{
		CuratorID: curatorID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   curatorID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	}
	if !version.IsNil() {
		claims.APIVersion = version.String()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}
	return signed, nil
}

// ValidateToken checks signature, expiry, issuer and audience.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if _, err := id.ParseCuratorID(claims.CuratorID); err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid curator claim")
	}
	return claims, nil
}
