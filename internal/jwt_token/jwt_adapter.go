package jwttoken

import (
	"studycat/internal/platform/middleware"
)

// ValidatorAdapter exposes JWTService as a middleware.TokenValidator.
type ValidatorAdapter struct {
	service *JWTService
}

func NewValidatorAdapter(service *JWTService) *ValidatorAdapter {
	return &ValidatorAdapter{service: service}
}

func (a *ValidatorAdapter) ValidateToken(tokenString string) (*middleware.CuratorClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.CuratorClaims{
		CuratorID:  claims.CuratorID,
		APIVersion: claims.APIVersion,
	}, nil
}
