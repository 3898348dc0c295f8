package jwttoken

import (
	"healthbridge/pkg/platform/middleware/auth"
)

// Validator returns the service as the auth middleware sees it.
func (s *JWTService) Validator() auth.JWTValidator {
	return middlewareValidator{s}
}

type middlewareValidator struct {
	service *JWTService
}

func (v middlewareValidator) ValidateToken(token string) (*auth.JWTClaims, error) {
	claims, err := v.service.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	// The middleware resolves Subject and HospitalID into an id.Actor.
	return &auth.JWTClaims{
		Subject:    claims.Subject,
		Role:       claims.Role,
		HospitalID: claims.HospitalID,
		JTI:        claims.ID,
	}, nil
}
