package model

import "github.com/golang-jwt/jwt/v5"

// UserClaims are JWT claims minted by the identity provider. The
// service trusts UserID as an opaque, stable identifier.
type UserClaims struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName,omitempty"`
	jwt.RegisteredClaims
}

// TokenRequest is the request body for the dev token mint
type TokenRequest struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// TokenResponse is returned by the dev token mint
type TokenResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}
