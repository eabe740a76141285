package auth

import "time"

var _ Session = &SessionObject{}

// SessionObject is the session view of a validated token
type SessionObject struct {
	UserID         string         `json:"user_id,omitempty"`
	Audience       []string       `json:"audience,omitempty"`
	Issuer         string         `json:"issuer,omitempty"`
	IssuedAt       *time.Time     `json:"issued_at,omitempty"`
	ExpirationDate *time.Time     `json:"expiration_date,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
}

func (s *SessionObject) GetUserID() string {
	return s.UserID
}

func (s *SessionObject) GetAudience() []string {
	return s.Audience
}

func (s *SessionObject) GetIssuer() string {
	return s.Issuer
}

func (s *SessionObject) GetIssuedAt() *time.Time {
	return s.IssuedAt
}

func (s *SessionObject) GetData() map[string]any {
	return s.Data
}

func sessionFromAuthClaims(claims AuthClaims) (*SessionObject, error) {
	if claims == nil {
		return nil, ErrUnableToMapClaims
	}

	session := &SessionObject{
		UserID: claims.UserID(),
		Data: map[string]any{
			"role": claims.Role(),
		},
	}

	if issued := claims.IssuedAt(); !issued.IsZero() {
		session.IssuedAt = &issued
	}

	if expires := claims.Expires(); !expires.IsZero() {
		session.ExpirationDate = &expires
	}

	if jwtClaims, ok := claims.(*JWTClaims); ok {
		session.Issuer = jwtClaims.RegisteredClaims.Issuer
		session.Audience = jwtClaims.RegisteredClaims.Audience
	}

	return session, nil
}
