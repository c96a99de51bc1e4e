package role

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims represents the authorization claims transmitted via the session JWT.
type Claims struct {
	jwt.StandardClaims
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	IsAdmin   bool   `json:"is_admin,omitempty"`   // -> ADMIN DASHBOARD
	IsMentor  bool   `json:"is_mentor,omitempty"`  // -> MENTOR DASHBOARD
	IsStudent bool   `json:"is_student,omitempty"` // -> STUDENT DASHBOARD
}

func (c Claims) Flags() Flags {
	return Flags{IsAdmin: c.IsAdmin, IsMentor: c.IsMentor, IsStudent: c.IsStudent}
}

// NewClaims returns the claims of a session of the given role, valid for ttl.
func NewClaims(issuer, subject, username string, k Kind, ttl time.Duration) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    issuer,
			Subject:   subject,
			ExpiresAt: now.Add(ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
		Username:  username,
		IsAdmin:   k == Admin,
		IsMentor:  k == Mentor,
		IsStudent: k == Student,
	}
}

// GenerateToken generates a signed HS256 JWT token string representing the Claims.
func GenerateToken(claims *Claims, key []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(key)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// ParseToken verifies a token string and returns its claims.
func ParseToken(tokenString string, key []byte) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
