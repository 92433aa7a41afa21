package jwt

import (
	"FoodShare-Backend/domain"
	"errors"
	"fmt"
	"github.com/golang-jwt/jwt/v4"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"log"
	"time"
)

const (
	tokenTTL          = 120 * time.Minute
	maxRevokedTokens  = 10000
	defaultIssuerName = "FOODSHARE"
)

type (
	JWTService interface {
		GenerateTokenUser(userId string, role string) string
		ValidateTokenUser(token string) (*jwt.Token, error)
		GetUserIDByToken(token string) (string, string, error)
		RevokeToken(token string) error
		IsRevoked(token string) bool
	}

	jwtUserClaim struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
		// revoked tokens only need remembering until they would expire anyway
		revoked *expirable.LRU[string, struct{}]
	}
)

func NewJWTService(secretKey string) JWTService {
	if secretKey == "" {
		log.Println("Warning: JWT_SECRET is empty, tokens are signed with an empty key")
	}
	return &jwtService{
		secretKey: secretKey,
		issuer:    defaultIssuerName,
		revoked:   expirable.NewLRU[string, struct{}](maxRevokedTokens, nil, tokenTTL),
	}
}

func (j *jwtService) GenerateTokenUser(userId string, role string) string {
	claims := jwtUserClaim{
		userId,
		role,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tx, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		log.Println(err)
	}
	return tx
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ValidateTokenUser(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &jwtUserClaim{}, j.parseToken)
}

func (j *jwtService) GetUserIDByToken(token string) (string, string, error) {
	if j.IsRevoked(token) {
		return "", "", domain.ErrTokenRevoked
	}

	t_Token, err := j.ValidateTokenUser(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", domain.ErrTokenExpired
		}
		return "", "", domain.ErrTokenInvalid
	}
	if !t_Token.Valid {
		return "", "", domain.ErrTokenInvalid
	}

	claims := t_Token.Claims.(*jwtUserClaim)

	id := fmt.Sprintf("%v", claims.UserID)
	role := fmt.Sprintf("%v", claims.Role)
	return id, role, nil
}

// RevokeToken rejects a still valid token for the rest of its lifetime.
func (j *jwtService) RevokeToken(token string) error {
	t_Token, err := j.ValidateTokenUser(token)
	if err != nil || !t_Token.Valid {
		return domain.ErrTokenInvalid
	}
	j.revoked.Add(token, struct{}{})
	return nil
}

func (j *jwtService) IsRevoked(token string) bool {
	return j.revoked.Contains(token)
}
