package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Piladin/ZTPAI/internal/core/domain"
	"github.com/Piladin/ZTPAI/internal/core/ports"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	defaultAccessTTL  = time.Hour
	defaultRefreshTTL = 24 * time.Hour
)

type sessionClaims struct {
	UserID    int64  `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenService issues HS256-signed access/refresh pairs.
type TokenService struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

var _ ports.TokenIssuer = (*TokenService)(nil)

func NewTokenService(secret, issuer string, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &TokenService{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (s *TokenService) IssuePair(user *domain.User) (ports.TokenPair, error) {
	access, err := s.sign(user.ID, tokenTypeAccess, s.accessTTL)
	if err != nil {
		return ports.TokenPair{}, err
	}
	refresh, err := s.sign(user.ID, tokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return ports.TokenPair{}, err
	}
	return ports.TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *TokenService) IssueAccess(userID int64) (string, error) {
	return s.sign(userID, tokenTypeAccess, s.accessTTL)
}

func (s *TokenService) ParseAccess(token string) (int64, error) {
	return s.parse(token, tokenTypeAccess)
}

func (s *TokenService) ParseRefresh(token string) (int64, error) {
	return s.parse(token, tokenTypeRefresh)
}

func (s *TokenService) sign(userID int64, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := sessionClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

func (s *TokenService) parse(token, wantType string) (int64, error) {
	claims := &sessionClaims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	tkn, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !tkn.Valid {
		return 0, domain.ErrInvalidToken
	}
	if claims.TokenType != wantType || claims.UserID < 1 {
		return 0, domain.ErrInvalidToken
	}
	return claims.UserID, nil
}
