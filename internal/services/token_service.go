package services

import (
	"errors"
	"time"

	"github.com/agrolink/farm-exchange/internal/models"
	"github.com/agrolink/farm-exchange/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

type TokenClaims struct {
	ProfileID string `json:"profile_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

type TokenService struct {
	tokenRepo   *repository.TokenRepository
	profileRepo *repository.ProfileRepository
	jwtSecret   string
}

func NewTokenService(tokenRepo *repository.TokenRepository, profileRepo *repository.ProfileRepository, jwtSecret string) *TokenService {
	return &TokenService{
		tokenRepo:   tokenRepo,
		profileRepo: profileRepo,
		jwtSecret:   jwtSecret,
	}
}

func (s *TokenService) GenerateToken(profileID uuid.UUID, expiresIn time.Duration) (string, error) {
	profile, err := s.profileRepo.FindByID(profileID)
	if err != nil {
		return "", err
	}
	if profile == nil {
		return "", ErrProfileNotFound
	}

	claims := TokenClaims{
		ProfileID: profile.ID.String(),
		Role:      string(profile.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "farm-exchange",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	authToken := &models.AuthToken{
		ProfileID: profile.ID,
		Token:     tokenString,
		ExpiresAt: time.Now().Add(expiresIn),
	}

	if err := s.tokenRepo.Create(authToken); err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *TokenService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	dbToken, err := s.tokenRepo.FindByToken(tokenString)
	if err != nil {
		return nil, err
	}
	if dbToken == nil {
		return nil, ErrInvalidToken
	}

	if dbToken.ExpiresAt.Before(time.Now()) {
		return nil, ErrExpiredToken
	}

	return claims, nil
}

func (s *TokenService) ListProfileTokens(profileID uuid.UUID) ([]models.AuthToken, error) {
	profile, err := s.profileRepo.FindByID(profileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return s.tokenRepo.FindByProfileID(profileID)
}

func (s *TokenService) DeleteToken(tokenID, profileID uuid.UUID) error {
	return s.tokenRepo.Delete(tokenID, profileID)
}
