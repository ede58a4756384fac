package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"mtambo/internal/models"
)

// TokenPair is what a successful login or refresh hands back.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Claims is the verified content of an access token.
type Claims struct {
	UserID      uuid.UUID
	AccountType string
	IsStaff     bool
	IsSuperuser bool
}

// TokenService issues HS256 access tokens and opaque refresh tokens. Refresh
// tokens are stored SHA-256-hashed with a revoked flag; logout revokes
// (blacklists) and every refresh rotates the stored row.
type TokenService struct {
	db            *gorm.DB
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewTokenService(db *gorm.DB, secret string, accessExpiry, refreshExpiry time.Duration) *TokenService {
	return &TokenService{
		db:            db,
		secret:        []byte(secret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// Issue generates an access/refresh pair for the user.
func (s *TokenService) Issue(user *models.User) (*TokenPair, error) {
	access, err := s.generateAccess(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.generateRefresh(user)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Verify parses and validates an access token, returning its claims.
func (s *TokenService) Verify(access string) (*Claims, error) {
	token, err := jwt.Parse(access, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, _ := mapClaims["user_id"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalidToken
	}
	accountType, _ := mapClaims["account_type"].(string)
	isStaff, _ := mapClaims["is_staff"].(bool)
	isSuperuser, _ := mapClaims["is_superuser"].(bool)
	return &Claims{
		UserID:      userID,
		AccountType: accountType,
		IsStaff:     isStaff,
		IsSuperuser: isSuperuser,
	}, nil
}

// Refresh exchanges a valid refresh token for a fresh pair. The presented
// token is revoked either way once matched, so each refresh token is
// single-use.
func (s *TokenService) Refresh(refresh string) (*TokenPair, error) {
	tokenHash := hashToken(refresh)

	var stored models.RefreshToken
	err := s.db.Where("token_hash = ? AND revoked = ?", tokenHash, false).First(&stored).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if time.Now().After(stored.ExpiresAt) {
		s.db.Model(&stored).Update("revoked", true)
		return nil, ErrInvalidToken
	}
	if err := s.db.Model(&stored).Update("revoked", true).Error; err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.Where("id = ?", stored.UserID).First(&user).Error; err != nil {
		return nil, ErrInvalidToken
	}
	if !user.IsActive {
		return nil, ErrInvalidToken
	}
	return s.Issue(&user)
}

// Blacklist revokes a refresh token so it can never be exchanged again.
// Unknown tokens report ErrInvalidToken.
func (s *TokenService) Blacklist(refresh string) error {
	res := s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", hashToken(refresh)).
		Update("revoked", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvalidToken
	}
	return nil
}

func (s *TokenService) generateAccess(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":      user.ID.String(),
		"account_type": user.AccountType,
		"is_staff":     user.IsStaff,
		"is_superuser": user.IsSuperuser,
		"iat":          now.Unix(),
		"exp":          now.Add(s.accessExpiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenService) generateRefresh(user *models.User) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("could not generate refresh token: %w", err)
	}
	rawToken := base64.URLEncoding.EncodeToString(raw)

	record := models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.refreshExpiry),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("could not store refresh token: %w", err)
	}
	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
