package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/papertrade-lab/stratler/internal/types"
	"github.com/papertrade-lab/stratler/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const userContextKey = "UserID"

// userClaims are the JWT claims carried by issued tokens.
type userClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(bytes), nil
}

func checkPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func generateToken(userID, secret string, expiresAt time.Time) (string, error) {
	claims := userClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secret))
}

func parseToken(tokenStr, secret string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &userClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeUnauthorized, "invalid or expired token", err)
	}

	claims, ok := token.Claims.(*userClaims)
	if !ok || !token.Valid {
		return "", errors.New(errors.ErrCodeUnauthorized, "invalid token claims")
	}

	return claims.UserID, nil
}

// AuthMiddleware enforces bearer-token auth on protected routes.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":  int(errors.ErrCodeUnauthorized),
				"error": "missing Authorization header",
			})

			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":  int(errors.ErrCodeUnauthorized),
				"error": "invalid Authorization header",
			})

			return
		}

		userID, err := parseToken(parts[1], secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":  int(errors.ErrCodeUnauthorized),
				"error": "invalid or expired token",
			})

			return
		}

		c.Set(userContextKey, userID)
		c.Next()
	}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (s *Server) registerUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid registration payload", err))
		return
	}

	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		respondError(c, errors.Wrap(errors.ErrCodeUnknown, "failed to hash password", err))
		return
	}

	user := types.User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreateUser(user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user_id":  user.ID,
		"username": user.Username,
	})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) loginUser(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid login payload", err))
		return
	}

	user, exists, err := s.store.GetUserByUsername(strings.TrimSpace(req.Username))
	if err != nil {
		respondError(c, err)
		return
	}

	if !exists || checkPassword(user.PasswordHash, req.Password) != nil {
		respondError(c, errors.New(errors.ErrCodeUnauthorized, "invalid credentials"))
		return
	}

	expiresAt := time.Now().Add(s.cfg.Auth.TokenTTL)

	token, err := generateToken(user.ID, s.cfg.Auth.JWTSecret, expiresAt)
	if err != nil {
		respondError(c, errors.Wrap(errors.ErrCodeUnknown, "failed to generate token", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
		"user_id":    user.ID,
		"username":   user.Username,
	})
}
