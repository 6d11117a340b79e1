package auth

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Regex patterns for validation
var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)
)

// ValidateSignup checks signup input before any write happens.
func ValidateSignup(username, email, password string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("%w: invalid username format (3-20 characters, letters, numbers, underscore only)", ErrInvalidInput)
	}
	if !emailRegex.MatchString(email) || len(email) < 5 || len(email) > 120 {
		return fmt.Errorf("%w: invalid email format or length (5-120 characters)", ErrInvalidInput)
	}
	// bcrypt caps input at 72 bytes, so the limit counts bytes, not runes.
	if len(password) < 6 || len(password) > 72 {
		return fmt.Errorf("%w: invalid password length (6-72 bytes)", ErrInvalidInput)
	}
	return nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateToken issues an HS256 token with the user id as subject.
func GenerateToken(secret []byte, userID int64, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"exp": time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(secret)
}

// ParseToken validates the token and returns the user id it carries.
func ParseToken(secret []byte, tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidCredentials
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidCredentials
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return 0, ErrInvalidCredentials
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, ErrInvalidCredentials
	}
	return userID, nil
}
