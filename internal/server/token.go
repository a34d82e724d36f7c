package server

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

const hostTokenLifetime = 24 * time.Hour

var (
	secretOnce      sync.Once
	ephemeralSecret string
)

// tokenSecret prefers the configured secret; without one, a per-process
// random secret is generated, so host tokens stop working across restarts.
func (s *Server) tokenSecret() []byte {
	if s.config.Auth.Secret != "" {
		return []byte(s.config.Auth.Secret)
	}
	secretOnce.Do(func() {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			panic(fmt.Sprintf("secret generation failed: %v", err))
		}
		ephemeralSecret = hex.EncodeToString(buf)
		log.Println("⚠️ AUTH_SECRET 未配置，使用临时密钥；重启后房主令牌失效")
	})
	return []byte(ephemeralSecret)
}

// signHostToken issues the lobby creator's proof of hostship for the REST
// surface.
func (s *Server) signHostToken(slug string) (string, error) {
	claims := jwt.MapClaims{
		"slug": slug,
		"role": "host",
		"exp":  time.Now().Add(hostTokenLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.tokenSecret())
}

// verifyHostToken checks signature, expiry and that the token matches the
// lobby it is used against.
func (s *Server) verifyHostToken(tokenString, slug string) bool {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.tokenSecret(), nil
	})
	if err != nil || !token.Valid {
		return false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	return claims["slug"] == slug && claims["role"] == "host"
}
