package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenTTL bounds how long a login token stays valid.
const tokenTTL = 24 * time.Hour

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message": "malformed request body",
		})
		return
	}

	if s.email == "" || s.password == "" {
		writeJSON(w, http.StatusForbidden, map[string]any{
			"status":  http.StatusForbidden,
			"message": "user not found or registered",
		})
		return
	}
	if req.Email != s.email || req.Password != s.password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"status":  http.StatusUnauthorized,
			"message": "invalid email or password",
		})
		return
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": req.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		s.logger.Printf("token signing failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"message": "internal server error",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  http.StatusOK,
		"message": "login successful",
		"token":   signed,
	})
}

// handleLogout revokes the presented token, if any. Tokens self-expire, so
// the revocation set stays small for any realistic session count.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		s.mu.Lock()
		s.revoked[token] = struct{}{}
		s.mu.Unlock()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  http.StatusOK,
		"message": "logged out successfully",
	})
}

// requireAuth guards mutating routes with a Bearer token check.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"message": "missing bearer token",
			})
			return
		}

		s.mu.Lock()
		_, revoked := s.revoked[raw]
		s.mu.Unlock()
		if revoked {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"message": "token revoked",
			})
			return
		}

		_, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.jwtSecret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"message": "invalid or expired token",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
