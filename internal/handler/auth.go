package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// 令牌由 shift-manager 签发，两边共用同一个密钥
const tokenCookieName = "__ecnc_shift_manager_token"

var errNoToken = errors.New("缺少令牌")

type AuthClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// tokenFromRequest 优先读取 Authorization 头，其次读取 cookie
func tokenFromRequest(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return "", errNoToken
		}
		return token, nil
	}

	cookie, err := r.Cookie(tokenCookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", errNoToken
		}
		return "", err
	}
	return cookie.Value, nil
}

func (h *Handler) parseToken(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(h.config.JWT.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}
