package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"radagast/internal/config"
	"radagast/internal/identity"
)

var (
	// ErrTokenExpired means the signature checked out but the token is past
	// its expiry. Clients refresh instead of re-logging in.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers every other verification failure.
	ErrTokenInvalid = errors.New("token invalid")
)

// Verifier checks bearer tokens locally first and falls back to the auth
// service when the local signature check fails. The fallback tolerates key
// rotation during rollout without hard-failing every request.
type Verifier struct {
	secret         []byte
	authServiceURL string
	client         *http.Client
	logger         *zap.Logger
}

func NewVerifier(cfg config.GatewayConfig, logger *zap.Logger) *Verifier {
	return &Verifier{
		secret:         []byte(cfg.JWTSecret),
		authServiceURL: cfg.AuthServiceURL,
		client:         &http.Client{Timeout: cfg.VerifyTimeout},
		logger:         logger,
	}
}

func (v *Verifier) Verify(ctx context.Context, token string) (identity.Identity, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err == nil && parsed.Valid {
		ident, err := identityFromClaims(parsed.Claims)
		if err != nil {
			v.logger.Warn("token verified but claims unusable", zap.Error(err))
			return identity.Identity{}, ErrTokenInvalid
		}
		return ident, nil
	}

	if errors.Is(err, jwt.ErrTokenExpired) {
		return identity.Identity{}, ErrTokenExpired
	}

	v.logger.Warn("local token verification failed, asking auth service", zap.Error(err))
	ident, remoteErr := v.verifyRemote(ctx, token)
	if remoteErr != nil {
		v.logger.Warn("auth service verification failed", zap.Error(remoteErr))
		return identity.Identity{}, ErrTokenInvalid
	}
	return ident, nil
}

type verifyTokenRequest struct {
	Token string `json:"token"`
}

type verifyTokenResponse struct {
	Valid    bool `json:"valid"`
	UserInfo struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
	} `json:"user_info"`
}

func (v *Verifier) verifyRemote(ctx context.Context, token string) (identity.Identity, error) {
	body, err := json.Marshal(verifyTokenRequest{Token: token})
	if err != nil {
		return identity.Identity{}, fmt.Errorf("marshaling verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		v.authServiceURL+"/api/v1/rest/verify-token", bytes.NewReader(body))
	if err != nil {
		return identity.Identity{}, fmt.Errorf("building verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("calling auth service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return identity.Identity{}, fmt.Errorf("auth service returned status %d", resp.StatusCode)
	}

	var result verifyTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return identity.Identity{}, fmt.Errorf("decoding verify response: %w", err)
	}
	if !result.Valid || result.UserInfo.UserID == "" {
		return identity.Identity{}, errors.New("auth service rejected token")
	}

	role := result.UserInfo.Role
	if role == "" {
		role = identity.RoleCustomer
	}
	return identity.Identity{UserID: result.UserInfo.UserID, Role: role}, nil
}

func identityFromClaims(claims jwt.Claims) (identity.Identity, error) {
	mapClaims, ok := claims.(jwt.MapClaims)
	if !ok {
		return identity.Identity{}, errors.New("unexpected claims type")
	}
	userID, _ := mapClaims["user_id"].(string)
	if userID == "" {
		return identity.Identity{}, errors.New("token missing user_id claim")
	}
	role, _ := mapClaims["role"].(string)
	if role == "" {
		role = identity.RoleCustomer
	}
	return identity.Identity{UserID: userID, Role: role}, nil
}
