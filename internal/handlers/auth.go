package handlers

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"vinicio/internal/middleware"
	"vinicio/internal/models"
	"vinicio/internal/store"
	"vinicio/internal/token"
)

// totpIssuer is the name shown in authenticator apps.
const totpIssuer = "Vinicio"

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	users  *store.UserStore
	tokens *token.Manager
}

// NewAuth creates a new Auth handler group.
func NewAuth(users *store.UserStore, tokens *token.Manager) *Auth {
	return &Auth{users: users, tokens: tokens}
}

// loginPayload is the POST /auth/login body. The TOTP code is required
// once the account has 2FA enabled.
type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code"`
}

// Login validates credentials (and the TOTP code when enabled) and issues
// an access/refresh token pair.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if !decodeBody(w, r, &payload) {
		return
	}

	user, err := a.users.FindByEmail(payload.Email)
	if err != nil {
		serverError(w, "login lookup failed", err)
		return
	}
	if user == nil || !a.users.CheckPassword(user, payload.Password) {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if user.TOTPEnabled {
		if user.TOTPSecret == nil || !totp.Validate(payload.TOTPCode, *user.TOTPSecret) {
			respondError(w, http.StatusUnauthorized, "invalid or missing one-time code")
			return
		}
	}

	pair, err := a.tokens.Issue(r.Context(), user.ID, user.Email, string(user.Role))
	if err != nil {
		serverError(w, "issue tokens failed", err)
		return
	}

	respondData(w, http.StatusOK, "login successful", map[string]any{
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// refreshPayload carries a refresh token for rotation or revocation.
type refreshPayload struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh rotates a valid refresh token into a fresh pair. The presented
// token is revoked; replaying it fails.
func (a *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	var payload refreshPayload
	if !decodeBody(w, r, &payload) {
		return
	}

	claims, err := a.tokens.VerifyRefresh(r.Context(), payload.RefreshToken)
	if err == token.ErrInvalidToken {
		respondError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	if err != nil {
		serverError(w, "verify refresh token failed", err)
		return
	}

	user, err := a.users.FindByID(claims.UserID)
	if err != nil {
		serverError(w, "refresh lookup failed", err)
		return
	}
	if user == nil {
		respondError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	pair, err := a.tokens.Rotate(r.Context(), payload.RefreshToken, user.Email, string(user.Role))
	if err == token.ErrInvalidToken {
		respondError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	if err != nil {
		serverError(w, "rotate tokens failed", err)
		return
	}

	respondData(w, http.StatusOK, "tokens refreshed", pair)
}

// Logout revokes the presented refresh token. Revoking an already-revoked
// token still succeeds so logout is idempotent from the client's view.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	var payload refreshPayload
	if !decodeBody(w, r, &payload) {
		return
	}

	if err := a.tokens.Revoke(r.Context(), payload.RefreshToken); err != nil && err != token.ErrInvalidToken {
		serverError(w, "revoke refresh token failed", err)
		return
	}
	respondMessage(w, http.StatusOK, "logged out")
}

// Me returns the authenticated user's account.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	user, err := a.users.FindByID(claims.UserID)
	if err != nil {
		serverError(w, "account lookup failed", err)
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "account not found")
		return
	}
	respondData(w, http.StatusOK, "account retrieved", user)
}

// registerPayload is the body for creating an account. Admin only.
type registerPayload struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// Register creates a new account. Restricted to admins via middleware.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var payload registerPayload
	if !decodeBody(w, r, &payload) {
		return
	}

	var details []fieldError
	if !strings.Contains(payload.Email, "@") {
		details = append(details, fieldError{Field: "email", Message: "a valid email is required"})
	}
	if len(payload.Password) < 8 {
		details = append(details, fieldError{Field: "password", Message: "password must be at least 8 characters"})
	}
	role := models.Role(payload.Role)
	if role == "" {
		role = models.RoleAuthor
	}
	if role != models.RoleAdmin && role != models.RoleAuthor {
		details = append(details, fieldError{Field: "role", Message: "role must be admin or author"})
	}
	if details != nil {
		respondInvalid(w, details)
		return
	}

	existing, err := a.users.FindByEmail(payload.Email)
	if err != nil {
		serverError(w, "register lookup failed", err)
		return
	}
	if existing != nil {
		respondError(w, http.StatusConflict, "email already registered")
		return
	}

	user, err := a.users.Create(payload.Email, payload.Password, payload.DisplayName, role)
	if err != nil {
		serverError(w, "create user failed", err)
		return
	}
	respondData(w, http.StatusCreated, "account created", user)
}

// TwoFASetup generates a fresh TOTP secret for the authenticated user and
// returns it with a QR code PNG (base64) for authenticator apps. The
// secret only becomes active after TwoFAEnable verifies a code.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: claims.Email,
	})
	if err != nil {
		serverError(w, "totp generate failed", err)
		return
	}

	if err := a.users.SetTOTPSecret(claims.UserID, key.Secret()); err != nil {
		serverError(w, "save totp secret failed", err)
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		serverError(w, "qr code generation failed", err)
		return
	}

	respondData(w, http.StatusOK, "scan the code with an authenticator app", map[string]any{
		"secret": key.Secret(),
		"qrCode": base64.StdEncoding.EncodeToString(qrPNG),
	})
}

// twoFAPayload carries the TOTP code for enabling 2FA.
type twoFAPayload struct {
	Code string `json:"code"`
}

// TwoFAEnable verifies a code against the pending secret and turns 2FA on
// for the account. Subsequent logins must present a code.
func (a *Auth) TwoFAEnable(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())

	var payload twoFAPayload
	if !decodeBody(w, r, &payload) {
		return
	}

	user, err := a.users.FindByID(claims.UserID)
	if err != nil || user == nil {
		serverError(w, "account lookup failed", err)
		return
	}
	if user.TOTPSecret == nil {
		respondError(w, http.StatusBadRequest, "2fa setup has not been started")
		return
	}
	if !totp.Validate(payload.Code, *user.TOTPSecret) {
		respondError(w, http.StatusUnauthorized, "invalid one-time code")
		return
	}

	if err := a.users.EnableTOTP(user.ID); err != nil {
		serverError(w, "enable totp failed", err)
		return
	}
	respondMessage(w, http.StatusOK, "two-factor authentication enabled")
}
