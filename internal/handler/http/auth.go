package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/cmlabs-hris/company-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/company-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/oauth"
)

const (
	refreshTokenCookieName = "refresh_token"
	stateCookieName        = "state"
	googleCallbackPath     = "/api/v1/auth/oauth/google/callback"
)

type AuthHandler interface {
	SignUp(w http.ResponseWriter, r *http.Request)
	SignIn(w http.ResponseWriter, r *http.Request)
	RefreshToken(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	SignInWithGoogle(w http.ResponseWriter, r *http.Request)
	OAuthCallbackGoogle(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	jwtService    jwt.Service
	authService   auth.AuthService
	googleService oauth.GoogleService
	frontendURL   string
	secureCookie  bool
}

func NewAuthHandler(jwtService jwt.Service, authService auth.AuthService, googleService oauth.GoogleService, frontendURL string, secureCookie bool) AuthHandler {
	return &AuthHandlerImpl{
		jwtService:    jwtService,
		authService:   authService,
		googleService: googleService,
		frontendURL:   frontendURL,
		secureCookie:  secureCookie,
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.InvalidArgument("invalid request format").WithCause(err)
	}
	return nil
}

// sessionContext tags the request context with the client the tokens are
// about to be issued to.
func sessionContext(r *http.Request) context.Context {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return auth.WithSession(r.Context(), auth.SessionTrackingRequest{
		UserAgent: r.UserAgent(),
		IPAddress: ip,
	})
}

// SignUp implements AuthHandler.
func (a *AuthHandlerImpl) SignUp(w http.ResponseWriter, r *http.Request) {
	var signUpReq auth.SignUpRequest
	if err := decodeJSON(r, &signUpReq); err != nil {
		response.Problem(w, r, err)
		return
	}

	if err := signUpReq.Validate(); err != nil {
		response.Problem(w, r, err)
		return
	}

	tokenResponse, err := a.authService.SignUp(sessionContext(r), signUpReq)
	if err != nil {
		response.Problem(w, r, err)
		return
	}

	http.SetCookie(w, a.jwtService.RefreshTokenCookie(tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn))
	slog.Info("User signed up successfully")
	response.Created(w, r, tokenResponse)
}

// SignIn implements AuthHandler.
func (a *AuthHandlerImpl) SignIn(w http.ResponseWriter, r *http.Request) {
	var signInReq auth.SignInRequest
	if err := decodeJSON(r, &signInReq); err != nil {
		response.Problem(w, r, err)
		return
	}

	if err := signInReq.Validate(); err != nil {
		response.Problem(w, r, err)
		return
	}

	tokenResponse, err := a.authService.SignIn(sessionContext(r), signInReq)
	if err != nil {
		response.Problem(w, r, err)
		return
	}

	http.SetCookie(w, a.jwtService.RefreshTokenCookie(tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn))
	slog.Info("User signed in successfully")
	response.OK(w, r, tokenResponse)
}

// RefreshToken implements AuthHandler. The cookie wins over the JSON body.
func (a *AuthHandlerImpl) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var refreshTokenReq auth.RefreshTokenRequest

	if cookie, err := r.Cookie(refreshTokenCookieName); err == nil && cookie.Value != "" {
		refreshTokenReq.RefreshToken = cookie.Value
	} else if err := decodeJSON(r, &refreshTokenReq); err != nil {
		response.Problem(w, r, err)
		return
	}

	if err := refreshTokenReq.Validate(); err != nil {
		response.Problem(w, r, err)
		return
	}

	tokenResponse, err := a.authService.Refresh(r.Context(), refreshTokenReq)
	if err != nil {
		response.Problem(w, r, err)
		return
	}

	slog.Info("Token refreshed successfully")
	response.OK(w, r, tokenResponse)
}

// Logout implements AuthHandler.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	var refreshToken string
	if cookie, err := r.Cookie(refreshTokenCookieName); err == nil {
		refreshToken = cookie.Value
	} else if r.ContentLength != 0 {
		var body auth.RefreshTokenRequest
		if err := decodeJSON(r, &body); err != nil {
			response.Problem(w, r, err)
			return
		}
		refreshToken = body.RefreshToken
	}

	if err := a.authService.Logout(r.Context(), refreshToken); err != nil {
		response.Problem(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookieName,
		Value:    "",
		Path:     "/api/v1/auth",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	response.OK(w, r, response.NewEnvelope(nil, "User logged out successfully", r.URL.Path))
}

// SignInWithGoogle implements AuthHandler.
func (a *AuthHandlerImpl) SignInWithGoogle(w http.ResponseWriter, r *http.Request) {
	state := a.googleService.GenerateState(r.UserAgent())
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     googleCallbackPath,
		Expires:  time.Now().Add(5 * time.Minute),
		HttpOnly: true,
		Secure:   a.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, a.googleService.RedirectURL(state), http.StatusTemporaryRedirect)
}

// OAuthCallbackGoogle implements AuthHandler. Without a frontend URL the
// tokens are returned in the envelope instead of a redirect.
func (a *AuthHandlerImpl) OAuthCallbackGoogle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	switch errorValue := query.Get("error"); errorValue {
	case "":
	case "access_denied":
		response.Problem(w, r, auth.ErrGoogleAccessDenied)
		return
	default:
		response.Problem(w, r, apperror.Upstream(0, "", "google returned error: %s", errorValue))
		return
	}

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != query.Get("state") {
		response.Problem(w, r, auth.ErrStateMismatch)
		return
	}

	code := query.Get("code")
	if code == "" {
		response.Problem(w, r, apperror.InvalidArgument("code is required"))
		return
	}

	token, err := a.googleService.VerifyToken(r.Context(), code)
	if err != nil {
		response.Problem(w, r, err)
		return
	}

	userGoogle, err := a.googleService.VerifyUser(r.Context(), token)
	if err != nil {
		response.Problem(w, r, err)
		return
	}
	if !userGoogle.VerifiedEmail {
		response.Problem(w, r, auth.ErrGoogleEmailNotVerified)
		return
	}

	tokenResponse, err := a.authService.SignInWithGoogle(sessionContext(r), userGoogle.Email, userGoogle.GoogleID)
	if err != nil {
		response.Problem(w, r, err)
		return
	}

	http.SetCookie(w, a.jwtService.RefreshTokenCookie(tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn))
	slog.Info("User signed in via Google OAuth")

	if a.frontendURL == "" {
		response.OK(w, r, tokenResponse)
		return
	}
	redirectURL := fmt.Sprintf("%s/auth/callback/google?access_token=%s&expires_in=%d",
		a.frontendURL,
		url.QueryEscape(tokenResponse.AccessToken),
		tokenResponse.AccessTokenExpiresIn,
	)
	http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
}
