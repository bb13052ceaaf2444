package auth

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"Furnace/internal/calc/balance"
	"Furnace/internal/repo"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

type contextKey string

const (
	userIDKey    contextKey = "userID"
	userLoginKey contextKey = "userLogin"
)

const (
	cookieName = "session_token"
	tokenTTL   = 30 * 24 * time.Hour
)

type Authenv struct {
	JWTkey []byte
	Repo   repo.Repository
	// SecureCookie marks the session cookie HTTPS-only.
	SecureCookie bool
}

type IPRateLimiter struct {
	ips map[string]*rate.Limiter
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

type Loginrequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type Registerrequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type tokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	UserID  int    `json:"user_id,omitempty"`
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*rate.Limiter),
		r:   r,
		b:   b,
	}
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	limiter, exists := i.ips[ip]
	if !exists {
		limiter = rate.NewLimiter(i.r, i.b)
		i.ips[ip] = limiter
	}
	return limiter
}

// LimitMiddleware rate-limits by client host.
func (i *IPRateLimiter) LimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			ip = host
		}
		if !i.getLimiter(ip).Allow() {
			balance.WriteJSON(w, http.StatusTooManyRequests, balance.Response{Error: "Too Many Requests. Try again later."})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// UserID returns the authenticated operator stored by AuthMiddleware.
func UserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(userIDKey).(int)
	return id, ok
}

func UserLogin(ctx context.Context) string {
	login, _ := ctx.Value(userLoginKey).(string)
	return login
}

// WithUser returns a context carrying an authenticated operator.
func WithUser(ctx context.Context, id int, login string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, id)
	return context.WithValue(ctx, userLoginKey, login)
}

// IssueToken signs a session token for the operator.
func (env *Authenv) IssueToken(userID int, login string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"login":   login,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	})
	s, err := token.SignedString(env.JWTkey)
	if err != nil {
		return "", eris.Wrap(err, "auth: sign token")
	}
	return s, nil
}

// ParseToken verifies a session token and returns its operator.
func (env *Authenv) ParseToken(tokenString string) (int, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return env.JWTkey, nil
	})
	if err != nil {
		return 0, "", eris.Wrap(err, "auth: parse token")
	}
	if !token.Valid {
		return 0, "", eris.New("auth: invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", eris.New("auth: unexpected claims")
	}
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, "", eris.New("auth: token has no user_id")
	}
	login, ok := claims["login"].(string)
	if !ok || login == "" {
		return 0, "", eris.New("auth: token has no login")
	}
	return int(userIDFloat), login, nil
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// AuthMiddleware accepts a session cookie or a bearer token.
func (env *Authenv) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := tokenFromRequest(r)
		if raw == "" {
			unauthorized(w)
			return
		}
		id, login, err := env.ParseToken(raw)
		if err != nil {
			zap.L().Debug("rejected token", zap.Error(err), zap.String("path", r.URL.Path))
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), id, login)))
	})
}

func unauthorized(w http.ResponseWriter) {
	balance.WriteJSON(w, http.StatusUnauthorized, balance.Response{Error: "unauthorized"})
}

func (env *Authenv) addCookie(w http.ResponseWriter, tokenString string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    tokenString,
		Expires:  time.Now().Add(tokenTTL),
		Path:     "/",
		HttpOnly: true,
		Secure:   env.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (env *Authenv) startSession(w http.ResponseWriter, status, userID int, login string) {
	tokenString, err := env.IssueToken(userID, login)
	if err != nil {
		zap.L().Error("issue token", zap.Error(err))
		balance.WriteJSON(w, http.StatusInternalServerError, balance.Response{Error: "could not create session"})
		return
	}
	env.addCookie(w, tokenString)
	balance.WriteJSON(w, status, tokenResponse{Success: true, Token: tokenString, UserID: userID})
}

func (env *Authenv) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req Registerrequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		balance.WriteBadPayload(w)
		return
	}
	req.Login = strings.TrimSpace(req.Login)
	req.Email = strings.TrimSpace(req.Email)
	if req.Login == "" || req.Email == "" || req.Password == "" {
		balance.WriteJSON(w, http.StatusBadRequest, balance.Response{Error: "Login, email and password required"})
		return
	}
	if len(req.Password) < 6 {
		balance.WriteJSON(w, http.StatusBadRequest, balance.Response{Error: "Password too short"})
		return
	}

	hashedPassword, err := HashPassword(req.Password)
	if err != nil {
		zap.L().Error("hash password", zap.Error(err))
		balance.WriteJSON(w, http.StatusInternalServerError, balance.Response{Error: "Error hashing password"})
		return
	}
	id, err := env.Repo.CreateUser(r.Context(), req.Login, req.Email, hashedPassword)
	if err != nil {
		zap.L().Warn("create user", zap.String("login", req.Login), zap.Error(err))
		balance.WriteJSON(w, http.StatusConflict, balance.Response{Error: "User already exists"})
		return
	}
	env.startSession(w, http.StatusCreated, id, req.Login)
}

func (env *Authenv) AuthHandler(w http.ResponseWriter, r *http.Request) {
	var req Loginrequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		balance.WriteBadPayload(w)
		return
	}
	req.Login = strings.TrimSpace(req.Login)
	if req.Login == "" || req.Password == "" {
		balance.WriteJSON(w, http.StatusBadRequest, balance.Response{Error: "Login and password required"})
		return
	}

	id, storedHash, err := env.Repo.GetBylogin(r.Context(), req.Login)
	if err != nil {
		zap.L().Error("get user", zap.String("login", req.Login), zap.Error(err))
		balance.WriteJSON(w, http.StatusInternalServerError, balance.Response{Error: "could not load user"})
		return
	}
	if storedHash == "" || bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(req.Password)) != nil {
		balance.WriteJSON(w, http.StatusUnauthorized, balance.Response{Error: "Invalid login or password"})
		return
	}
	env.startSession(w, http.StatusOK, id, req.Login)
}
