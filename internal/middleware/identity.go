// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/jobboard/internal/authz"
	"github.com/hitoshi/jobboard/internal/model"
)

const bearerPrefix = "Bearer "

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// identityContextKey はリクエストコンテキストに認証状態を格納するためのキー。
var identityContextKey = contextKey("identity")

// identityState はAuthorizationヘッダーの検証結果。
// トークンが提示されたが無効な場合はinvalidがtrueになる。
type identityState struct {
	identity *model.Identity
	invalid  bool
}

// TokenVerifier はBearerトークンの検証に必要なインターフェース。
// auth.Serviceが満たす。
type TokenVerifier interface {
	Verify(token string) (*model.Identity, error)
}

// NewIdentityMiddleware はAuthorizationヘッダーのBearerトークンを検証し、
// 結果をリクエストコンテキストに注入するミドルウェアを返す。
// このミドルウェア自体はリクエストを拒否しない。拒否はRequireOperationが行う。
func NewIdentityMiddleware(verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			state := &identityState{}
			token, ok := strings.CutPrefix(header, bearerPrefix)
			if !ok || strings.TrimSpace(token) == "" {
				state.invalid = true
			} else if id, err := verifier.Verify(strings.TrimSpace(token)); err != nil {
				slog.Debug("invalid bearer token", slog.String("error", err.Error()))
				state.invalid = true
			} else {
				state.identity = id
			}

			ctx := context.WithValue(r.Context(), identityContextKey, state)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireOperation は操作の認可判定を行うミドルウェアを返す。
// 公開操作以外で無効なトークンが提示された場合は403 INVALID_TOKEN、
// トークンがない場合は401、ロールが不足する場合は403を返す。
func RequireOperation(op authz.Operation) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state, _ := r.Context().Value(identityContextKey).(*identityState)

			if state != nil && state.invalid {
				if level, ok := authz.LevelOf(op); !ok || level != authz.LevelPublic {
					WriteErrorResponse(w, http.StatusForbidden, model.NewInvalidTokenError())
					return
				}
			}

			var identity *model.Identity
			if state != nil {
				identity = state.identity
			}

			switch authz.Authorize(identity, op) {
			case authz.Allow:
				next.ServeHTTP(w, r)
			case authz.DenyUnauthenticated:
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
			default:
				WriteErrorResponse(w, http.StatusForbidden, model.NewForbiddenError())
			}
		})
	}
}

// IdentityFromContext はリクエストコンテキストから検証済みのIdentityを取得する。
func IdentityFromContext(ctx context.Context) (*model.Identity, bool) {
	state, ok := ctx.Value(identityContextKey).(*identityState)
	if !ok || state.identity == nil {
		return nil, false
	}
	return state.identity, true
}

// UserIDFromContext はリクエストコンテキストからユーザーIDを取得する。
// 有効なトークンを持つリクエストでのみ有効。
func UserIDFromContext(ctx context.Context) (string, error) {
	id, ok := IdentityFromContext(ctx)
	if !ok || id.UserID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return id.UserID, nil
}

// ContextWithIdentity はコンテキストにIdentityを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithIdentity(ctx context.Context, id *model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, &identityState{identity: id})
}
