package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hitoshi/jobboard/internal/model"
)

var testUser = &model.User{ID: "user-1", Email: "a@x.com", Role: model.RoleAdmin}

func TestTokenIssuer_IssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	token, expiresAt, err := issuer.Issue(testUser)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if d := time.Until(expiresAt); d <= 0 || d > time.Hour {
		t.Errorf("expiresAt = %v, want within 1h from now", expiresAt)
	}

	id, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if id.UserID != "user-1" || id.Email != "a@x.com" || id.Role != model.RoleAdmin {
		t.Errorf("identity = %+v", id)
	}
}

func TestTokenIssuer_Verify_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	valid, _, err := issuer.Issue(testUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	expiredIssuer := NewTokenIssuer("secret", time.Hour)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := expiredIssuer.Issue(testUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	otherSecret, _, err := NewTokenIssuer("other-secret", time.Hour).Issue(testUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Role: model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "空文字列", token: ""},
		{name: "形式不正", token: "not-a-jwt"},
		{name: "改ざん", token: valid[:len(valid)-2] + "xx"},
		{name: "有効期限切れ", token: expired},
		{name: "別の秘密鍵", token: otherSecret},
		{name: "alg=none", token: none},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Verify(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestTokenIssuer_Verify_RejectsUnknownRole(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	token, _, err := issuer.Issue(&model.User{ID: "user-1", Role: model.Role("root")})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := issuer.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify error = %v, want ErrInvalidToken", err)
	}
}
