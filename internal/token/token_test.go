package token

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "refresh:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestIssueAndVerifyAccess(t *testing.T) {
	m := NewManager("test-secret", testValkeyClient(t))
	userID := uuid.New()

	pair, err := m.Issue(context.Background(), userID, "a@example.com", "admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("empty token in pair")
	}

	claims, err := m.VerifyAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if claims.UserID != userID || claims.Email != "a@example.com" || claims.Role != "admin" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestVerifyAccessRejectsGarbageAndWrongKey(t *testing.T) {
	m := NewManager("test-secret", testValkeyClient(t))

	if _, err := m.VerifyAccess("not-a-jwt"); err != ErrInvalidToken {
		t.Errorf("garbage: err = %v, want ErrInvalidToken", err)
	}

	other := NewManager("another-secret", nil)
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(other.secret)
	if err != nil {
		t.Fatalf("sign forged token: %v", err)
	}
	if _, err := m.VerifyAccess(forged); err != ErrInvalidToken {
		t.Errorf("wrong key: err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyAccessRejectsExpired(t *testing.T) {
	m := NewManager("test-secret", testValkeyClient(t))

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString(m.secret)
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}

	if _, err := m.VerifyAccess(expired); err != ErrInvalidToken {
		t.Errorf("expired: err = %v, want ErrInvalidToken", err)
	}
}

func TestRefreshRevocation(t *testing.T) {
	m := NewManager("test-secret", testValkeyClient(t))
	ctx := context.Background()

	pair, err := m.Issue(ctx, uuid.New(), "b@example.com", "author")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := m.VerifyRefresh(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("VerifyRefresh before revoke: %v", err)
	}

	if err := m.Revoke(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	// A revoked token still has a valid signature but must be refused.
	if _, err := m.VerifyRefresh(ctx, pair.RefreshToken); err != ErrInvalidToken {
		t.Errorf("after revoke: err = %v, want ErrInvalidToken", err)
	}

	// Revoking again is a no-op, not an error.
	if err := m.Revoke(ctx, pair.RefreshToken); err != nil {
		t.Errorf("second Revoke: %v", err)
	}
}

func TestRotateInvalidatesOldRefresh(t *testing.T) {
	m := NewManager("test-secret", testValkeyClient(t))
	ctx := context.Background()
	userID := uuid.New()

	pair, err := m.Issue(ctx, userID, "c@example.com", "admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	fresh, err := m.Rotate(ctx, pair.RefreshToken, "c@example.com", "admin")
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if fresh.RefreshToken == pair.RefreshToken {
		t.Error("rotation returned the same refresh token")
	}

	if _, err := m.VerifyRefresh(ctx, pair.RefreshToken); err != ErrInvalidToken {
		t.Errorf("old refresh after rotate: err = %v, want ErrInvalidToken", err)
	}
	claims, err := m.VerifyRefresh(ctx, fresh.RefreshToken)
	if err != nil {
		t.Fatalf("new refresh: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("rotated user = %v, want %v", claims.UserID, userID)
	}

	// An access token can never pass the refresh check: it has no
	// allow-list record.
	if _, err := m.VerifyRefresh(ctx, fresh.AccessToken); err != ErrInvalidToken {
		t.Errorf("access token as refresh: err = %v, want ErrInvalidToken", err)
	}
}
