package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/ozodbek-r/neoneats/internal/models"
)

func testUser() *models.UserRecord {
	return &models.UserRecord{
		ID:       "u-1",
		Email:    "neo@eats.uz",
		Username: "neo",
		Role:     models.RoleCustomer,
	}
}

func TestGenerateAndValidate(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.Generate(testUser())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != "u-1" {
		t.Errorf("UserID = %q, want u-1", claims.UserID)
	}
	if claims.Role != models.RoleCustomer {
		t.Errorf("Role = %q, want customer", claims.Role)
	}
}

func TestValidateRejectsWrongKey(t *testing.T) {
	token, err := NewJWTManager("secret-a", time.Hour).Generate(testUser())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := NewJWTManager("secret-b", time.Hour).Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Validate with wrong key error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenExpired(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute)
	token, err := m.Generate(testUser())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	now := time.Now()
	if TokenExpired(token, now) {
		t.Error("fresh token reported expired")
	}
	if !TokenExpired(token, now.Add(2*time.Minute)) {
		t.Error("token past its exp not reported expired")
	}

	// Opaque non-JWT tokens are not the client's to judge.
	if TokenExpired("some-opaque-session-token", now) {
		t.Error("opaque token reported expired")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if err := CheckPassword(hash, "hunter22"); err != nil {
		t.Errorf("CheckPassword with correct password failed: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CheckPassword with wrong password error = %v, want ErrInvalidCredentials", err)
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("ValidatePassword(short) error = %v, want ErrWeakPassword", err)
	}
	if err := ValidatePassword("longenough"); err != nil {
		t.Errorf("ValidatePassword(longenough) error = %v, want nil", err)
	}
}
