package auth_test

import (
	"os"
	"testing"
	"time"

	"github.com/qbacid/DentorAcademy/internal/auth"
)

const testSecret = "a-long-and-secure-secret-for-tests"
const testUserID = "user-123"
const testRole = "Admin"

func TestInit(t *testing.T) {
	t.Run("MissingSecret", func(t *testing.T) {
		os.Unsetenv("JWT_SECRET")

		defer func() {
			if r := recover(); r == nil {
				t.Errorf("Init() should have panicked with an empty JWT_SECRET, but did not.")
			}
		}()

		auth.Init()
	})

	t.Run("ValidSecret", func(t *testing.T) {
		os.Setenv("JWT_SECRET", testSecret)
		auth.Init()
	})
}

func TestGenerateAndValidateJWT(t *testing.T) {
	os.Setenv("JWT_SECRET", testSecret)
	auth.Init()

	t.Run("ValidToken", func(t *testing.T) {
		tokenStr, err := auth.GenerateJWT(testUserID, testRole, 5*time.Minute)
		if err != nil {
			t.Fatalf("GenerateJWT failed: %v", err)
		}

		claims, err := auth.ValidateJWT(tokenStr)
		if err != nil {
			t.Fatalf("ValidateJWT failed unexpectedly: %v", err)
		}

		if claims.UserID != testUserID {
			t.Errorf("claims.UserID = %q, want %q", claims.UserID, testUserID)
		}
		if claims.Role != testRole {
			t.Errorf("claims.Role = %q, want %q", claims.Role, testRole)
		}
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		tokenStr, err := auth.GenerateJWT(testUserID, testRole, -time.Minute)
		if err != nil {
			t.Fatalf("GenerateJWT failed: %v", err)
		}

		if _, err := auth.ValidateJWT(tokenStr); err == nil {
			t.Error("ValidateJWT accepted an expired token")
		}
	})

	t.Run("TamperedToken", func(t *testing.T) {
		tokenStr, err := auth.GenerateJWT(testUserID, testRole, 5*time.Minute)
		if err != nil {
			t.Fatalf("GenerateJWT failed: %v", err)
		}

		if _, err := auth.ValidateJWT(tokenStr + "x"); err == nil {
			t.Error("ValidateJWT accepted a tampered token")
		}
	})
}
