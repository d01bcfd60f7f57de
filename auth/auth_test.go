package auth

import "testing"

func TestGuestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	token, err := CreateGuestToken("guest-abc")
	if err != nil {
		t.Fatal(err)
	}

	subject, err := VerifyToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if subject != "guest-abc" {
		t.Errorf("subject = %q, want guest-abc", subject)
	}
}

func TestCreateGuestTokenMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")

	if _, err := CreateGuestToken("guest-abc"); err == nil {
		t.Fatal("expected error when secret is unset")
	}
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	token, err := CreateGuestToken("guest-abc")
	if err != nil {
		t.Fatal(err)
	}

	t.Setenv("JWT_SECRET_KEY", "different-secret")
	if _, err := VerifyToken(token); err == nil {
		t.Fatal("expected verification failure with a different secret")
	}
}
