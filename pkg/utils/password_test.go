package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	t.Run("hashes password and validates original password", func(t *testing.T) {
		password := "password123"

		hash, err := HashPassword(password)
		if err != nil {
			t.Fatalf("expected hashing to succeed, got error: %v", err)
		}
		if hash == "" || hash == password {
			t.Fatalf("expected an opaque hash, got %q", hash)
		}
		if !CheckPassword(password, hash) {
			t.Fatal("expected password check to succeed for matching password and hash")
		}
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		hash, err := HashPassword("correct-password")
		if err != nil {
			t.Fatalf("failed to hash password for test: %v", err)
		}
		if CheckPassword("wrong-password", hash) {
			t.Fatal("expected password check to fail for wrong password")
		}
	})

	t.Run("rejects malformed hash", func(t *testing.T) {
		if CheckPassword("password123", "not-a-bcrypt-hash") {
			t.Fatal("expected password check to fail for malformed hash")
		}
	})
}
