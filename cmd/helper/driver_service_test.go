package main

import (
	"testing"

	"github.com/golang-jwt/jwt"
)

func TestUserIdFromToken(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "42",
		"role":    "driver",
	}).SignedString([]byte("whatever"))
	if err != nil {
		t.Fatal(err)
	}

	id, err := userIdFromToken(token)
	if err != nil || id != 42 {
		t.Fatalf("got %d, %v", id, err)
	}

	if _, err := userIdFromToken("not-a-token"); err == nil {
		t.Error("garbage token accepted")
	}
}

func TestWsURL(t *testing.T) {
	tests := []struct {
		base, want string
	}{
		{"http://localhost:5000", "ws://localhost:5000/ws/users/7"},
		{"https://rides.example.com", "wss://rides.example.com/ws/users/7"},
	}
	for _, tt := range tests {
		got, err := wsURL(tt.base, "/ws/users/7")
		if err != nil || got != tt.want {
			t.Errorf("wsURL(%q) = %q, %v", tt.base, got, err)
		}
	}
}
