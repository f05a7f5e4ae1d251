package rules

import (
	"reflect"
	"testing"
)

func TestCheckPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		username string
		email    string
		want     []string
	}{
		{
			name:     "strong",
			password: "orbital-Wrench-9",
			username: "margo",
			email:    "margo@example.com",
			want:     nil,
		},
		{
			name:     "too short",
			password: "ab1cd2e",
			username: "margo",
			email:    "margo@example.com",
			want:     []string{MsgPasswordTooShort},
		},
		{
			name:     "entirely numeric",
			password: "4819203857",
			username: "margo",
			email:    "margo@example.com",
			want:     []string{MsgPasswordEntirelyNumeric},
		},
		{
			name:     "common",
			password: "sunshine",
			username: "margo",
			email:    "margo@example.com",
			want:     []string{MsgPasswordTooCommon},
		},
		{
			name:     "common is case-insensitive",
			password: "SunShine",
			username: "margo",
			email:    "margo@example.com",
			want:     []string{MsgPasswordTooCommon},
		},
		{
			name:     "contains username",
			password: "margo2024rocks",
			username: "margo",
			email:    "other@example.com",
			want:     []string{MsgPasswordLikeUsername},
		},
		{
			name:     "matches email local part",
			password: "frontdesk1",
			username: "reception",
			email:    "frontdesk1@example.com",
			want:     []string{MsgPasswordLikeEmail},
		},
		{
			name:     "short and numeric stack",
			password: "123456",
			username: "margo",
			email:    "margo@example.com",
			want:     []string{MsgPasswordTooShort, MsgPasswordEntirelyNumeric},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckPassword(tt.password, tt.username, tt.email)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("CheckPassword(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}

func TestTooSimilarIgnoresTinyAttributes(t *testing.T) {
	// With one- or two-character attributes containment would flag almost
	// anything, so they are skipped.
	if tooSimilar("abcdefgh", "ab") {
		t.Fatal("two-character attribute should never trigger similarity")
	}
}
