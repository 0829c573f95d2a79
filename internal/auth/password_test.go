package auth

import "testing"

func TestNormalizeUsername(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Alice", "alice", false},
		{"  bob.smith ", "bob.smith", false},
		{"", "", true},
		{"-leading", "", true},
		{"has space", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizeUsername(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("NormalizeUsername(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeUsername(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	if _, err := HashPassword("short"); err == nil {
		t.Error("expected short password to be rejected")
	}

	hash, err := HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !VerifyPassword(hash, "correct-horse") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "wrong-horse") {
		t.Error("wrong password accepted")
	}
	if VerifyPassword("", "anything") {
		t.Error("empty hash accepted")
	}
}
