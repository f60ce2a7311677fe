package model

import (
	"reflect"
	"testing"
	"time"
)

func TestUser_MissingFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		user *User
		want []string
	}{
		{"complete", NewUser("Ada", "ada@example.com"), nil},
		{"missing email", NewUser("Ada", ""), []string{"email"}},
		{"missing name", NewUser("", "ada@example.com"), []string{"name"}},
		{"both blank", NewUser("  ", "\t"), []string{"name", "email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.user.MissingFields()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MissingFields() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUser_Stamp(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	at := time.Date(2026, 1, 2, 15, 4, 5, 0, loc)

	u := NewUser("Ada", "ada@example.com")
	u.Stamp(at)

	if u.CreatedAt.Location() != time.UTC {
		t.Errorf("expected UTC CreatedAt, got %s", u.CreatedAt.Location())
	}
	if !u.CreatedAt.Equal(at) {
		t.Errorf("CreatedAt = %s, want %s", u.CreatedAt, at)
	}
	if !u.UpdatedAt.Equal(u.CreatedAt) {
		t.Errorf("UpdatedAt = %s, want %s", u.UpdatedAt, u.CreatedAt)
	}
}

func TestUser_Newer(t *testing.T) {
	now := time.Now().UTC()

	older := &User{ID: "b", CreatedAt: now.Add(-time.Second)}
	newer := &User{ID: "a", CreatedAt: now}
	if !newer.Newer(older) {
		t.Error("expected later CreatedAt to sort first")
	}
	if older.Newer(newer) {
		t.Error("expected earlier CreatedAt to sort last")
	}

	tieLow := &User{ID: "01A", CreatedAt: now}
	tieHigh := &User{ID: "01B", CreatedAt: now}
	if !tieHigh.Newer(tieLow) {
		t.Error("expected higher ID to win a timestamp tie")
	}
}
