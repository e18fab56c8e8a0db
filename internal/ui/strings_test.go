package ui

import (
	"testing"

	"github.com/five82/booksite/internal/catalog"
)

func TestTruncate(t *testing.T) {
	if got := truncate("  hello  ", 10); got != "hello" {
		t.Fatalf("truncate = %q, want hello", got)
	}
	if got := truncate("abcdefgh", 6); got != "abc..." {
		t.Fatalf("truncate = %q, want abc...", got)
	}
	if got := truncate("äöüäöü", 2); got != "äö" {
		t.Fatalf("truncate runes = %q, want äö", got)
	}
	if got := truncate("abc", 0); got != "abc" {
		t.Fatalf("truncate zero limit = %q, want abc", got)
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("  ", 10); got != "" {
		t.Fatalf("truncateMiddle blank = %q, want empty", got)
	}
	if got := truncateMiddle("abcd", 2); got != "ab" {
		t.Fatalf("truncateMiddle limit<=3 = %q, want ab", got)
	}
	got := truncateMiddle("/home/ada/.local/state/booksite/booksite.log", 20)
	if len([]rune(got)) != 20 {
		t.Fatalf("got %q (%d runes), want 20", got, len([]rune(got)))
	}
	if got[len(got)-len("booksite.log"):] != "booksite.log" {
		t.Fatalf("truncateMiddle = %q, want file name kept", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q", got)
	}
	if got := padRight("abcdef", 4); got != "abcdef" {
		t.Fatalf("padRight overflow = %q", got)
	}
}

func TestLoggedInLine(t *testing.T) {
	u := catalog.User{Username: "ada", FirstName: "Ada", LastName: "Lovelace", AccessGroups: []string{"loggedInUsers", "admins"}}
	if got := loggedInLine(u); got != "Logged in: Ada Lovelace (loggedInUsers, admins)" {
		t.Fatalf("loggedInLine = %q", got)
	}
	if got := fullName(catalog.User{Username: "rex"}); got != "rex" {
		t.Fatalf("fullName fallback = %q, want rex", got)
	}
	if orDash(" ") != "-" || orDash("x") != "x" {
		t.Fatalf("orDash mismatch")
	}
}
