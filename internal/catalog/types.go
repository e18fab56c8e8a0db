package catalog

import (
	"encoding/json"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Book mirrors a book record returned by /books and /book.
type Book struct {
	ID            string `json:"_id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	NumberOfPages int    `json:"numberOfPages"`
	Language      string `json:"language"`
	LanguageText  string `json:"languageText,omitempty"`
	ImageURL      string `json:"imageUrl"`
	BuyURL        string `json:"buyUrl"`
}

// UnmarshalJSON accepts both the "_id" and "id" identity keys and derives
// LanguageText when the backend omits it.
func (b *Book) UnmarshalJSON(data []byte) error {
	type plain Book
	var raw struct {
		plain
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = Book(raw.plain)
	if b.ID == "" {
		b.ID = raw.AltID
	}
	if strings.TrimSpace(b.LanguageText) == "" {
		b.LanguageText = Capitalize(b.Language)
	}
	return nil
}

// User mirrors the user record returned by /login and /get-current-user.
type User struct {
	ID           string   `json:"_id"`
	Username     string   `json:"username"`
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	AccessGroups []string `json:"accessGroups"`
}

// UnmarshalJSON accepts both the "_id" and "id" identity keys.
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var raw struct {
		plain
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*u = User(raw.plain)
	if u.ID == "" {
		u.ID = raw.AltID
	}
	return nil
}

// InGroup reports whether name is one of the user's access groups.
func (u User) InGroup(name string) bool {
	for _, g := range u.AccessGroups {
		if g == name {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no memory with u.
func (u User) Clone() User {
	dup := u
	if u.AccessGroups != nil {
		dup.AccessGroups = append([]string(nil), u.AccessGroups...)
	}
	return dup
}

// Credentials is the /login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// NewBook is the /book create request body.
type NewBook struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Language      string `json:"language"`
	NumberOfPages int    `json:"numberOfPages"`
	ImageURL      string `json:"imageUrl"`
	BuyURL        string `json:"buyUrl"`
}

// BookUpdate is the /book/:id update request body.
type BookUpdate struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Language    string `json:"language"`
}

// Capitalize upper-cases the first letter of s and leaves the rest alone,
// turning a language code such as "english" into "English".
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
