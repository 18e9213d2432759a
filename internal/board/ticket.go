package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

type Ticket struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Status   string   `json:"status"`
	Priority int      `json:"priority"`
	UserID   string   `json:"userId"`
	Tag      []string `json:"tag"`
}

type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// UnmarshalJSON accepts the user identifier under either "id" (the feed's
// field name) or "userId".
func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        string `json:"id"`
		UserID    string `json:"userId"`
		Name      string `json:"name"`
		Available bool   `json:"available"`
	}
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	u.ID = raw.ID
	if u.ID == "" {
		u.ID = raw.UserID
	}
	u.Name = raw.Name
	u.Available = raw.Available
	return nil
}

// UserLookup maps userId to User. Built once per fetch, read-only afterwards.
type UserLookup map[string]User

// ErrMissingUser is matched by every *MissingUserError.
var ErrMissingUser = errors.New("missing user reference")

// MissingUserError reports a ticket whose userId has no entry in the lookup.
type MissingUserError struct {
	UserID string
}

func (e *MissingUserError) Error() string {
	return fmt.Sprintf("missing user reference %q", e.UserID)
}

func (e *MissingUserError) Is(target error) bool {
	return target == ErrMissingUser
}

func NewUserLookup(users []User) UserLookup {
	lookup := make(UserLookup, len(users))
	for _, u := range users {
		lookup[u.ID] = u
	}
	return lookup
}

func (l UserLookup) Resolve(userID string) (User, error) {
	u, ok := l[userID]
	if !ok {
		return User{}, &MissingUserError{UserID: userID}
	}
	return u, nil
}

// Initials returns the first rune of each space-separated word in name.
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			b.WriteRune(r)
			break
		}
	}
	return b.String()
}
