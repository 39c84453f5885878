package models

import "time"

type contextKey string

const UserContextKey contextKey = "user"

type User struct {
	ID         string    `json:"id"`
	Login      string    `json:"login"`
	PassHash   []byte    `json:"-"`
	Department string    `json:"department"`
	IsAdmin    bool      `json:"is_admin"`
	CreatedAt  time.Time `json:"created_at"`
}

// CanSee reports whether the user may read a document owned by ownerID in
// department dept. Visibility is owner, same department, or admin.
func (u *User) CanSee(ownerID string, dept string) bool {
	return u.IsAdmin || u.ID == ownerID || (dept != "" && u.Department == dept)
}

// CanManage reports whether the user may mutate another user's resource.
func (u *User) CanManage(ownerID string) bool {
	return u.IsAdmin || u.ID == ownerID
}
