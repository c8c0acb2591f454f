package domain

type User struct {
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	SessionID string `json:"-"`
}
