package domain

// User owns albums, mediafiles, comments and favorites. Authentication and
// token issuance live outside this service; only the fields the gallery
// needs are stored here. Userpic is an opaque filename inside the userpics
// directory, empty when none is set.
type User struct {
	Base

	Login     string `json:"user_login"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Userpic   string `json:"userpic"`
}

func NewUser(login, firstName, lastName string) *User {
	return &User{Login: login, FirstName: firstName, LastName: lastName}
}

func (u *User) Table() string { return "users" }

func (u *User) Columns() []string {
	return append(baseColumns(), "user_login", "first_name", "last_name", "userpic")
}

func (u *User) Values() []any {
	return []any{u.ID, u.CreatedAt, u.UpdatedAt, u.Login, u.FirstName, u.LastName, u.Userpic}
}

func (u *User) Pointers() []any {
	return []any{&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Login, &u.FirstName, &u.LastName, &u.Userpic}
}
