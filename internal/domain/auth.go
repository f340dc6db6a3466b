package domain

type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

type Auth struct {
	User            *User
	IsAuthenticated bool
}

func Anonymous() Auth {
	return Auth{}
}
