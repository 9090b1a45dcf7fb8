package reqres

// User is a reqres.in user record.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
}

// Support is the promotional block reqres.in attaches to read responses.
type Support struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// SingleUser is the body of GET /users/{id}.
type SingleUser struct {
	Data    User    `json:"data"`
	Support Support `json:"support"`
}

// UserList is the body of GET /users?page=N.
type UserList struct {
	Page       int     `json:"page"`
	PerPage    int     `json:"per_page"`
	Total      int     `json:"total"`
	TotalPages int     `json:"total_pages"`
	Data       []User  `json:"data"`
	Support    Support `json:"support"`
}

// CreatedUser is the body of POST /users.
type CreatedUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Job       string `json:"job"`
	CreatedAt string `json:"createdAt"`
}

// UserUpdate is the payload of PUT /users/{id}.
type UserUpdate struct {
	Name string `json:"name,omitempty"`
	Job  string `json:"job,omitempty"`
}

// UpdatedUser is the body of PUT /users/{id}.
type UpdatedUser struct {
	Name      string `json:"name"`
	Job       string `json:"job"`
	UpdatedAt string `json:"updatedAt"`
}
