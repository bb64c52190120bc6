package user

type registerInput struct {
	Body credentials
}

type loginInput struct {
	Body credentials
}

type credentials struct {
	Email    string `json:"email" format:"email" doc:"Account email"`
	Password string `json:"password" minLength:"8" doc:"Account password"`
}

type authOutput struct {
	Body authResponse
}

type authResponse struct {
	Status string `json:"status"`
	UserID int    `json:"user_id,omitempty"`
	Token  string `json:"token,omitempty"`
}
