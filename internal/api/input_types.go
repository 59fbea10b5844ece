package api

type registerInput struct {
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
	FullName        string `json:"full_name" form:"full_name"`
}

type credentialsInput struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type changePasswordInput struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

type statusInput struct {
	Status     string  `json:"status"`
	AdminNotes *string `json:"admin_notes"`
}

type messageInput struct {
	Message string `json:"message" form:"message"`
}
