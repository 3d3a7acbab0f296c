package dto

type RegisterUserRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Login          string `json:"login" validate:"required"`
	Password       string `json:"password" validate:"required"`
	RepeatPassword string `json:"repeat_password" validate:"required"`
}

type RegisterUserResponse struct {
	Id int64 `json:"id"`
}

type LoginUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginUserResponse struct {
	Id    int64  `json:"id"`
	Token string `json:"token"`
}
