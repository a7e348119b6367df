// Методы клиента для эндпоинтов пользователей: регистрация, выдача токенов,
// обновление пары и профиль.
package api

import "github.com/IvanChernomyrdin/go-recipe-api/internal/shared/models"

// RegisterRequest описывает тело запроса регистрации (POST /users/).
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// LoginRequest описывает тело запроса выдачи токенов (POST /users/token/).
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse — пара токенов.
//
// AccessToken используется для авторизации запросов к защищённым эндпоинтам.
// RefreshToken используется для обновления пары через /users/token/refresh/.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshRequest описывает тело запроса обновления токенов.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Register регистрирует пользователя и возвращает его профиль.
func (c *Client) Register(email, password, name string) (models.UserResponse, error) {
	var resp models.UserResponse
	err := c.PostJSON("/users/", RegisterRequest{Email: email, Password: password, Name: name}, &resp, "")
	return resp, err
}

// Login получает пару токенов по email и паролю.
func (c *Client) Login(email, password string) (TokenResponse, error) {
	var resp TokenResponse
	err := c.PostJSON("/users/token/", LoginRequest{Email: email, Password: password}, &resp, "")
	return resp, err
}

// Refresh обменивает refresh токен на новую пару.
func (c *Client) Refresh(refreshToken string) (TokenResponse, error) {
	var resp TokenResponse
	err := c.PostJSON("/users/token/refresh/", RefreshRequest{RefreshToken: refreshToken}, &resp, "")
	return resp, err
}

// Me запрашивает профиль владельца access токена.
func (c *Client) Me(accessToken string) (models.UserResponse, error) {
	var resp models.UserResponse
	err := c.GetJSON("/users/me/", &resp, accessToken)
	return resp, err
}
