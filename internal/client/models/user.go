package models

// User is the public profile at user/{id}.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"alias"`
	Email     string `json:"email"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	AvatarURL string `json:"avatar,omitempty"`
}

// Student is the student record at student/{id}. The server answers with an
// empty object for users who are not students.
type Student struct {
	ID         string  `json:"id"`
	CardNumber string  `json:"nroTarjeta,omitempty"`
	DNI        string  `json:"dni,omitempty"`
	Balance    float64 `json:"saldo,omitempty"`
}

// LoginRequest is the auth/login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the auth/login answer.
type LoginResponse struct {
	Token     string `json:"token"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Data converts the login answer into what the session store expects.
func (r LoginResponse) Data() LoginData {
	return LoginData{
		Token:     r.Token,
		UserID:    r.UserID,
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

// RegisterStep1Request starts a registration with an email and an alias.
type RegisterStep1Request struct {
	Email    string `json:"email"`
	Username string `json:"alias"`
}

// RegisterStep2Request completes a registration. Student-only fields are
// ignored by the user variant.
type RegisterStep2Request struct {
	Email      string `json:"email"`
	Code       string `json:"codigo"`
	Password   string `json:"password"`
	FirstName  string `json:"nombre"`
	LastName   string `json:"apellido"`
	CardNumber string `json:"nroTarjeta,omitempty"`
	DNI        string `json:"dni,omitempty"`
}

// ResetRequest asks the server to send a reset code.
type ResetRequest struct {
	Email string `json:"email"`
}

// ResetConfirm sets a new password using the emailed code.
type ResetConfirm struct {
	Email       string `json:"email"`
	Code        string `json:"codigo"`
	NewPassword string `json:"newPassword"`
}
