package model

import (
	"strings"
	"time"
)

// Role is the user type assigned by the backend
type Role string

const (
	RoleCustomer Role = "CLIENTE"
	RoleStaff    Role = "FUNCIONARIO"
	RoleManager  Role = "GESTOR"
	RoleAdmin    Role = "ADMIN"
	RoleCourier  Role = "ENTREGADOR"
)

// Surface is one of the user-facing areas of the application
type Surface string

const (
	SurfaceStorefront Surface = "storefront"
	SurfaceBoard      Surface = "board"
	SurfaceConsole    Surface = "console"
)

// Views returns the surfaces offered to a role.
// This only decides what is shown; the backend enforces access.
func (r Role) Views() []Surface {
	switch Role(strings.ToUpper(string(r))) {
	case RoleManager, RoleAdmin:
		return []Surface{SurfaceBoard, SurfaceConsole}
	case RoleStaff, RoleCourier:
		return []Surface{SurfaceBoard}
	default:
		return []Surface{SurfaceStorefront}
	}
}

// User is a customer or employee profile
type User struct {
	ID        uint       `json:"id"`
	Name      string     `json:"nome"`
	Email     string     `json:"email"`
	Phone     string     `json:"telefone,omitempty"`
	Role      Role       `json:"tipo"`
	Active    bool       `json:"ativo"`
	CreatedAt *time.Time `json:"dataCriacao,omitempty"`
	Badge     string     `json:"matricula,omitempty"`
	JobTitle  string     `json:"cargo,omitempty"`
}

// IsEmployee reports whether the profile carries employee fields
func (u User) IsEmployee() bool {
	return u.Badge != "" || u.JobTitle != ""
}

// UserRequest is the body used to create users and employees
type UserRequest struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"senha"`
	CPF      string `json:"cpf,omitempty"`
	Role     Role   `json:"tipo"`
	JobTitle string `json:"cargo,omitempty"`
	Badge    string `json:"matricula,omitempty"`
}

// Validate checks the fields the backend marks as required
func (r UserRequest) Validate() error {
	if r.Name == "" || r.Email == "" || r.Password == "" {
		return ErrInvalid("nome, email and senha are required")
	}
	if !strings.Contains(r.Email, "@") {
		return ErrInvalid("email is not valid")
	}
	if r.Role == "" {
		return ErrInvalid("tipo is required")
	}
	return nil
}

// ProfileUpdate is the body of PUT /usuarios/me
type ProfileUpdate struct {
	Name     string `json:"nome"`
	Phone    string `json:"telefone"`
	Email    string `json:"email"`
	Role     Role   `json:"tipo"`
	Password string `json:"senha"`
}

// KeepPassword is the placeholder the backend reads as "leave the password unchanged"
const KeepPassword = "nao_alterar"

// Normalize fills the fields the backend requires but the caller may omit
func (p ProfileUpdate) Normalize() ProfileUpdate {
	if p.Password == "" {
		p.Password = KeepPassword
	}
	if p.Role == "" {
		p.Role = RoleCustomer
	}
	return p
}

// Credentials is the body of POST /auth/login
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// LoginResponse is returned by POST /auth/login
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"usuario"`
}
