// Package auth registro de usuarios e inicio de sesión.
package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/renewal-tracking-api/internal/application/dto"
	"github.com/jhoicas/renewal-tracking-api/internal/domain"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/entity"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/repository"
	"github.com/jhoicas/renewal-tracking-api/pkg/jwt"
)

// AuthUseCase registro y login.
//
// Reglas de rol al registrarse:
//   - el primer usuario de una empresa queda como admin;
//   - los siguientes entran como ventas salvo que pidan compras;
//   - admin solo se concede al primero; después se asigna con PUT /api/users/:id/role.
type AuthUseCase struct {
	users     repository.UserRepository
	companies repository.CompanyRepository
	tokens    *jwt.Signer
	cost      int
	now       func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(users repository.UserRepository, companies repository.CompanyRepository, tokens *jwt.Signer) *AuthUseCase {
	return &AuthUseCase{users: users, companies: companies, tokens: tokens, cost: bcrypt.DefaultCost, now: time.Now}
}

// RegisterUser crea un usuario con la contraseña hasheada con bcrypt.
// domain.ErrNotFound si la empresa no existe, domain.ErrForbidden si está inactiva o se pide
// admin sin ser el primero, domain.ErrEmailAlreadyExists si el email ya está en la empresa.
func (uc *AuthUseCase) RegisterUser(in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := normalizeEmail(in.Email)
	if in.Role != "" && !entity.IsValidRole(in.Role) {
		return nil, domain.ErrInvalidInput
	}
	company, err := uc.companies.GetByID(in.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if company.Status != "" && company.Status != entity.StatusActive {
		return nil, domain.ErrForbidden
	}
	if existing, _ := uc.users.GetByEmailAndCompany(email, in.CompanyID); existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	role, err := uc.roleFor(in.CompanyID, in.Role)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cost)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    in.CompanyID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Status:       entity.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func (uc *AuthUseCase) roleFor(companyID, requested string) (string, error) {
	members, err := uc.users.ListByCompany(companyID, 1, 0)
	if err != nil {
		return "", err
	}
	if len(members) == 0 {
		return entity.RoleAdmin, nil
	}
	switch requested {
	case "":
		return entity.RoleVentas, nil
	case entity.RoleAdmin:
		return "", domain.ErrForbidden
	default:
		return requested, nil
	}
}

// Login verifica credenciales y emite el token de sesión.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.users.GetByEmail(normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.StatusActive {
		return nil, domain.ErrForbidden
	}
	token, exp, err := uc.tokens.Sign(jwt.Identity{UserID: user.ID, CompanyID: user.CompanyID, Role: user.Role})
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, ExpiresAt: exp, User: *toUserResponse(user)}, nil
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
