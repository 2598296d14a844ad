package usecase

import (
	"time"

	"github.com/jhoicas/renewal-tracking-api/internal/application/dto"
	"github.com/jhoicas/renewal-tracking-api/internal/domain"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/entity"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/repository"
)

// UserUseCase consulta y administración de usuarios dentro de la empresa del token.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// Me devuelve el usuario autenticado.
func (uc *UserUseCase) Me(companyID, userID string) (*dto.UserResponse, error) {
	u, err := uc.load(companyID, userID)
	if err != nil {
		return nil, err
	}
	return entityToUserResponse(u), nil
}

// List usuarios de la empresa, paginados.
func (uc *UserUseCase) List(companyID string, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.DefaultPage()
	users, err := uc.repo.ListByCompany(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.UserListResponse{
		Items: make([]dto.UserResponse, 0, len(users)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, u := range users {
		out.Items = append(out.Items, *entityToUserResponse(u))
	}
	return out, nil
}

// UpdateRole cambia rol y, opcionalmente, estado de un usuario de la misma empresa.
// Un admin no puede quitarse su propio rol.
func (uc *UserUseCase) UpdateRole(companyID, actorID, userID string, in dto.UpdateUserRoleRequest) (*dto.UserResponse, error) {
	u, err := uc.load(companyID, userID)
	if err != nil {
		return nil, err
	}
	if actorID == userID && in.Role != entity.RoleAdmin {
		return nil, domain.ErrConflict
	}
	u.Role = in.Role
	if in.Status != "" {
		u.Status = in.Status
	}
	u.UpdatedAt = time.Now()
	if err := uc.repo.Update(u); err != nil {
		return nil, err
	}
	return entityToUserResponse(u), nil
}

func (uc *UserUseCase) load(companyID, userID string) (*entity.User, error) {
	u, err := uc.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	if u.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return u, nil
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
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
