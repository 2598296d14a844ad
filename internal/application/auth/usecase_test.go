package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/renewal-tracking-api/internal/application/dto"
	"github.com/jhoicas/renewal-tracking-api/internal/domain"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/entity"
	"github.com/jhoicas/renewal-tracking-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type memUsers struct{ list []*entity.User }

func (m *memUsers) Create(u *entity.User) error { m.list = append(m.list, u); return nil }
func (m *memUsers) GetByID(id string) (*entity.User, error) {
	for _, u := range m.list {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}
func (m *memUsers) GetByEmail(email string) (*entity.User, error) {
	for _, u := range m.list {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}
func (m *memUsers) GetByEmailAndCompany(email, companyID string) (*entity.User, error) {
	for _, u := range m.list {
		if strings.EqualFold(u.Email, email) && u.CompanyID == companyID {
			return u, nil
		}
	}
	return nil, nil
}
func (m *memUsers) Update(*entity.User) error { return nil }
func (m *memUsers) ListByCompany(companyID string, limit, _ int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range m.list {
		if u.CompanyID == companyID && len(out) < limit {
			out = append(out, u)
		}
	}
	return out, nil
}
func (m *memUsers) Delete(string) error { return nil }

type memCompanies map[string]*entity.Company

func (m memCompanies) Create(c *entity.Company) error             { m[c.ID] = c; return nil }
func (m memCompanies) GetByID(id string) (*entity.Company, error) { return m[id], nil }
func (m memCompanies) GetByTaxID(string) (*entity.Company, error) { return nil, nil }
func (m memCompanies) Update(c *entity.Company) error             { m[c.ID] = c; return nil }
func (m memCompanies) List(int, int) ([]*entity.Company, error)   { return nil, nil }
func (m memCompanies) Delete(id string) error                     { delete(m, id); return nil }

const (
	companyOK        = "11111111-1111-1111-1111-111111111111"
	companySuspended = "22222222-2222-2222-2222-222222222222"
)

var clock = time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)

func newAuth(t *testing.T) (*AuthUseCase, *memUsers, *jwt.Signer) {
	t.Helper()
	signer, err := jwt.NewSigner("secreto", "renewal-tracking-test", time.Hour)
	require.NoError(t, err)
	signer = signer.WithClock(func() time.Time { return clock })
	users := &memUsers{}
	uc := NewAuthUseCase(users, memCompanies{
		companyOK:        {ID: companyOK, Status: entity.StatusActive},
		companySuspended: {ID: companySuspended, Status: "suspended"},
	}, signer)
	uc.cost = bcrypt.MinCost
	uc.now = func() time.Time { return clock }
	return uc, users, signer
}

func register(uc *AuthUseCase, email, role string) (*dto.UserResponse, error) {
	return uc.RegisterUser(dto.RegisterRequest{Email: email, Password: "clave-segura", CompanyID: companyOK, Role: role})
}

// ──────────────────────────────────────────────────────────────────────────────
// RegisterUser
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_PrimerUsuarioEsAdmin(t *testing.T) {
	uc, users, _ := newAuth(t)

	first, err := register(uc, "  Ana@Acme.com ", entity.RoleCompras)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, first.Role)
	assert.Equal(t, "ana@acme.com", first.Email)
	assert.Equal(t, "ana@acme.com", first.Name)
	assert.Equal(t, entity.StatusActive, first.Status)
	assert.Equal(t, clock, first.CreatedAt)
	assert.NotEqual(t, "clave-segura", users.list[0].PasswordHash)
}

func TestRegister_RolesDeLosSiguientes(t *testing.T) {
	uc, _, _ := newAuth(t)
	_, err := register(uc, "admin@acme.com", "")
	require.NoError(t, err)

	def, err := register(uc, "vendedor@acme.com", "")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVentas, def.Role)

	buyer, err := register(uc, "compras@acme.com", entity.RoleCompras)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCompras, buyer.Role)

	_, err = register(uc, "otro-admin@acme.com", entity.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = register(uc, "raro@acme.com", "gerente")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegister_Rechazos(t *testing.T) {
	uc, _, _ := newAuth(t)
	_, err := register(uc, "ana@acme.com", "")
	require.NoError(t, err)

	_, err = register(uc, "ANA@acme.com", "")
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "x@y.com", Password: "clave-segura", CompanyID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "x@y.com", Password: "clave-segura", CompanyID: companySuspended})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_EmiteTokenConRolYVencimiento(t *testing.T) {
	uc, _, signer := newAuth(t)
	_, err := register(uc, "ana@acme.com", "")
	require.NoError(t, err)
	seller, err := register(uc, "luis@acme.com", "")
	require.NoError(t, err)

	out, err := uc.Login(dto.LoginRequest{Email: "LUIS@acme.com", Password: "clave-segura"})
	require.NoError(t, err)
	assert.Equal(t, clock.Add(time.Hour), out.ExpiresAt)
	assert.Equal(t, seller.ID, out.User.ID)

	id, err := signer.Verify(out.Token)
	require.NoError(t, err)
	assert.Equal(t, jwt.Identity{UserID: seller.ID, CompanyID: companyOK, Role: entity.RoleVentas}, id)
}

func TestLogin_Rechazos(t *testing.T) {
	uc, users, _ := newAuth(t)
	_, err := register(uc, "ana@acme.com", "")
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "nadie@acme.com", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = uc.Login(dto.LoginRequest{Email: "ana@acme.com", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	users.list[0].Status = "inactive"
	_, err = uc.Login(dto.LoginRequest{Email: "ana@acme.com", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
