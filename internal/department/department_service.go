package department

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	departmenterrors "go-leavelink/internal/department/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=department_service.go -destination=mock/department_service_mock.go -package=mock
type Service interface {
	EnsureByName(ctx context.Context, name string) (DepartmentResponse, error)
	GetAll(ctx context.Context) ([]DepartmentResponse, error)
	GetByID(ctx context.Context, id string) (DepartmentResponse, error)
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

// EnsureByName resolves a department by name, creating it when missing.
// Used by registration so provisioning a user never fails on an unknown
// department.
func (s *service) EnsureByName(ctx context.Context, name string) (DepartmentResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return DepartmentResponse{}, departmenterrors.ErrInvalidDepartmentName
	}

	existing, err := s.repo.FindByName(ctx, name)
	if err == nil {
		return mapToResponse(*existing), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return DepartmentResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DepartmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	dept := &Department{
		ID:   uuid.New(),
		Name: name,
		Code: deriveCode(name),
	}

	if err := qtx.Create(ctx, dept); err != nil {
		// A concurrent registration may have created it between the
		// lookup and the insert; re-read in that case.
		if mapped := mapRepositoryError(err); mapped == departmenterrors.ErrDepartmentNameTaken ||
			mapped == departmenterrors.ErrDepartmentCodeTaken {
			if existing, findErr := s.repo.FindByName(ctx, name); findErr == nil {
				return mapToResponse(*existing), nil
			}
		}
		return DepartmentResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return DepartmentResponse{}, err
	}

	return mapToResponse(*dept), nil
}

func (s *service) GetAll(ctx context.Context) ([]DepartmentResponse, error) {
	depts, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	return mapToListResponse(depts), nil
}

func (s *service) GetByID(ctx context.Context, id string) (DepartmentResponse, error) {
	dept, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return DepartmentResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*dept), nil
}

// deriveCode builds a short unique-ish code from the initials of the name
// ("Computer Science" -> "CS"). Uniqueness is still enforced by the
// database constraint.
func deriveCode(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r := []rune(word)
		b.WriteRune(r[0])
	}
	code := strings.ToUpper(b.String())
	if len(code) > 10 {
		code = code[:10]
	}
	return code
}

func mapToResponse(dept Department) DepartmentResponse {
	resp := DepartmentResponse{
		ID:          dept.ID.String(),
		Name:        dept.Name,
		Code:        dept.Code,
		Description: dept.Description,
		CreatedAt:   dept.CreatedAt.Format("2006-01-02"),
	}
	if dept.HeadID != nil {
		v := dept.HeadID.String()
		resp.HeadID = &v
	}
	return resp
}

func mapToListResponse(depts []Department) []DepartmentResponse {
	res := make([]DepartmentResponse, len(depts))
	for i, d := range depts {
		res[i] = mapToResponse(d)
	}
	return res
}
