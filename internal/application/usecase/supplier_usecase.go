package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gestion-stock-api/internal/application/dto"
	"github.com/jhoicas/gestion-stock-api/internal/domain"
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
	"github.com/jhoicas/gestion-stock-api/internal/domain/repository"
)

// SupplierUseCase casos de uso CRUD y búsqueda de proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

// Create registra un proveedor; email e ICE deben ser únicos.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	s := fromSupplierRequest(in)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := uc.checkUnique(ctx, s); err != nil {
		return nil, err
	}
	now := time.Now()
	s.ID = uuid.New().String()
	s.CreatedAt = now
	s.UpdatedAt = now
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// GetByID obtiene un proveedor.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	return found(s, err, "id", id)
}

// GetByEmail obtiene un proveedor por email.
func (uc *SupplierUseCase) GetByEmail(ctx context.Context, email string) (*dto.SupplierResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s, err := uc.repo.GetByEmail(ctx, email)
	return found(s, err, "email", email)
}

// GetByICE obtiene un proveedor por ICE.
func (uc *SupplierUseCase) GetByICE(ctx context.Context, ice string) (*dto.SupplierResponse, error) {
	ice = strings.TrimSpace(ice)
	s, err := uc.repo.GetByICE(ctx, ice)
	return found(s, err, "ICE", ice)
}

// Update reemplaza los datos del proveedor.
func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	current, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.NotFound("proveedor", "id", id)
	}
	s := fromSupplierRequest(in)
	s.ID = current.ID
	s.CreatedAt = current.CreatedAt
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := uc.checkUnique(ctx, s); err != nil {
		return nil, err
	}
	s.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// Delete elimina un proveedor sin órdenes (si las tiene el repositorio devuelve ErrConflict).
func (uc *SupplierUseCase) Delete(ctx context.Context, id string) error {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.NotFound("proveedor", "id", id)
	}
	return uc.repo.Delete(ctx, id)
}

// Search busca por palabra clave, ciudad o razón social. Sin filtros lista todos.
func (uc *SupplierUseCase) Search(ctx context.Context, filter repository.SupplierFilter) ([]dto.SupplierResponse, error) {
	filter.Keyword = strings.TrimSpace(filter.Keyword)
	filter.City = strings.TrimSpace(filter.City)
	filter.CompanyName = strings.TrimSpace(filter.CompanyName)
	list, err := uc.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSupplierResponse(s))
	}
	return out, nil
}

func (uc *SupplierUseCase) checkUnique(ctx context.Context, s *entity.Supplier) error {
	exists, err := uc.repo.ExistsByEmail(ctx, s.Email, s.ID)
	if err != nil {
		return err
	}
	if exists {
		return domain.Duplicate("email", s.Email)
	}
	exists, err = uc.repo.ExistsByICE(ctx, s.ICE, s.ID)
	if err != nil {
		return err
	}
	if exists {
		return domain.Duplicate("ICE", s.ICE)
	}
	return nil
}

func found(s *entity.Supplier, err error, field, value string) (*dto.SupplierResponse, error) {
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.NotFound("proveedor", field, value)
	}
	return toSupplierResponse(s), nil
}

func fromSupplierRequest(in dto.SupplierRequest) *entity.Supplier {
	return &entity.Supplier{
		CompanyName:   strings.TrimSpace(in.CompanyName),
		Address:       in.Address,
		City:          strings.TrimSpace(in.City),
		ContactPerson: in.ContactPerson,
		Email:         strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:         strings.TrimSpace(in.Phone),
		ICE:           strings.TrimSpace(in.ICE),
	}
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:            s.ID,
		CompanyName:   s.CompanyName,
		Address:       s.Address,
		City:          s.City,
		ContactPerson: s.ContactPerson,
		Email:         s.Email,
		Phone:         s.Phone,
		ICE:           s.ICE,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
