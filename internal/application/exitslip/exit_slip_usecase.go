package exitslip

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gestion-stock-api/internal/application/dto"
	"github.com/jhoicas/gestion-stock-api/internal/application/inventory"
	"github.com/jhoicas/gestion-stock-api/internal/application/ports"
	"github.com/jhoicas/gestion-stock-api/internal/domain"
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
	"github.com/jhoicas/gestion-stock-api/internal/domain/repository"
	"github.com/jhoicas/gestion-stock-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// PDFGenerator puerto de salida para imprimir un bon de salida.
// consumptions son los asientos OUT del bon (vacío si aún no fue validado).
type PDFGenerator interface {
	GenerateExitSlipPDF(slip *entity.ExitSlip, products map[string]*entity.Product, consumptions []*repository.MovementDetail) ([]byte, error)
}

// UseCase ciclo de vida de los bons de salida. La validación dispara el motor FIFO
// para cada línea dentro de una única transacción.
type UseCase struct {
	tx         ports.TxRunner
	withdrawal *inventory.WithdrawalEngine
	pdf        PDFGenerator
	log        *logger.Logger
	now        func() time.Time
}

// NewUseCase construye el caso de uso. pdf puede ser nil.
func NewUseCase(tx ports.TxRunner, withdrawal *inventory.WithdrawalEngine, pdf PDFGenerator, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{tx: tx, withdrawal: withdrawal, pdf: pdf, log: log, now: time.Now}
}

// Create registra un bon en DRAFT.
func (uc *UseCase) Create(ctx context.Context, in dto.ExitSlipRequest) (*dto.ExitSlipResponse, error) {
	exitDate, reason, err := parseHeader(in)
	if err != nil {
		return nil, err
	}
	var out *dto.ExitSlipResponse
	err = uc.tx.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		number := strings.TrimSpace(in.Number)
		exists, err := repos.ExitSlips.ExistsByNumber(ctx, number, "")
		if err != nil {
			return err
		}
		if exists {
			return domain.Duplicate("número de bon", number)
		}
		lines, err := buildLines(ctx, repos.Products, in.Lines)
		if err != nil {
			return err
		}
		now := uc.now()
		slip := &entity.ExitSlip{
			ID:        uuid.New().String(),
			Number:    number,
			ExitDate:  exitDate,
			Workshop:  strings.TrimSpace(in.Workshop),
			Reason:    reason,
			Status:    entity.ExitSlipStatusDraft,
			Notes:     in.Notes,
			CreatedAt: now,
			UpdatedAt: now,
		}
		slip.ReplaceLines(lines)
		if err := repos.ExitSlips.Create(ctx, slip); err != nil {
			return err
		}
		out, err = toResponse(ctx, repos.Products, slip)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get devuelve un bon con sus líneas.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.ExitSlipResponse, error) {
	var out *dto.ExitSlipResponse
	err := uc.tx.RunReadOnly(ctx, func(ctx context.Context, repos ports.Repositories) error {
		slip, err := getSlip(ctx, repos.ExitSlips.GetByID, id)
		if err != nil {
			return err
		}
		out, err = toResponse(ctx, repos.Products, slip)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List todos los bons, más recientes primero.
func (uc *UseCase) List(ctx context.Context) ([]dto.ExitSlipResponse, error) {
	return uc.list(ctx, "")
}

// ListByWorkshop bons destinados a un taller.
func (uc *UseCase) ListByWorkshop(ctx context.Context, workshop string) ([]dto.ExitSlipResponse, error) {
	workshop = strings.TrimSpace(workshop)
	if workshop == "" {
		return nil, domain.Invalid("el taller es obligatorio")
	}
	return uc.list(ctx, workshop)
}

func (uc *UseCase) list(ctx context.Context, workshop string) ([]dto.ExitSlipResponse, error) {
	var out []dto.ExitSlipResponse
	err := uc.tx.RunReadOnly(ctx, func(ctx context.Context, repos ports.Repositories) error {
		slips, err := repos.ExitSlips.List(ctx, workshop)
		if err != nil {
			return err
		}
		out = make([]dto.ExitSlipResponse, 0, len(slips))
		for _, s := range slips {
			r, err := toResponse(ctx, repos.Products, s)
			if err != nil {
				return err
			}
			out = append(out, *r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update reemplaza cabecera y líneas de un bon en DRAFT.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.ExitSlipRequest) (*dto.ExitSlipResponse, error) {
	exitDate, reason, err := parseHeader(in)
	if err != nil {
		return nil, err
	}
	var out *dto.ExitSlipResponse
	err = uc.tx.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		slip, err := getSlip(ctx, repos.ExitSlips.GetForUpdate, id)
		if err != nil {
			return err
		}
		if !slip.IsModifiable() {
			return domain.InvalidState("el bon "+slip.Number, slip.Status, "modificar")
		}
		number := strings.TrimSpace(in.Number)
		if number != slip.Number {
			exists, err := repos.ExitSlips.ExistsByNumber(ctx, number, slip.ID)
			if err != nil {
				return err
			}
			if exists {
				return domain.Duplicate("número de bon", number)
			}
		}
		lines, err := buildLines(ctx, repos.Products, in.Lines)
		if err != nil {
			return err
		}
		slip.Number = number
		slip.ExitDate = exitDate
		slip.Workshop = strings.TrimSpace(in.Workshop)
		slip.Reason = reason
		slip.Notes = in.Notes
		slip.UpdatedAt = uc.now()
		slip.ReplaceLines(lines)
		if err := repos.ExitSlips.Update(ctx, slip); err != nil {
			return err
		}
		out, err = toResponse(ctx, repos.Products, slip)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Validate ejecuta la salida FIFO de todas las líneas y pasa el bon a VALIDATED.
// Si una línea falla no se confirma nada, ni siquiera las líneas anteriores.
func (uc *UseCase) Validate(ctx context.Context, id, userID string) (*dto.ExitSlipValidationResponse, error) {
	var out *dto.ExitSlipValidationResponse
	units := 0
	err := uc.tx.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		slip, err := getSlip(ctx, repos.ExitSlips.GetForUpdate, id)
		if err != nil {
			return err
		}
		if slip.Status != entity.ExitSlipStatusDraft {
			return domain.InvalidState("el bon "+slip.Number, slip.Status, "validar")
		}
		if len(slip.Lines) == 0 {
			return domain.Invalid("el bon %s no tiene líneas", slip.Number)
		}

		ids := make([]string, 0, len(slip.Lines))
		for _, l := range slip.Lines {
			ids = append(ids, l.ProductID)
		}
		products, err := inventory.LockProducts(ctx, repos.Products, ids)
		if err != nil {
			return err
		}

		wc := inventory.WithdrawalContext{
			ExitSlipID:     slip.ID,
			ExitSlipNumber: slip.Number,
			Workshop:       slip.Workshop,
			UserID:         userID,
		}
		consumptions := make([]dto.ConsumptionResponse, 0, len(slip.Lines))
		total := decimal.Zero
		for _, line := range slip.Lines {
			cons, err := uc.withdrawal.ProcessLine(ctx, repos, products[line.ProductID], line.RequestedQuantity, wc)
			if err != nil {
				return err
			}
			for _, c := range cons {
				r := inventory.ToConsumptionResponse(c)
				total = total.Add(r.Value)
				consumptions = append(consumptions, r)
			}
			units += line.RequestedQuantity
		}

		if err := slip.MarkValidated(uc.now()); err != nil {
			return err
		}
		if err := repos.ExitSlips.UpdateStatus(ctx, slip); err != nil {
			return err
		}
		resp, err := toResponse(ctx, repos.Products, slip)
		if err != nil {
			return err
		}
		out = &dto.ExitSlipValidationResponse{ExitSlip: *resp, Consumptions: consumptions, TotalValue: total}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("exit_slip_id", out.ExitSlip.ID).Str("number", out.ExitSlip.Number).
		Str("workshop", out.ExitSlip.Workshop).Int("lines", len(out.ExitSlip.Lines)).
		Int("units", units).Str("value", out.TotalValue.StringFixed(2)).Msg("bon de salida validado")
	return out, nil
}

// Cancel DRAFT -> CANCELLED. Un bon validado ya movió stock y no se anula.
func (uc *UseCase) Cancel(ctx context.Context, id string) (*dto.ExitSlipResponse, error) {
	var out *dto.ExitSlipResponse
	err := uc.tx.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		slip, err := getSlip(ctx, repos.ExitSlips.GetForUpdate, id)
		if err != nil {
			return err
		}
		if err := slip.Cancel(uc.now()); err != nil {
			return err
		}
		if err := repos.ExitSlips.UpdateStatus(ctx, slip); err != nil {
			return err
		}
		out, err = toResponse(ctx, repos.Products, slip)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("exit_slip_id", out.ID).Str("number", out.Number).Msg("bon de salida anulado")
	return out, nil
}

// ExportPDF imprime el bon; si está validado incluye los lotes consumidos.
func (uc *UseCase) ExportPDF(ctx context.Context, id string) ([]byte, string, error) {
	if uc.pdf == nil {
		return nil, "", domain.Invalid("generación de PDF no configurada")
	}
	var (
		slip     *entity.ExitSlip
		products = make(map[string]*entity.Product)
		moves    []*repository.MovementDetail
	)
	err := uc.tx.RunReadOnly(ctx, func(ctx context.Context, repos ports.Repositories) error {
		var err error
		if slip, err = getSlip(ctx, repos.ExitSlips.GetByID, id); err != nil {
			return err
		}
		for _, l := range slip.Lines {
			if _, ok := products[l.ProductID]; ok {
				continue
			}
			p, err := repos.Products.GetByID(ctx, l.ProductID)
			if err != nil {
				return err
			}
			products[l.ProductID] = p
		}
		if slip.Status == entity.ExitSlipStatusValidated {
			moves, err = repos.Movements.ListByExitSlip(ctx, slip.ID)
		}
		return err
	})
	if err != nil {
		return nil, "", err
	}
	data, err := uc.pdf.GenerateExitSlipPDF(slip, products, moves)
	if err != nil {
		return nil, "", err
	}
	return data, slip.Number, nil
}

func parseHeader(in dto.ExitSlipRequest) (time.Time, string, error) {
	exitDate, err := dto.ParseDate(in.ExitDate)
	if err != nil {
		return time.Time{}, "", domain.Invalid("exit_date debe tener formato %s, recibido %q", dto.DateLayout, in.ExitDate)
	}
	reason := strings.ToUpper(strings.TrimSpace(in.Reason))
	if !entity.IsValidExitReason(reason) {
		return time.Time{}, "", domain.Invalid("motivo de salida desconocido %q", in.Reason)
	}
	if strings.TrimSpace(in.Workshop) == "" {
		return time.Time{}, "", domain.Invalid("el taller es obligatorio")
	}
	return exitDate, reason, nil
}

func buildLines(ctx context.Context, products repository.ProductRepository, in []dto.ExitSlipLineRequest) ([]entity.ExitSlipLine, error) {
	if len(in) == 0 {
		return nil, domain.Invalid("el bon debe tener al menos una línea")
	}
	lines := make([]entity.ExitSlipLine, 0, len(in))
	for _, l := range in {
		if l.Quantity <= 0 {
			return nil, domain.Invalid("la cantidad de la línea debe ser positiva, recibido %d", l.Quantity)
		}
		p, err := products.GetByID(ctx, l.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.NotFound("producto", "id", l.ProductID)
		}
		lines = append(lines, entity.ExitSlipLine{
			ID:                uuid.New().String(),
			ProductID:         p.ID,
			RequestedQuantity: l.Quantity,
		})
	}
	return lines, nil
}

func getSlip(ctx context.Context, get func(context.Context, string) (*entity.ExitSlip, error), id string) (*entity.ExitSlip, error) {
	slip, err := get(ctx, id)
	if err != nil {
		return nil, err
	}
	if slip == nil {
		return nil, domain.NotFound("bon de salida", "id", id)
	}
	return slip, nil
}

func toResponse(ctx context.Context, products repository.ProductRepository, s *entity.ExitSlip) (*dto.ExitSlipResponse, error) {
	out := &dto.ExitSlipResponse{
		ID:          s.ID,
		Number:      s.Number,
		ExitDate:    s.ExitDate,
		Workshop:    s.Workshop,
		Reason:      s.Reason,
		Status:      s.Status,
		Notes:       s.Notes,
		ValidatedAt: s.ValidatedAt,
		Lines:       make([]dto.ExitSlipLineResponse, 0, len(s.Lines)),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	for _, l := range s.Lines {
		line := dto.ExitSlipLineResponse{ID: l.ID, ProductID: l.ProductID, RequestedQuantity: l.RequestedQuantity}
		p, err := products.GetByID(ctx, l.ProductID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			line.ProductReference = p.Reference
			line.ProductName = p.Name
		}
		out.Lines = append(out.Lines, line)
	}
	return out, nil
}
