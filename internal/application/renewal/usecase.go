package renewal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/renewal-tracking-api/internal/application/dto"
	"github.com/jhoicas/renewal-tracking-api/internal/domain"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/entity"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/repository"
	"github.com/jhoicas/renewal-tracking-api/pkg/logger"
)

const lockTTL = 30 * time.Second

// Config parámetros del caso de uso.
type Config struct {
	MaxImportRows int
	Location      *time.Location // zona para determinar "hoy"; nil = UTC
}

// Deps dependencias del caso de uso de renovaciones.
type Deps struct {
	TxRunner      RenewalTxRunner
	RenewalRepo   repository.RenewalRepository
	QuotationRepo repository.QuotationRepository
	CompanyRepo   repository.CompanyRepository
	Resolver      *CurrencyResolver
	Locker        DocumentLocker // opcional
	PDF           RenewalPDFGenerator
	Codecs        []TableCodec
	Config        Config
	Now           func() time.Time // opcional; por defecto time.Now
	Log           *logger.Logger
}

// RenewalUseCase orquesta el ciclo de vida de Renewal Tracking: cada cambio
// resuelve moneda/tasa y recalcula líneas, totales y días restantes antes de persistir.
type RenewalUseCase struct {
	txRunner      RenewalTxRunner
	renewalRepo   repository.RenewalRepository
	quotationRepo repository.QuotationRepository
	companyRepo   repository.CompanyRepository
	resolver      *CurrencyResolver
	locker        DocumentLocker
	pdf           RenewalPDFGenerator
	codecs        map[string]TableCodec
	cfg           Config
	now           func() time.Time
	log           *logger.Logger
}

// NewRenewalUseCase construye el caso de uso.
func NewRenewalUseCase(d Deps) *RenewalUseCase {
	codecs := make(map[string]TableCodec, len(d.Codecs))
	for _, c := range d.Codecs {
		codecs[c.Extension()] = c
	}
	cfg := d.Config
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.MaxImportRows <= 0 {
		cfg.MaxImportRows = 5000
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}
	return &RenewalUseCase{
		txRunner:      d.TxRunner,
		renewalRepo:   d.RenewalRepo,
		quotationRepo: d.QuotationRepo,
		companyRepo:   d.CompanyRepo,
		resolver:      d.Resolver,
		locker:        d.Locker,
		pdf:           d.PDF,
		codecs:        codecs,
		cfg:           cfg,
		now:           now,
		log:           log.WithComponent("renewal"),
	}
}

// today fecha actual en la zona configurada.
func (uc *RenewalUseCase) today() time.Time {
	return uc.now().In(uc.cfg.Location)
}

// Create crea una renovación en borrador, con ítems y valores derivados ya calculados.
func (uc *RenewalUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateRenewalRequest) (*dto.RenewalResponse, error) {
	if companyID == "" || strings.TrimSpace(in.CustomerName) == "" || strings.TrimSpace(in.Currency) == "" {
		return nil, domain.ErrInvalidInput
	}
	start, err := parseDate(in.LicenseStart)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(in.LicenseEnd)
	if err != nil {
		return nil, err
	}
	stage := in.RenewalStage
	if stage == "" {
		stage = entity.StageIdentified
	}

	now := uc.now()
	doc := &entity.RenewalTracking{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		CustomerName: strings.TrimSpace(in.CustomerName),
		RenewalStage: stage,
		Currency:     strings.ToUpper(strings.TrimSpace(in.Currency)),
		ExchangeRate: in.ExchangeRate,
		LicenseStart: start,
		LicenseEnd:   end,
		DocStatus:    entity.DocStatusDraft,
		Items:        itemsFromRequest(in.Items),
		CreatedBy:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	assignItemIDs(doc)

	if err := uc.recalculate(ctx, doc); err != nil {
		return nil, err
	}

	err = uc.txRunner.RunRenewal(ctx, func(renewals repository.RenewalRepository, _ repository.QuotationRepository) error {
		name, err := renewals.NextName(ctx, companyID, uc.today().Year())
		if err != nil {
			return err
		}
		doc.Name = name
		return renewals.Create(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("renewal_id", doc.ID).Str("name", doc.Name).Int("items", len(doc.Items)).Msg("renovación creada")
	return toRenewalResponse(doc), nil
}

// Get obtiene una renovación con sus ítems.
func (uc *RenewalUseCase) Get(ctx context.Context, companyID, id string) (*dto.RenewalResponse, error) {
	doc, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toRenewalResponse(doc), nil
}

// List devuelve la vista de lista con la insignia de días restantes.
func (uc *RenewalUseCase) List(ctx context.Context, companyID string, f repository.RenewalFilter, page dto.PageRequest) (*dto.RenewalListResponse, error) {
	page.DefaultPage()
	docs, total, err := uc.renewalRepo.List(ctx, companyID, f, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RenewalListItem, 0, len(docs))
	for _, d := range docs {
		items = append(items, toRenewalListItem(d))
	}
	return &dto.RenewalListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Update aplica los cambios de un borrador y recalcula todo el documento.
// Con rango de licencia inválido no se guarda nada y se devuelve domain.ErrInvalidRange.
func (uc *RenewalUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateRenewalRequest) (*dto.RenewalResponse, error) {
	var out *dto.RenewalResponse
	err := uc.withLock(ctx, id, func() error {
		doc, err := uc.load(ctx, companyID, id)
		if err != nil {
			return err
		}
		if doc.DocStatus != entity.DocStatusDraft {
			return domain.ErrDocumentSubmitted
		}
		if err := applyUpdate(doc, in); err != nil {
			return err
		}
		if err := uc.recalculate(ctx, doc); err != nil {
			return err
		}
		if err := uc.save(ctx, doc); err != nil {
			return err
		}
		out = toRenewalResponse(doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func applyUpdate(doc *entity.RenewalTracking, in dto.UpdateRenewalRequest) error {
	if in.CustomerName != nil {
		doc.CustomerName = strings.TrimSpace(*in.CustomerName)
	}
	if in.RenewalStage != nil {
		doc.RenewalStage = *in.RenewalStage
	}
	if in.Currency != nil && !strings.EqualFold(*in.Currency, doc.Currency) {
		doc.Currency = strings.ToUpper(strings.TrimSpace(*in.Currency))
		// Cambio de moneda: la tasa anterior no aplica, se vuelve a resolver.
		if in.ExchangeRate == nil {
			doc.ExchangeRate = decimal.Zero
		}
	}
	if in.ExchangeRate != nil {
		doc.ExchangeRate = *in.ExchangeRate
	}
	if in.LicenseStart != nil {
		t, err := parseDate(*in.LicenseStart)
		if err != nil {
			return err
		}
		doc.LicenseStart = t
	}
	if in.LicenseEnd != nil {
		t, err := parseDate(*in.LicenseEnd)
		if err != nil {
			return err
		}
		doc.LicenseEnd = t
	}
	if in.Items != nil {
		doc.Items = itemsFromRequest(*in.Items)
		assignItemIDs(doc)
	}
	return nil
}

// Recalculate vuelve a calcular el documento. En borradores persiste líneas, totales y días;
// en documentos enviados o cancelados la valoración queda congelada y solo se refrescan los días.
func (uc *RenewalUseCase) Recalculate(ctx context.Context, companyID, id string) (*dto.RenewalResponse, error) {
	var out *dto.RenewalResponse
	err := uc.withLock(ctx, id, func() error {
		doc, err := uc.load(ctx, companyID, id)
		if err != nil {
			return err
		}
		if doc.DocStatus != entity.DocStatusDraft {
			if _, err := ApplyRenewalStatus(doc, uc.today()); err != nil {
				return err
			}
			if err := uc.renewalRepo.UpdateDaysRemaining(ctx, doc.ID, doc.DaysRemaining); err != nil {
				return err
			}
			out = toRenewalResponse(doc)
			return nil
		}
		if err := uc.recalculate(ctx, doc); err != nil {
			return err
		}
		if err := uc.save(ctx, doc); err != nil {
			return err
		}
		out = toRenewalResponse(doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Submit valida y envía el borrador (docstatus 0 -> 1).
func (uc *RenewalUseCase) Submit(ctx context.Context, companyID, id string) (*dto.RenewalResponse, error) {
	var out *dto.RenewalResponse
	err := uc.withLock(ctx, id, func() error {
		doc, err := uc.load(ctx, companyID, id)
		if err != nil {
			return err
		}
		if doc.DocStatus != entity.DocStatusDraft {
			return domain.ErrDocumentSubmitted
		}
		if err := uc.recalculate(ctx, doc); err != nil {
			return err
		}
		doc.DocStatus = entity.DocStatusSubmitted
		if err := uc.save(ctx, doc); err != nil {
			return err
		}
		uc.log.Info().Str("renewal_id", doc.ID).Str("name", doc.Name).Msg("renovación enviada")
		out = toRenewalResponse(doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Cancel cancela un documento enviado (docstatus 1 -> 2).
func (uc *RenewalUseCase) Cancel(ctx context.Context, companyID, id string) (*dto.RenewalResponse, error) {
	var out *dto.RenewalResponse
	err := uc.withLock(ctx, id, func() error {
		doc, err := uc.load(ctx, companyID, id)
		if err != nil {
			return err
		}
		if doc.DocStatus != entity.DocStatusSubmitted {
			return domain.ErrNotSubmitted
		}
		doc.DocStatus = entity.DocStatusCancelled
		doc.UpdatedAt = uc.now()
		if err := uc.renewalRepo.Update(ctx, doc); err != nil {
			return err
		}
		out = toRenewalResponse(doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete elimina borradores y documentos cancelados.
func (uc *RenewalUseCase) Delete(ctx context.Context, companyID, id string) error {
	doc, err := uc.load(ctx, companyID, id)
	if err != nil {
		return err
	}
	if doc.DocStatus == entity.DocStatusSubmitted {
		return domain.ErrDocumentSubmitted
	}
	return uc.renewalRepo.Delete(ctx, id)
}

// RefreshDaysRemaining recalcula days_remaining de todos los documentos con ambas fechas.
// Pensado para ejecutarse una vez al día; devuelve cuántos documentos cambiaron.
func (uc *RenewalUseCase) RefreshDaysRemaining(ctx context.Context) (int, error) {
	docs, err := uc.renewalRepo.ListWithLicenseDates(ctx)
	if err != nil {
		return 0, err
	}
	today := uc.today()
	updated := 0
	for _, doc := range docs {
		prev := doc.DaysRemaining
		if _, err := ApplyRenewalStatus(doc, today); err != nil {
			// Rango inválido guardado por una versión anterior: se deja sin días.
			uc.log.Warn().Str("renewal_id", doc.ID).Err(err).Msg("rango de licencia inválido")
		}
		if sameDays(prev, doc.DaysRemaining) {
			continue
		}
		if err := uc.renewalRepo.UpdateDaysRemaining(ctx, doc.ID, doc.DaysRemaining); err != nil {
			return updated, fmt.Errorf("actualizar días restantes %s: %w", doc.ID, err)
		}
		updated++
	}
	uc.log.Info().Int("documents", len(docs)).Int("updated", updated).Msg("días restantes actualizados")
	return updated, nil
}

func sameDays(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// recalculate resuelve moneda/tasa y aplica los tres calculadores al documento.
func (uc *RenewalUseCase) recalculate(ctx context.Context, doc *entity.RenewalTracking) error {
	resolved, err := uc.resolver.Resolve(ctx, doc.CompanyID, doc.Currency, doc.ExchangeRate)
	if err != nil {
		return err
	}
	doc.ExchangeRate = resolved.ExchangeRate
	ApplyValuation(doc, resolved.IsForeign)
	if _, err := ApplyRenewalStatus(doc, uc.today()); err != nil {
		return err
	}
	return nil
}

// save persiste cabecera e ítems en una transacción.
func (uc *RenewalUseCase) save(ctx context.Context, doc *entity.RenewalTracking) error {
	doc.UpdatedAt = uc.now()
	return uc.txRunner.RunRenewal(ctx, func(renewals repository.RenewalRepository, _ repository.QuotationRepository) error {
		if err := renewals.Update(ctx, doc); err != nil {
			return err
		}
		return renewals.ReplaceItems(ctx, doc.ID, doc.Items)
	})
}

// load obtiene el documento y verifica que pertenezca a la empresa.
func (uc *RenewalUseCase) load(ctx context.Context, companyID, id string) (*entity.RenewalTracking, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	doc, err := uc.renewalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	if doc.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return doc, nil
}

// withLock ejecuta fn con el bloqueo del documento. Si Redis no responde se continúa sin bloqueo;
// si el bloqueo está tomado se devuelve domain.ErrConflict.
func (uc *RenewalUseCase) withLock(ctx context.Context, id string, fn func() error) error {
	if uc.locker == nil {
		return fn()
	}
	release, err := uc.locker.Obtain(ctx, "lock:renewal:"+id, lockTTL)
	switch {
	case errors.Is(err, ErrLockNotObtained):
		return domain.ErrConflict
	case err != nil:
		uc.log.Warn().Err(err).Str("renewal_id", id).Msg("bloqueo no disponible; se continúa sin bloqueo")
		return fn()
	}
	defer release()
	return fn()
}

func assignItemIDs(doc *entity.RenewalTracking) {
	for _, it := range doc.Items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.RenewalID = doc.ID
	}
}
