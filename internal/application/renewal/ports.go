package renewal

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/renewal-tracking-api/internal/domain/entity"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/renewal"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/repository"
)

// RenewalTxRunner ejecuta una función dentro de una transacción con los repos de renovación.
type RenewalTxRunner interface {
	RunRenewal(ctx context.Context, fn func(
		renewals repository.RenewalRepository,
		quotations repository.QuotationRepository,
	) error) error
}

// RateCache caché opcional de moneda base por empresa y de tasas por par.
// Una implementación nil-safe puede devolver siempre "no encontrado".
type RateCache interface {
	GetCompanyCurrency(ctx context.Context, companyID string) (string, bool)
	SetCompanyCurrency(ctx context.Context, companyID, currency string)
	GetRate(ctx context.Context, from, to string) (decimal.Decimal, bool)
	SetRate(ctx context.Context, from, to string, rate decimal.Decimal)
}

// ErrLockNotObtained otro proceso está modificando el mismo documento.
var ErrLockNotObtained = errors.New("documento bloqueado por otra operación")

// DocumentLocker bloqueo por documento alrededor de recálculo + guardado.
type DocumentLocker interface {
	// Obtain devuelve ErrLockNotObtained si el bloqueo está tomado.
	Obtain(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// Table contenido tabular de un archivo de ítems (encabezado + filas de texto).
// Numeric marca las columnas que el codec puede escribir como número.
type Table struct {
	Header  []string
	Rows    [][]string
	Numeric []bool
}

// TableCodec lee/escribe tablas en un formato de archivo concreto (CSV, XLSX).
type TableCodec interface {
	ReadTable(r io.Reader) (*Table, error)
	WriteTable(w io.Writer, t *Table) error
	ContentType() string
	Extension() string // con punto: ".csv"
}

// RenewalPDFGenerator genera el resumen imprimible de una renovación.
type RenewalPDFGenerator interface {
	GenerateRenewalPDF(
		ctx context.Context,
		doc *entity.RenewalTracking,
		company *entity.Company,
		badge *renewal.Badge,
	) ([]byte, error)
}
