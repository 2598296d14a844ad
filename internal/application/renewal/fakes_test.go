package renewal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/renewal-tracking-api/internal/domain/entity"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/renewal"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memRenewalRepo struct {
	mu      sync.Mutex
	docs    map[string]*entity.RenewalTracking
	seq     int
	updates int
}

func newMemRenewalRepo() *memRenewalRepo {
	return &memRenewalRepo{docs: map[string]*entity.RenewalTracking{}}
}

func cloneDoc(d *entity.RenewalTracking) *entity.RenewalTracking {
	cp := *d
	cp.Items = make([]*entity.RenewalTrackingItem, 0, len(d.Items))
	for _, it := range d.Items {
		c := *it
		cp.Items = append(cp.Items, &c)
	}
	return &cp
}

func (r *memRenewalRepo) Create(_ context.Context, d *entity.RenewalTracking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[d.ID] = cloneDoc(d)
	return nil
}

func (r *memRenewalRepo) Update(_ context.Context, d *entity.RenewalTracking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.docs[d.ID]
	if !ok {
		return errors.New("no existe")
	}
	items := cur.Items
	cp := cloneDoc(d)
	cp.Items = items
	r.docs[d.ID] = cp
	r.updates++
	return nil
}

func (r *memRenewalRepo) ReplaceItems(_ context.Context, id string, items []*entity.RenewalTrackingItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.docs[id]
	if !ok {
		return errors.New("no existe")
	}
	cur.Items = cloneDoc(&entity.RenewalTracking{Items: items}).Items
	return nil
}

func (r *memRenewalRepo) GetByID(_ context.Context, id string) (*entity.RenewalTracking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return nil, nil
	}
	return cloneDoc(d), nil
}

func (r *memRenewalRepo) List(_ context.Context, companyID string, f repository.RenewalFilter, limit, offset int) ([]*entity.RenewalTracking, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.RenewalTracking
	for _, d := range r.docs {
		if d.CompanyID != companyID {
			continue
		}
		if f.RenewalStage != "" && d.RenewalStage != f.RenewalStage {
			continue
		}
		if f.DocStatus != nil && d.DocStatus != *f.DocStatus {
			continue
		}
		if f.ExpiringWithin > 0 && (d.DaysRemaining == nil || *d.DaysRemaining > f.ExpiringWithin) {
			continue
		}
		out = append(out, cloneDoc(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	total := len(out)
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *memRenewalRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, id)
	return nil
}

func (r *memRenewalRepo) ListWithLicenseDates(_ context.Context) ([]*entity.RenewalTracking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.RenewalTracking
	for _, d := range r.docs {
		if d.LicenseStart != nil && d.LicenseEnd != nil && d.DocStatus != entity.DocStatusCancelled {
			out = append(out, cloneDoc(d))
		}
	}
	return out, nil
}

func (r *memRenewalRepo) UpdateDaysRemaining(_ context.Context, id string, days *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return errors.New("no existe")
	}
	d.DaysRemaining = days
	return nil
}

func (r *memRenewalRepo) NextName(_ context.Context, _ string, year int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return fmt.Sprintf("RT-%d-%05d", year, r.seq), nil
}

type memQuotationRepo struct {
	list []*entity.Quotation
}

func (r *memQuotationRepo) Create(_ context.Context, q *entity.Quotation) error {
	r.list = append(r.list, q)
	return nil
}

func (r *memQuotationRepo) ListByRenewal(_ context.Context, id string) ([]*entity.Quotation, error) {
	var out []*entity.Quotation
	for _, q := range r.list {
		if q.RenewalTrackingID == id {
			out = append(out, q)
		}
	}
	return out, nil
}

type memCompanyRepo struct {
	companies map[string]*entity.Company
	gets      int
}

func (r *memCompanyRepo) Create(c *entity.Company) error { r.companies[c.ID] = c; return nil }
func (r *memCompanyRepo) GetByID(id string) (*entity.Company, error) {
	r.gets++
	return r.companies[id], nil
}
func (r *memCompanyRepo) GetByTaxID(string) (*entity.Company, error) { return nil, nil }
func (r *memCompanyRepo) Update(c *entity.Company) error             { r.companies[c.ID] = c; return nil }
func (r *memCompanyRepo) List(int, int) ([]*entity.Company, error)   { return nil, nil }
func (r *memCompanyRepo) Delete(id string) error                     { delete(r.companies, id); return nil }

type memFXRepo struct {
	rates map[string]decimal.Decimal
	gets  int
}

func (r *memFXRepo) Create(_ context.Context, ce *entity.CurrencyExchange) error {
	r.rates[ce.FromCurrency+"->"+ce.ToCurrency] = ce.Rate
	return nil
}

func (r *memFXRepo) GetLatest(_ context.Context, from, to string) (*entity.CurrencyExchange, error) {
	r.gets++
	rate, ok := r.rates[from+"->"+to]
	if !ok {
		return nil, nil
	}
	return &entity.CurrencyExchange{FromCurrency: from, ToCurrency: to, Rate: rate}, nil
}

func (r *memFXRepo) List(context.Context, int, int) ([]*entity.CurrencyExchange, error) {
	return nil, nil
}

type memTx struct {
	renewals   *memRenewalRepo
	quotations *memQuotationRepo
}

func (t *memTx) RunRenewal(_ context.Context, fn func(repository.RenewalRepository, repository.QuotationRepository) error) error {
	return fn(t.renewals, t.quotations)
}

// ──────────────────────────────────────────────────────────────────────────────
// Caché, bloqueo y codec de prueba
// ──────────────────────────────────────────────────────────────────────────────

type memCache struct {
	currencies map[string]string
	rates      map[string]decimal.Decimal
}

func newMemCache() *memCache {
	return &memCache{currencies: map[string]string{}, rates: map[string]decimal.Decimal{}}
}

func (c *memCache) GetCompanyCurrency(_ context.Context, id string) (string, bool) {
	v, ok := c.currencies[id]
	return v, ok
}
func (c *memCache) SetCompanyCurrency(_ context.Context, id, cur string) { c.currencies[id] = cur }
func (c *memCache) GetRate(_ context.Context, from, to string) (decimal.Decimal, bool) {
	v, ok := c.rates[from+to]
	return v, ok
}
func (c *memCache) SetRate(_ context.Context, from, to string, rate decimal.Decimal) {
	c.rates[from+to] = rate
}

type stubLocker struct {
	err      error
	released int
}

func (l *stubLocker) Obtain(context.Context, string, time.Duration) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	return func() { l.released++ }, nil
}

// pipeCodec formato de texto mínimo: celdas separadas por "|", una fila por línea.
type pipeCodec struct{}

func (pipeCodec) ReadTable(r io.Reader) (*Table, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	t := &Table{Header: strings.Split(lines[0], "|")}
	for _, l := range lines[1:] {
		t.Rows = append(t.Rows, strings.Split(l, "|"))
	}
	return t, nil
}

func (pipeCodec) WriteTable(w io.Writer, t *Table) error {
	if _, err := fmt.Fprintln(w, strings.Join(t.Header, "|")); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if _, err := fmt.Fprintln(w, strings.Join(row, "|")); err != nil {
			return err
		}
	}
	return nil
}

func (pipeCodec) ContentType() string { return "text/plain" }
func (pipeCodec) Extension() string   { return ".txt" }

type stubPDF struct {
	badge *renewal.Badge
	calls int
}

func (p *stubPDF) GenerateRenewalPDF(_ context.Context, doc *entity.RenewalTracking, _ *entity.Company, badge *renewal.Badge) ([]byte, error) {
	p.calls++
	p.badge = badge
	return []byte("%PDF-" + doc.Name), nil
}
