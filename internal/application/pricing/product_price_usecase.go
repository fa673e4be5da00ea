package pricing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	invdomain "github.com/jhoicas/Costeo-api/internal/domain/inventory"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

var tracer = otel.Tracer("costeo-api/pricing")

// dayLayout formato de la búsqueda por día.
const dayLayout = "2006-01-02"

// ProductPriceUseCase cotiza y guarda precios de productos armados con materiales del ledger.
type ProductPriceUseCase struct {
	txRunner     TxRunner
	ledgerRepo   repository.MaterialLedgerRepository
	purchaseRepo repository.PurchaseRepository
	priceRepo    repository.ProductPriceRepository
	calc         *invdomain.PriceCalculator
	pdf          CostSheetGenerator
	cache        CacheInvalidator
	log          zerolog.Logger
	loc          *time.Location
	now          func() time.Time
}

// Deps dependencias del caso de uso. PDF y Cache pueden ser nil.
type Deps struct {
	TxRunner   TxRunner
	LedgerRepo repository.MaterialLedgerRepository
	PriceRepo  repository.ProductPriceRepository
	Calculator *invdomain.PriceCalculator
	PDF        CostSheetGenerator
	Cache      CacheInvalidator
	Logger     zerolog.Logger

	// PurchaseRepo lo usa Quote con UseLandedCost; CalculateAndSave lee el de la transacción.
	PurchaseRepo repository.PurchaseRepository

	// Location zona horaria para la búsqueda por día (por defecto time.Local).
	Location *time.Location
	Now      func() time.Time
}

// NewProductPriceUseCase construye el caso de uso.
func NewProductPriceUseCase(d Deps) *ProductPriceUseCase {
	uc := &ProductPriceUseCase{
		txRunner:     d.TxRunner,
		ledgerRepo:   d.LedgerRepo,
		purchaseRepo: d.PurchaseRepo,
		priceRepo:    d.PriceRepo,
		calc:         d.Calculator,
		pdf:          d.PDF,
		cache:        d.Cache,
		log:          d.Logger,
		loc:          d.Location,
		now:          d.Now,
	}
	if uc.calc == nil {
		uc.calc, _ = invdomain.NewPriceCalculator(invdomain.DefaultMargin1Rate, invdomain.DefaultMargin2Rate)
	}
	if uc.loc == nil {
		uc.loc = time.Local
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc
}

// line línea validada del bill-of-materials.
type line struct {
	name     string
	consumed invdomain.Quantity
}

// costing resultado de costear un pedido contra un snapshot del ledger.
type costing struct {
	usages    []entity.MaterialUsage
	breakdown entity.PriceBreakdown
	deduct    []invdomain.DeductionLine
	entries   map[string]*entity.MaterialLedgerEntry
}

// Quote costea el producto con el ledger actual sin escribir nada. Además informa si
// habría stock suficiente para descontar lo consumido.
func (uc *ProductPriceUseCase) Quote(ctx context.Context, ownerID string, in dto.ProductPriceRequest) (*dto.QuoteResponse, error) {
	ctx, span := tracer.Start(ctx, "pricing.Quote")
	defer span.End()

	lines, err := validateRequest(in)
	if err != nil {
		return nil, endSpan(span, err)
	}
	var latest latestFunc
	if in.UseLandedCost {
		if uc.purchaseRepo == nil {
			return nil, endSpan(span, domain.NewValidationError("use_landed_cost", "costeo con costo desembolsado no disponible"))
		}
		latest = latestPurchase(ctx, uc.purchaseRepo, ownerID)
	}
	c, err := uc.cost(lines, in, func(name string) (*entity.MaterialLedgerEntry, error) {
		return uc.ledgerRepo.Get(ctx, ownerID, name)
	}, latest)
	if err != nil {
		return nil, endSpan(span, err)
	}

	out := &dto.QuoteResponse{
		Name:          strings.TrimSpace(in.Name),
		Materials:     toUsageResponses(c.usages),
		NumBottles:    in.NumBottles,
		CostPerBottle: in.CostPerBottle,
		Calculations:  toBreakdownResponse(c.breakdown),
		StockOK:       true,
	}
	if _, err := invdomain.PlanDeductions(c.deduct); err != nil {
		var insuf *domain.InsufficientStockError
		if !errors.As(err, &insuf) {
			return nil, endSpan(span, err)
		}
		out.StockOK = false
		out.Shortfalls = ToShortfallResponses(insuf.Shortfalls)
	}
	return out, nil
}

// CalculateAndSave costea y guarda el cálculo en una sola transacción. Las filas del ledger
// involucradas se bloquean en orden de nombre. Con DeductStock primero se verifica que
// todos los materiales alcancen: si alguno no alcanza se devuelve InsufficientStockError
// y no se escribe nada; si alcanzan se descuentan todos y se guarda el registro.
func (uc *ProductPriceUseCase) CalculateAndSave(ctx context.Context, ownerID string, in dto.ProductPriceRequest) (*dto.ProductPriceResponse, error) {
	ctx, span := tracer.Start(ctx, "pricing.CalculateAndSave", trace.WithAttributes(attribute.Bool("deduct_stock", in.DeductStock)))
	defer span.End()

	lines, err := validateRequest(in)
	if err != nil {
		return nil, endSpan(span, err)
	}

	var record *entity.ProductPriceRecord
	err = uc.txRunner.Run(ctx, func(
		purchases repository.PurchaseRepository,
		ledger repository.MaterialLedgerRepository,
		prices repository.ProductPriceRepository,
	) error {
		var latest latestFunc
		if in.UseLandedCost {
			latest = latestPurchase(ctx, purchases, ownerID)
		}
		locked := make(map[string]*entity.MaterialLedgerEntry, len(lines))
		for _, name := range sortedNames(lines) {
			e, err := ledger.GetForUpdate(ctx, ownerID, name)
			if err != nil {
				return err
			}
			locked[name] = e
		}
		c, err := uc.cost(lines, in, func(name string) (*entity.MaterialLedgerEntry, error) {
			return locked[name], nil
		}, latest)
		if err != nil {
			return err
		}

		if in.DeductStock {
			plan, err := invdomain.PlanDeductions(c.deduct)
			if err != nil {
				return err
			}
			now := uc.now()
			for _, p := range plan {
				current := c.entries[p.MaterialName]
				next := *current
				next.Stock = p.NewStock
				next.Version = current.Version + 1
				next.UpdatedAt = now
				ok, err := ledger.UpdateIfVersion(ctx, &next, current.Version)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("ledger de %q: %w", p.MaterialName, domain.ErrConflict)
				}
			}
		}

		record = &entity.ProductPriceRecord{
			ID:            uuid.New().String(),
			OwnerID:       ownerID,
			Name:          strings.TrimSpace(in.Name),
			MaterialsUsed: c.usages,
			Bottle:        entity.BottleInfo{NumBottles: in.NumBottles, CostPerBottle: in.CostPerBottle},
			Calculations:  c.breakdown,
			StockDeducted: in.DeductStock,
			Timestamp:     uc.now(),
		}
		return prices.Create(ctx, record)
	})
	if err != nil {
		var insuf *domain.InsufficientStockError
		if errors.As(err, &insuf) {
			uc.log.Info().Str("owner_id", ownerID).Int("shortfalls", len(insuf.Shortfalls)).Msg("cálculo rechazado por stock insuficiente")
		}
		return nil, endSpan(span, err)
	}
	if in.DeductStock && uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, ownerID); err != nil {
			uc.log.Warn().Err(err).Str("owner_id", ownerID).Msg("no se pudo invalidar el cache de materiales")
		}
	}

	uc.log.Info().
		Str("owner_id", ownerID).
		Str("product", record.Name).
		Str("total", record.Calculations.TotalSellingPrice.String()).
		Bool("stock_deducted", record.StockDeducted).
		Msg("precio de producto guardado")

	out := ToProductPriceResponse(record)
	return &out, nil
}

// Get devuelve un cálculo guardado.
func (uc *ProductPriceUseCase) Get(ctx context.Context, ownerID, id string) (*dto.ProductPriceResponse, error) {
	r, err := uc.priceRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	out := ToProductPriceResponse(r)
	return &out, nil
}

// List busca cálculos por nombre y por día (Date) o rango (From/To), más recientes primero.
func (uc *ProductPriceUseCase) List(ctx context.Context, ownerID string, in dto.ListProductPricesRequest) (*dto.ProductPriceListResponse, error) {
	in.DefaultPage()
	f := repository.ProductPriceFilter{
		Name:   strings.TrimSpace(in.Name),
		From:   in.From,
		To:     in.To,
		Limit:  in.Limit,
		Offset: in.Offset,
	}
	if in.Date != "" {
		day, err := time.ParseInLocation(dayLayout, in.Date, uc.loc)
		if err != nil {
			return nil, domain.NewValidationError("date", "formato esperado YYYY-MM-DD")
		}
		end := day.AddDate(0, 0, 1)
		f.From, f.To = &day, &end
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, domain.NewValidationError("to", "la fecha final es anterior a la inicial")
	}

	items, total, err := uc.priceRepo.List(ctx, ownerID, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductPriceResponse, 0, len(items))
	for _, r := range items {
		out = append(out, ToProductPriceResponse(r))
	}
	return &dto.ProductPriceListResponse{
		Items: out,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset, Total: total},
	}, nil
}

// Delete borra un cálculo guardado. El stock descontado no se devuelve al ledger.
func (uc *ProductPriceUseCase) Delete(ctx context.Context, ownerID, id string) error {
	return uc.priceRepo.Delete(ctx, ownerID, id)
}

// RenderPDF genera la hoja de costos de un cálculo guardado.
func (uc *ProductPriceUseCase) RenderPDF(ctx context.Context, ownerID, id string) (pdfBytes []byte, filename string, err error) {
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("generador de PDF no configurado")
	}
	r, err := uc.priceRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cálculo: %w", err)
	}
	if r == nil {
		return nil, "", domain.ErrNotFound
	}
	pdfBytes, err = uc.pdf.GenerateCostSheetPDF(ctx, r)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar hoja de costos: %w", err)
	}
	return pdfBytes, fmt.Sprintf("costeo_%s_%s.pdf", slug(r.Name), r.Timestamp.In(uc.loc).Format("20060102")), nil
}

// cost costea cada línea con el costo promedio de su material y calcula el precio.
// Un material sin entrada en el ledger no se puede costear: ErrNotFound.
// latestFunc devuelve la última compra del material o nil si no hay historial.
type latestFunc func(name string) (*entity.PurchaseEvent, error)

func latestPurchase(ctx context.Context, repo repository.PurchaseRepository, ownerID string) latestFunc {
	return func(name string) (*entity.PurchaseEvent, error) {
		history, err := repo.ListByMaterial(ctx, ownerID, name)
		if err != nil {
			return nil, err
		}
		return invdomain.ResolveLatest(history, name), nil
	}
}

// cost costea las líneas con el costo promedio del ledger o, si latest no es nil, con el
// costo desembolsado de la última compra de cada material (si no tiene, el promedio).
func (uc *ProductPriceUseCase) cost(lines []line, in dto.ProductPriceRequest, fetch func(string) (*entity.MaterialLedgerEntry, error), latest latestFunc) (*costing, error) {
	c := &costing{
		usages:  make([]entity.MaterialUsage, 0, len(lines)),
		deduct:  make([]invdomain.DeductionLine, 0, len(lines)),
		entries: make(map[string]*entity.MaterialLedgerEntry, len(lines)),
	}
	materials := decimal.Zero
	for _, l := range lines {
		e, ok := c.entries[l.name]
		if !ok {
			var err error
			if e, err = fetch(l.name); err != nil {
				return nil, err
			}
			if e == nil {
				return nil, fmt.Errorf("material %q sin compras registradas: %w", l.name, domain.ErrNotFound)
			}
			c.entries[l.name] = e
		}
		state := invdomain.StateOf(e)
		costState := *state
		if latest != nil {
			p, err := latest(l.name)
			if err != nil {
				return nil, err
			}
			if p != nil {
				costState = invdomain.LandedState(p)
			}
		}
		perUnit, total, err := invdomain.LineCost(l.consumed, costState)
		if err != nil {
			return nil, err
		}
		materials = materials.Add(total)
		c.usages = append(c.usages, entity.MaterialUsage{
			MaterialID:   e.ID,
			MaterialName: l.name,
			Quantity:     l.consumed.Value,
			Unit:         l.consumed.Unit,
			CostPerUnit:  perUnit,
			TotalCost:    total,
		})
		c.deduct = append(c.deduct, invdomain.DeductionLine{MaterialName: l.name, Entry: state, Consumed: l.consumed})
	}
	b, err := uc.calc.Price(materials, in.NumBottles, in.CostPerBottle)
	if err != nil {
		return nil, err
	}
	c.breakdown = b
	return c, nil
}

func validateRequest(in dto.ProductPriceRequest) ([]line, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError("name", "el nombre del producto es obligatorio")
	}
	if len(in.Materials) == 0 {
		return nil, domain.NewValidationError("materials", "se requiere al menos un material")
	}
	if in.NumBottles <= 0 {
		return nil, domain.NewValidationError("num_bottles", "el número de envases debe ser mayor que cero")
	}
	if in.CostPerBottle.IsNegative() {
		return nil, domain.NewValidationError("cost_per_bottle", "el costo por envase no puede ser negativo")
	}
	lines := make([]line, 0, len(in.Materials))
	for i, m := range in.Materials {
		name := strings.TrimSpace(m.MaterialName)
		if name == "" {
			return nil, domain.NewValidationError(fmt.Sprintf("materials[%d].material_name", i), "el material es obligatorio")
		}
		unit, err := entity.ParseUnit(m.Unit)
		if err != nil {
			return nil, err
		}
		if !m.Quantity.IsPositive() {
			return nil, domain.NewValidationError(fmt.Sprintf("materials[%d].quantity", i), "la cantidad debe ser mayor que cero")
		}
		lines = append(lines, line{name: name, consumed: invdomain.Quantity{Value: m.Quantity, Unit: unit}})
	}
	return lines, nil
}

// sortedNames nombres únicos en orden binario: orden fijo de bloqueo entre transacciones.
func sortedNames(lines []line) []string {
	seen := make(map[string]struct{}, len(lines))
	names := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.name]; ok {
			continue
		}
		seen[l.name] = struct{}{}
		names = append(names, l.name)
	}
	sort.Strings(names)
	return names
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, s)
}

func endSpan(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
