package inventory

import (
	"context"
	"errors"
	"fmt"
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

// DefaultMaxAttempts intentos de lectura-cálculo-escritura ante conflictos de versión del ledger.
const DefaultMaxAttempts = 3

var tracer = otel.Tracer("costeo-api/inventory")

// PurchaseUseCase registra, edita y borra compras manteniendo el ledger de cada material.
// Cada escritura del ledger es condicional a la versión leída (concurrencia optimista);
// ante un conflicto se repite todo el ciclo hasta maxAttempts veces.
type PurchaseUseCase struct {
	txRunner     TxRunner
	purchaseRepo repository.PurchaseRepository
	cache        LedgerCache
	log          zerolog.Logger
	maxAttempts  int
	backoff      time.Duration
	now          func() time.Time
}

// PurchaseOption personaliza el use case.
type PurchaseOption func(*PurchaseUseCase)

// WithMaxAttempts fija el número de intentos ante conflicto (mínimo 1).
func WithMaxAttempts(n int) PurchaseOption {
	return func(uc *PurchaseUseCase) {
		if n > 0 {
			uc.maxAttempts = n
		}
	}
}

// WithCache activa el cache de materiales para invalidarlo en cada escritura.
func WithCache(c LedgerCache) PurchaseOption {
	return func(uc *PurchaseUseCase) {
		if c != nil {
			uc.cache = c
		}
	}
}

// WithLogger inyecta el logger.
func WithLogger(l zerolog.Logger) PurchaseOption {
	return func(uc *PurchaseUseCase) { uc.log = l }
}

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) PurchaseOption {
	return func(uc *PurchaseUseCase) { uc.now = now }
}

// WithBackoff fija la espera base entre reintentos; el intento n espera n*d.
func WithBackoff(d time.Duration) PurchaseOption {
	return func(uc *PurchaseUseCase) { uc.backoff = d }
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(txRunner TxRunner, purchaseRepo repository.PurchaseRepository, opts ...PurchaseOption) *PurchaseUseCase {
	uc := &PurchaseUseCase{
		txRunner:     txRunner,
		purchaseRepo: purchaseRepo,
		cache:        NopCache{},
		log:          zerolog.Nop(),
		maxAttempts:  DefaultMaxAttempts,
		backoff:      20 * time.Millisecond,
		now:          time.Now,
	}
	for _, o := range opts {
		o(uc)
	}
	return uc
}

// Record valida la compra, la acumula en el ledger del material y guarda ambas cosas en una tx.
func (uc *PurchaseUseCase) Record(ctx context.Context, ownerID string, in dto.RecordPurchaseRequest) (*dto.RecordPurchaseResponse, error) {
	ctx, span := tracer.Start(ctx, "inventory.RecordPurchase")
	defer span.End()

	p, err := uc.newPurchase(ownerID, in)
	if err != nil {
		return nil, endSpan(span, err)
	}
	span.SetAttributes(attribute.String("material", p.Material), attribute.String("unit", p.Unit.String()))

	var saved *entity.MaterialLedgerEntry
	err = uc.runLedgerTx(ctx, p.Material, func(
		purchases repository.PurchaseRepository,
		ledger repository.MaterialLedgerRepository,
		_ repository.ProductPriceRepository,
	) error {
		current, err := ledger.Get(ctx, ownerID, p.Material)
		if err != nil {
			return err
		}
		next, err := invdomain.Accumulate(invdomain.StateOf(current), invdomain.LotOf(p))
		if err != nil {
			return err
		}
		lastAt := p.Timestamp
		if current != nil && current.LastPurchaseAt.After(lastAt) {
			lastAt = current.LastPurchaseAt
		}
		entry := uc.nextEntry(ownerID, p.Material, current, next, lastAt)
		if err := writeLedger(ctx, ledger, current, entry); err != nil {
			return err
		}
		if err := purchases.Create(ctx, p); err != nil {
			return err
		}
		saved = entry
		return nil
	})
	if err != nil {
		return nil, endSpan(span, err)
	}
	uc.invalidate(ctx, ownerID)

	uc.log.Info().
		Str("owner_id", ownerID).
		Str("material", p.Material).
		Str("stock", saved.Stock.String()).
		Str("cost_per_unit", saved.CostPerUnit.String()).
		Msg("compra registrada")

	return &dto.RecordPurchaseResponse{
		Purchase: ToPurchaseResponse(p),
		Ledger:   ToMaterialResponse(saved),
	}, nil
}

// Update edita una compra. Si cambian cantidad, unidad o precio el ledger se ajusta
// revirtiendo la contribución anterior y acumulando la nueva.
func (uc *PurchaseUseCase) Update(ctx context.Context, ownerID, id string, in dto.UpdatePurchaseRequest) (*dto.PurchaseResponse, error) {
	ctx, span := tracer.Start(ctx, "inventory.UpdatePurchase", trace.WithAttributes(attribute.String("purchase_id", id)))
	defer span.End()

	var updated *entity.PurchaseEvent
	err := uc.runLedgerTx(ctx, id, func(
		purchases repository.PurchaseRepository,
		ledger repository.MaterialLedgerRepository,
		_ repository.ProductPriceRepository,
	) error {
		old, err := purchases.GetByID(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if old == nil {
			return domain.ErrNotFound
		}
		p, err := applyPurchaseUpdate(old, in)
		if err != nil {
			return err
		}
		now := uc.now()
		p.UpdatedAt = &now

		if lotChanged(old, p) {
			current, err := ledger.Get(ctx, ownerID, p.Material)
			if err != nil {
				return err
			}
			if current == nil {
				return fmt.Errorf("ledger de %q inexistente para la compra %s: %w", p.Material, id, domain.ErrPersistence)
			}
			next, err := invdomain.Adjust(*invdomain.StateOf(current), invdomain.LotOf(old), invdomain.LotOf(p), p.Material)
			if err != nil {
				return err
			}
			entry := uc.nextEntry(ownerID, p.Material, current, next, current.LastPurchaseAt)
			if err := writeLedger(ctx, ledger, current, entry); err != nil {
				return err
			}
		}
		if err := purchases.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, endSpan(span, err)
	}
	uc.invalidate(ctx, ownerID)
	out := ToPurchaseResponse(updated)
	return &out, nil
}

// Delete revierte la contribución de la compra en el ledger y la elimina.
// Si el stock de esa compra ya fue consumido devuelve InsufficientStockError.
func (uc *PurchaseUseCase) Delete(ctx context.Context, ownerID, id string) error {
	ctx, span := tracer.Start(ctx, "inventory.DeletePurchase", trace.WithAttributes(attribute.String("purchase_id", id)))
	defer span.End()

	err := uc.runLedgerTx(ctx, id, func(
		purchases repository.PurchaseRepository,
		ledger repository.MaterialLedgerRepository,
		_ repository.ProductPriceRepository,
	) error {
		p, err := purchases.GetByID(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		current, err := ledger.Get(ctx, ownerID, p.Material)
		if err != nil {
			return err
		}
		if current != nil {
			next, err := invdomain.Reverse(*invdomain.StateOf(current), invdomain.LotOf(p), p.Material)
			if err != nil {
				return err
			}
			entry := uc.nextEntry(ownerID, p.Material, current, next, current.LastPurchaseAt)
			if err := writeLedger(ctx, ledger, current, entry); err != nil {
				return err
			}
		}
		return purchases.Delete(ctx, ownerID, id)
	})
	if err != nil {
		return endSpan(span, err)
	}
	uc.invalidate(ctx, ownerID)
	return nil
}

// Get devuelve una compra del dueño.
func (uc *PurchaseUseCase) Get(ctx context.Context, ownerID, id string) (*dto.PurchaseResponse, error) {
	p, err := uc.purchaseRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	out := ToPurchaseResponse(p)
	return &out, nil
}

// List lista compras por material y rango de fechas, más recientes primero.
func (uc *PurchaseUseCase) List(ctx context.Context, ownerID string, in dto.ListPurchasesRequest) (*dto.PurchaseListResponse, error) {
	in.DefaultPage()
	if in.From != nil && in.To != nil && in.To.Before(*in.From) {
		return nil, domain.NewValidationError("to", "la fecha final es anterior a la inicial")
	}
	items, total, err := uc.purchaseRepo.List(ctx, ownerID, repository.PurchaseFilter{
		Material: strings.TrimSpace(in.Material),
		From:     in.From,
		To:       in.To,
		Limit:    in.Limit,
		Offset:   in.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseResponse, 0, len(items))
	for _, p := range items {
		out = append(out, ToPurchaseResponse(p))
	}
	return &dto.PurchaseListResponse{
		Items: out,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// GetLatest devuelve la compra más reciente del material, o nil si nunca se compró.
func (uc *PurchaseUseCase) GetLatest(ctx context.Context, ownerID, material string) (*dto.PurchaseResponse, error) {
	ctx, span := tracer.Start(ctx, "inventory.GetLatestPurchase", trace.WithAttributes(attribute.String("material", material)))
	defer span.End()

	history, err := uc.purchaseRepo.ListByMaterial(ctx, ownerID, material)
	if err != nil {
		return nil, endSpan(span, err)
	}
	latest := invdomain.ResolveLatest(history, material)
	if latest == nil {
		return nil, nil
	}
	out := ToPurchaseResponse(latest)
	return &out, nil
}

// runLedgerTx ejecuta fn en una transacción y la repite si devuelve ErrConflict.
// Cualquier otro error se devuelve sin reintentar.
func (uc *PurchaseUseCase) runLedgerTx(ctx context.Context, key string, fn func(
	repository.PurchaseRepository,
	repository.MaterialLedgerRepository,
	repository.ProductPriceRepository,
) error) error {
	var err error
	for attempt := 1; attempt <= uc.maxAttempts; attempt++ {
		err = uc.txRunner.Run(ctx, fn)
		if !errors.Is(err, domain.ErrConflict) {
			return err
		}
		trace.SpanFromContext(ctx).AddEvent("ledger_conflict", trace.WithAttributes(attribute.Int("attempt", attempt)))
		uc.log.Warn().Str("key", key).Int("attempt", attempt).Msg("conflicto de versión en ledger")
		if attempt == uc.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * uc.backoff):
		}
	}
	return err
}

func (uc *PurchaseUseCase) newPurchase(ownerID string, in dto.RecordPurchaseRequest) (*entity.PurchaseEvent, error) {
	material := strings.TrimSpace(in.Material)
	if material == "" {
		return nil, domain.NewValidationError("material", "el material es obligatorio")
	}
	unit, err := entity.ParseUnit(in.Unit)
	if err != nil {
		return nil, err
	}
	if !in.Quantity.IsPositive() {
		return nil, domain.NewValidationError("quantity", "la cantidad debe ser mayor que cero")
	}
	if in.PricePerUnit.IsNegative() {
		return nil, domain.NewValidationError("price_per_unit", "el precio no puede ser negativo")
	}
	gst, err := nonNegative("gst_amount", in.GSTAmount)
	if err != nil {
		return nil, err
	}
	hamali, err := nonNegative("hamali_charge", in.HamaliCharge)
	if err != nil {
		return nil, err
	}
	ts := uc.now()
	if in.Timestamp != nil && !in.Timestamp.IsZero() {
		ts = *in.Timestamp
	}
	return &entity.PurchaseEvent{
		ID:           uuid.New().String(),
		OwnerID:      ownerID,
		Material:     material,
		Dealer:       strings.TrimSpace(in.Dealer),
		GSTNumber:    strings.TrimSpace(in.GSTNumber),
		Description:  in.Description,
		Quantity:     in.Quantity,
		Unit:         unit,
		PricePerUnit: in.PricePerUnit,
		TotalPrice:   in.Quantity.Mul(in.PricePerUnit).Round(invdomain.MoneyScale),
		GSTAmount:    gst,
		HamaliCharge: hamali,
		BillPhotoURL: in.BillPhotoURL,
		Timestamp:    ts,
	}, nil
}

// nextEntry arma la entrada a escribir a partir de la leída (nil = material nuevo).
func (uc *PurchaseUseCase) nextEntry(ownerID, material string, current *entity.MaterialLedgerEntry, s invdomain.LedgerState, lastAt time.Time) *entity.MaterialLedgerEntry {
	now := uc.now()
	e := &entity.MaterialLedgerEntry{
		ID:             uuid.New().String(),
		OwnerID:        ownerID,
		MaterialName:   material,
		Stock:          s.Stock,
		Unit:           s.Unit,
		CostPerUnit:    s.CostPerUnit,
		LastPurchaseAt: lastAt,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if current != nil {
		e.ID = current.ID
		e.CreatedAt = current.CreatedAt
		e.Version = current.Version + 1
	}
	return e
}

func (uc *PurchaseUseCase) invalidate(ctx context.Context, ownerID string) {
	if err := uc.cache.Invalidate(ctx, ownerID); err != nil {
		uc.log.Warn().Err(err).Str("owner_id", ownerID).Msg("no se pudo invalidar el cache de materiales")
	}
}

// writeLedger inserta o actualiza condicionalmente; cero filas afectadas es ErrConflict.
func writeLedger(ctx context.Context, ledger repository.MaterialLedgerRepository, current, next *entity.MaterialLedgerEntry) error {
	var (
		ok  bool
		err error
	)
	if current == nil {
		ok, err = ledger.Insert(ctx, next)
	} else {
		ok, err = ledger.UpdateIfVersion(ctx, next, current.Version)
	}
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("ledger de %q: %w", next.MaterialName, domain.ErrConflict)
	}
	return nil
}

func applyPurchaseUpdate(old *entity.PurchaseEvent, in dto.UpdatePurchaseRequest) (*entity.PurchaseEvent, error) {
	p := *old
	if in.Dealer != nil {
		p.Dealer = strings.TrimSpace(*in.Dealer)
	}
	if in.GSTNumber != nil {
		p.GSTNumber = strings.TrimSpace(*in.GSTNumber)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.BillPhotoURL != nil {
		p.BillPhotoURL = *in.BillPhotoURL
	}
	if in.Unit != nil {
		u, err := entity.ParseUnit(*in.Unit)
		if err != nil {
			return nil, err
		}
		p.Unit = u
	}
	if in.Quantity != nil {
		if !in.Quantity.IsPositive() {
			return nil, domain.NewValidationError("quantity", "la cantidad debe ser mayor que cero")
		}
		p.Quantity = *in.Quantity
	}
	if in.PricePerUnit != nil {
		if in.PricePerUnit.IsNegative() {
			return nil, domain.NewValidationError("price_per_unit", "el precio no puede ser negativo")
		}
		p.PricePerUnit = *in.PricePerUnit
	}
	if in.GSTAmount != nil {
		v, err := nonNegative("gst_amount", in.GSTAmount)
		if err != nil {
			return nil, err
		}
		p.GSTAmount = v
	}
	if in.HamaliCharge != nil {
		v, err := nonNegative("hamali_charge", in.HamaliCharge)
		if err != nil {
			return nil, err
		}
		p.HamaliCharge = v
	}
	p.TotalPrice = p.Quantity.Mul(p.PricePerUnit).Round(invdomain.MoneyScale)
	return &p, nil
}

func lotChanged(a, b *entity.PurchaseEvent) bool {
	return a.Unit != b.Unit || !a.Quantity.Equal(b.Quantity) || !a.PricePerUnit.Equal(b.PricePerUnit)
}

func nonNegative(field string, v *decimal.Decimal) (decimal.Decimal, error) {
	if v == nil {
		return decimal.Zero, nil
	}
	if v.IsNegative() {
		return decimal.Zero, domain.NewValidationError(field, "no puede ser negativo")
	}
	return *v, nil
}

// endSpan marca el span con el error y lo devuelve.
func endSpan(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
