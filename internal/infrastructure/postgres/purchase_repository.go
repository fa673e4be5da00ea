package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación de PurchaseRepository sobre PostgreSQL.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador de compras. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

const purchaseColumns = `id, owner_id, material, dealer, gst_number, description, quantity, unit,
	price_per_unit, total_price, gst_amount, hamali_charge, bill_photo_url, purchased_at, updated_at`

func scanPurchase(row pgx.Row) (*entity.PurchaseEvent, error) {
	var p entity.PurchaseEvent
	var unit string
	if err := row.Scan(
		&p.ID, &p.OwnerID, &p.Material, &p.Dealer, &p.GSTNumber, &p.Description, &p.Quantity, &unit,
		&p.PricePerUnit, &p.TotalPrice, &p.GSTAmount, &p.HamaliCharge, &p.BillPhotoURL, &p.Timestamp, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Unit = entity.Unit(unit)
	return &p, nil
}

// Create inserta una compra.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.PurchaseEvent) error {
	query := `
		INSERT INTO purchases (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.OwnerID, p.Material, p.Dealer, p.GSTNumber, p.Description, p.Quantity, p.Unit.String(),
		p.PricePerUnit, p.TotalPrice, p.GSTAmount, p.HamaliCharge, p.BillPhotoURL, p.Timestamp, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("compra %s: %w", p.ID, domain.ErrConflict)
		}
		return storeErr("create purchase", err)
	}
	return nil
}

// GetByID obtiene una compra del dueño; nil si no existe.
func (r *PurchaseRepo) GetByID(ctx context.Context, ownerID, id string) (*entity.PurchaseEvent, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE owner_id = $1 AND id = $2`
	p, err := scanPurchase(r.q.QueryRow(ctx, query, ownerID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get purchase", err)
	}
	return p, nil
}

// Update reescribe los campos editables de la compra.
func (r *PurchaseRepo) Update(ctx context.Context, p *entity.PurchaseEvent) error {
	query := `
		UPDATE purchases
		SET material = $1, dealer = $2, gst_number = $3, description = $4, quantity = $5, unit = $6,
			price_per_unit = $7, total_price = $8, gst_amount = $9, hamali_charge = $10,
			bill_photo_url = $11, purchased_at = $12, updated_at = $13
		WHERE owner_id = $14 AND id = $15`
	tag, err := r.q.Exec(ctx, query,
		p.Material, p.Dealer, p.GSTNumber, p.Description, p.Quantity, p.Unit.String(),
		p.PricePerUnit, p.TotalPrice, p.GSTAmount, p.HamaliCharge,
		p.BillPhotoURL, p.Timestamp, p.UpdatedAt, p.OwnerID, p.ID,
	)
	if err != nil {
		return storeErr("update purchase", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("compra %s: %w", p.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete elimina la compra del dueño.
func (r *PurchaseRepo) Delete(ctx context.Context, ownerID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM purchases WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return storeErr("delete purchase", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("compra %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// List lista compras con filtros opcionales (material, rango de fechas) y el total sin paginar.
func (r *PurchaseRepo) List(ctx context.Context, ownerID string, f repository.PurchaseFilter) ([]*entity.PurchaseEvent, int, error) {
	var a argList
	conds := []string{"owner_id = " + a.add(ownerID)}
	if f.Material != "" {
		conds = append(conds, "material = "+a.add(f.Material))
	}
	if f.From != nil {
		conds = append(conds, "purchased_at >= "+a.add(*f.From))
	}
	if f.To != nil {
		conds = append(conds, "purchased_at < "+a.add(*f.To))
	}
	where := " WHERE " + strings.Join(conds, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM purchases`+where, a.args...).Scan(&total); err != nil {
		return nil, 0, storeErr("count purchases", err)
	}

	query := `SELECT ` + purchaseColumns + ` FROM purchases` + where + ` ORDER BY purchased_at DESC, id`
	if f.Limit > 0 {
		query += " LIMIT " + a.add(f.Limit)
	}
	if f.Offset > 0 {
		query += " OFFSET " + a.add(f.Offset)
	}
	list, err := r.query(ctx, query, a.args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListByMaterial devuelve el historial del material en orden de inserción.
func (r *PurchaseRepo) ListByMaterial(ctx context.Context, ownerID, materialName string) ([]*entity.PurchaseEvent, error) {
	query := `SELECT ` + purchaseColumns + `
		FROM purchases WHERE owner_id = $1 AND material = $2 ORDER BY seq`
	return r.query(ctx, query, ownerID, materialName)
}

func (r *PurchaseRepo) query(ctx context.Context, query string, args ...any) ([]*entity.PurchaseEvent, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list purchases", err)
	}
	defer rows.Close()

	var list []*entity.PurchaseEvent
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, storeErr("scan purchase", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list purchases", err)
	}
	return list, nil
}
