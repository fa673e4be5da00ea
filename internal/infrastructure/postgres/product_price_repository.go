package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

var _ repository.ProductPriceRepository = (*ProductPriceRepo)(nil)

// ProductPriceRepo implementación de ProductPriceRepository sobre PostgreSQL.
// Materiales, envases y desglose se guardan como JSONB: el registro es una foto inmutable.
type ProductPriceRepo struct {
	q Querier
}

// NewProductPriceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductPriceRepository(q Querier) *ProductPriceRepo {
	return &ProductPriceRepo{q: q}
}

const productPriceColumns = `id, owner_id, name, materials_used, bottle, calculations, stock_deducted, created_at`

func scanProductPrice(row pgx.Row) (*entity.ProductPriceRecord, error) {
	var (
		rec                          entity.ProductPriceRecord
		materials, bottle, breakdown []byte
	)
	if err := row.Scan(&rec.ID, &rec.OwnerID, &rec.Name, &materials, &bottle, &breakdown, &rec.StockDeducted, &rec.Timestamp); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(materials, &rec.MaterialsUsed); err != nil {
		return nil, fmt.Errorf("decode materials_used: %w", err)
	}
	if err := json.Unmarshal(bottle, &rec.Bottle); err != nil {
		return nil, fmt.Errorf("decode bottle: %w", err)
	}
	if err := json.Unmarshal(breakdown, &rec.Calculations); err != nil {
		return nil, fmt.Errorf("decode calculations: %w", err)
	}
	return &rec, nil
}

// Create inserta el cálculo.
func (r *ProductPriceRepo) Create(ctx context.Context, rec *entity.ProductPriceRecord) error {
	materials, err := json.Marshal(rec.MaterialsUsed)
	if err != nil {
		return fmt.Errorf("encode materials_used: %w", err)
	}
	bottle, err := json.Marshal(rec.Bottle)
	if err != nil {
		return fmt.Errorf("encode bottle: %w", err)
	}
	breakdown, err := json.Marshal(rec.Calculations)
	if err != nil {
		return fmt.Errorf("encode calculations: %w", err)
	}
	query := `
		INSERT INTO product_prices (` + productPriceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.q.Exec(ctx, query, rec.ID, rec.OwnerID, rec.Name, materials, bottle, breakdown, rec.StockDeducted, rec.Timestamp)
	if err != nil {
		return storeErr("create product price", err)
	}
	return nil
}

// GetByID obtiene un cálculo del dueño; nil si no existe.
func (r *ProductPriceRepo) GetByID(ctx context.Context, ownerID, id string) (*entity.ProductPriceRecord, error) {
	query := `SELECT ` + productPriceColumns + ` FROM product_prices WHERE owner_id = $1 AND id = $2`
	rec, err := scanProductPrice(r.q.QueryRow(ctx, query, ownerID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get product price", err)
	}
	return rec, nil
}

// List busca por nombre (ILIKE) y rango [From, To) ordenado del más reciente al más antiguo.
func (r *ProductPriceRepo) List(ctx context.Context, ownerID string, f repository.ProductPriceFilter) ([]*entity.ProductPriceRecord, int, error) {
	var a argList
	conds := []string{"owner_id = " + a.add(ownerID)}
	if name := strings.TrimSpace(f.Name); name != "" {
		conds = append(conds, "name ILIKE "+a.add("%"+escapeLike(name)+"%"))
	}
	if f.From != nil {
		conds = append(conds, "created_at >= "+a.add(f.From.UTC()))
	}
	if f.To != nil {
		conds = append(conds, "created_at < "+a.add(f.To.UTC()))
	}
	where := " WHERE " + strings.Join(conds, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM product_prices`+where, a.args...).Scan(&total); err != nil {
		return nil, 0, storeErr("count product prices", err)
	}

	query := `SELECT ` + productPriceColumns + ` FROM product_prices` + where + ` ORDER BY created_at DESC, id`
	if f.Limit > 0 {
		query += " LIMIT " + a.add(f.Limit)
	}
	if f.Offset > 0 {
		query += " OFFSET " + a.add(f.Offset)
	}
	rows, err := r.q.Query(ctx, query, a.args...)
	if err != nil {
		return nil, 0, storeErr("list product prices", err)
	}
	defer rows.Close()

	var list []*entity.ProductPriceRecord
	for rows.Next() {
		rec, err := scanProductPrice(rows)
		if err != nil {
			return nil, 0, storeErr("scan product price", err)
		}
		list = append(list, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storeErr("list product prices", err)
	}
	return list, total, nil
}

// Delete elimina el cálculo. No repone stock.
func (r *ProductPriceRepo) Delete(ctx context.Context, ownerID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM product_prices WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return storeErr("delete product price", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cálculo %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
