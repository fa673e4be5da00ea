package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

var _ repository.MaterialLedgerRepository = (*MaterialLedgerRepo)(nil)

// MaterialLedgerRepo implementación de MaterialLedgerRepository sobre PostgreSQL (usable con pool o tx).
type MaterialLedgerRepo struct {
	q Querier
}

// NewMaterialLedgerRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewMaterialLedgerRepository(q Querier) *MaterialLedgerRepo {
	return &MaterialLedgerRepo{q: q}
}

const ledgerColumns = `id, owner_id, material_name, stock, unit, cost_per_unit,
	last_purchase_at, version, created_at, updated_at`

func scanLedger(row pgx.Row) (*entity.MaterialLedgerEntry, error) {
	var e entity.MaterialLedgerEntry
	var unit string
	if err := row.Scan(
		&e.ID, &e.OwnerID, &e.MaterialName, &e.Stock, &unit, &e.CostPerUnit,
		&e.LastPurchaseAt, &e.Version, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	e.Unit = entity.Unit(unit)
	return &e, nil
}

// Get obtiene la entrada del material; nil si no existe.
func (r *MaterialLedgerRepo) Get(ctx context.Context, ownerID, materialName string) (*entity.MaterialLedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + `
		FROM material_ledger WHERE owner_id = $1 AND material_name = $2`
	e, err := scanLedger(r.q.QueryRow(ctx, query, ownerID, materialName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get material ledger", err)
	}
	return e, nil
}

// GetForUpdate obtiene la entrada y bloquea la fila (SELECT FOR UPDATE).
func (r *MaterialLedgerRepo) GetForUpdate(ctx context.Context, ownerID, materialName string) (*entity.MaterialLedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + `
		FROM material_ledger WHERE owner_id = $1 AND material_name = $2
		FOR UPDATE`
	e, err := scanLedger(r.q.QueryRow(ctx, query, ownerID, materialName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get material ledger for update", err)
	}
	return e, nil
}

// List devuelve todas las entradas del dueño ordenadas por nombre.
func (r *MaterialLedgerRepo) List(ctx context.Context, ownerID string) ([]*entity.MaterialLedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + `
		FROM material_ledger WHERE owner_id = $1 ORDER BY material_name`
	rows, err := r.q.Query(ctx, query, ownerID)
	if err != nil {
		return nil, storeErr("list material ledger", err)
	}
	defer rows.Close()

	var list []*entity.MaterialLedgerEntry
	for rows.Next() {
		e, err := scanLedger(rows)
		if err != nil {
			return nil, storeErr("scan material ledger", err)
		}
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list material ledger", err)
	}
	return list, nil
}

// Insert crea la primera entrada del material. false si ya existía (otra tx ganó).
func (r *MaterialLedgerRepo) Insert(ctx context.Context, e *entity.MaterialLedgerEntry) (bool, error) {
	query := `
		INSERT INTO material_ledger (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $9)
		ON CONFLICT (owner_id, material_name) DO NOTHING`
	tag, err := r.q.Exec(ctx, query,
		e.ID, e.OwnerID, e.MaterialName, e.Stock, e.Unit.String(), e.CostPerUnit,
		e.LastPurchaseAt, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, storeErr("insert material ledger", err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateIfVersion actualiza stock y costo solo si la versión no cambió desde la lectura.
func (r *MaterialLedgerRepo) UpdateIfVersion(ctx context.Context, e *entity.MaterialLedgerEntry, expectedVersion int64) (bool, error) {
	query := `
		UPDATE material_ledger
		SET stock = $1, unit = $2, cost_per_unit = $3, last_purchase_at = $4,
			version = version + 1, updated_at = $5
		WHERE owner_id = $6 AND material_name = $7 AND version = $8`
	tag, err := r.q.Exec(ctx, query,
		e.Stock, e.Unit.String(), e.CostPerUnit, e.LastPurchaseAt, e.UpdatedAt,
		e.OwnerID, e.MaterialName, expectedVersion,
	)
	if err != nil {
		return false, storeErr("update material ledger", err)
	}
	return tag.RowsAffected() == 1, nil
}
