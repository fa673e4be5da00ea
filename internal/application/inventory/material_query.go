package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

// ExportResult archivo XLSX generado.
type ExportResult struct {
	FileContent []byte
	FileName    string
}

// MaterialQueryUseCase consultas de lectura sobre el ledger de materiales.
type MaterialQueryUseCase struct {
	ledgerRepo repository.MaterialLedgerRepository
	cache      LedgerCache
	log        zerolog.Logger
	lang       language.Tag
}

// NewMaterialQueryUseCase construye el caso de uso. cache puede ser nil.
func NewMaterialQueryUseCase(ledgerRepo repository.MaterialLedgerRepository, cache LedgerCache, log zerolog.Logger) *MaterialQueryUseCase {
	if cache == nil {
		cache = NopCache{}
	}
	return &MaterialQueryUseCase{ledgerRepo: ledgerRepo, cache: cache, log: log, lang: language.Spanish}
}

// List devuelve los materiales del dueño ordenados por nombre (orden alfabético del idioma,
// sin distinguir mayúsculas ni acentos) y el valor total del inventario.
func (uc *MaterialQueryUseCase) List(ctx context.Context, ownerID string) (*dto.MaterialListResponse, error) {
	entries, err := uc.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	items := make([]dto.MaterialResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, ToMaterialResponse(e))
		total = total.Add(e.StockValue())
	}
	return &dto.MaterialListResponse{Items: items, TotalValue: total.Round(6)}, nil
}

// Get devuelve la entrada del ledger de un material.
func (uc *MaterialQueryUseCase) Get(ctx context.Context, ownerID, name string) (*dto.MaterialResponse, error) {
	e, err := uc.ledgerRepo.Get(ctx, ownerID, name)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	out := ToMaterialResponse(e)
	return &out, nil
}

// Export genera un libro XLSX con el stock y costo promedio de cada material.
func (uc *MaterialQueryUseCase) Export(ctx context.Context, ownerID string) (*ExportResult, error) {
	entries, err := uc.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := "Materiales"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("crear hoja: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"No", "Material", "Stock", "Unidad", "Costo por unidad", "Valor", "Última compra"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"2F5597"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheet, "A1", "G1", headerStyle)

	total := decimal.Zero
	for i, e := range entries {
		row := i + 2
		value := e.StockValue().Round(2)
		total = total.Add(value)
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), i+1)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), e.MaterialName)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), e.Stock.InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), e.Unit.String())
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), e.CostPerUnit.InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), value.InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", row), e.LastPurchaseAt.Format("2006-01-02 15:04"))
	}
	totalRow := len(entries) + 2
	_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", totalRow), "Total")
	_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", totalRow), total.InexactFloat64())

	_ = f.SetColWidth(sheet, "A", "A", 5)
	_ = f.SetColWidth(sheet, "B", "B", 30)
	_ = f.SetColWidth(sheet, "C", "F", 16)
	_ = f.SetColWidth(sheet, "G", "G", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("escribir xlsx: %w", err)
	}
	return &ExportResult{FileContent: buf.Bytes(), FileName: "materiales.xlsx"}, nil
}

// load lee del cache o de la BD y ordena por nombre.
func (uc *MaterialQueryUseCase) load(ctx context.Context, ownerID string) ([]*entity.MaterialLedgerEntry, error) {
	entries, hit, err := uc.cache.GetMaterials(ctx, ownerID)
	if err != nil {
		uc.log.Warn().Err(err).Str("owner_id", ownerID).Msg("lectura de cache de materiales")
	}
	if hit {
		return entries, nil
	}
	gen, genErr := uc.cache.Generation(ctx, ownerID)
	if genErr != nil {
		uc.log.Warn().Err(genErr).Str("owner_id", ownerID).Msg("generación de cache de materiales")
	}
	entries, err = uc.ledgerRepo.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	SortByName(entries, uc.lang)
	if genErr != nil {
		return entries, nil
	}
	if err := uc.cache.SetMaterials(ctx, ownerID, entries, gen); err != nil {
		uc.log.Warn().Err(err).Str("owner_id", ownerID).Msg("escritura de cache de materiales")
	}
	return entries, nil
}

// SortByName ordena por nombre con la colación del idioma; a igualdad de colación
// decide el orden binario para que el resultado sea estable.
func SortByName(entries []*entity.MaterialLedgerEntry, lang language.Tag) {
	c := collate.New(lang, collate.IgnoreCase, collate.IgnoreDiacritics)
	sort.SliceStable(entries, func(i, j int) bool {
		if r := c.CompareString(entries[i].MaterialName, entries[j].MaterialName); r != 0 {
			return r < 0
		}
		return entries[i].MaterialName < entries[j].MaterialName
	})
}
