package inventory

import "github.com/jhoicas/Costeo-api/internal/domain/entity"

// ResolveLatest devuelve la compra más reciente de materialName (coincidencia exacta,
// sensible a mayúsculas) o nil si no hay ninguna. Con timestamps iguales gana la primera
// encontrada en history. nil ("sin registro") es distinto de un material con stock cero.
func ResolveLatest(history []*entity.PurchaseEvent, materialName string) *entity.PurchaseEvent {
	var latest *entity.PurchaseEvent
	for _, p := range history {
		if p == nil || p.Material != materialName {
			continue
		}
		if latest == nil || p.Timestamp.After(latest.Timestamp) {
			latest = p
		}
	}
	return latest
}
