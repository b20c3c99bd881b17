package inventory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/materias-primas/internal/domain"
	"github.com/jhoicas/materias-primas/internal/domain/entity"
)

// NegativePolicy decide qué hacer cuando una salida deja la existencia bajo cero.
type NegativePolicy string

const (
	NegativePolicyReject NegativePolicy = "reject" // falla con NegativeStockError (por defecto)
	NegativePolicyAllow  NegativePolicy = "allow"  // aplica y el llamador emite una advertencia
)

// ParseNegativePolicy interpreta el valor de configuración; vacío equivale a reject.
func ParseNegativePolicy(s string) (NegativePolicy, error) {
	switch NegativePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", NegativePolicyReject:
		return NegativePolicyReject, nil
	case NegativePolicyAllow:
		return NegativePolicyAllow, nil
	}
	return "", fmt.Errorf("política de stock negativo desconocida: %q", s)
}

// ApplyDelta suma delta a la fila del submayor.
// Con NegativePolicyReject solo se rechazan deltas negativos que dejan la cantidad bajo cero;
// una entrada nunca se rechaza aunque la fila siga en negativo.
// Devuelve negative=true si la fila queda bajo cero (solo posible con allow o saldo previo negativo).
// En caso de error la fila no se modifica.
func ApplyDelta(entry *entity.StockEntry, delta entity.StockDelta, policy NegativePolicy) (negative bool, err error) {
	if entry.WarehouseID != delta.WarehouseID || entry.ProductID != delta.ProductID {
		return false, fmt.Errorf("delta %s aplicado a fila %s", delta.Key(), entry.Key())
	}
	next := entry.Quantity.Add(delta.Quantity)
	if delta.Quantity.IsNegative() && next.IsNegative() && policy != NegativePolicyAllow {
		return false, &domain.NegativeStockError{
			WarehouseID: delta.WarehouseID,
			ProductID:   delta.ProductID,
			Available:   entry.Quantity,
			Requested:   delta.Quantity.Neg(),
			Line:        delta.Line,
		}
	}
	entry.Quantity = next
	if entry.UnitMeasure == "" {
		entry.UnitMeasure = delta.UnitMeasure
	}
	return next.IsNegative(), nil
}

// LockOrder claves distintas de los deltas en orden total (almacén, producto).
// Adquirir los bloqueos en este orden evita interbloqueos entre confirmaciones concurrentes.
func LockOrder(deltas []entity.StockDelta) []entity.StockKey {
	seen := make(map[entity.StockKey]struct{}, len(deltas))
	keys := make([]entity.StockKey, 0, len(deltas))
	for _, d := range deltas {
		k := d.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}
