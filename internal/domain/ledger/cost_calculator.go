package ledger

import "github.com/shopspring/decimal"

// Precisión de los importes: costo unitario a 4 decimales, totales a 2 (tiyn).
const (
	CostPlaces     int32 = 4
	CurrencyPlaces int32 = 2
)

// WeightedAverage implementa el costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Con stock previo en cero el nuevo costo es el de la entrada.
func WeightedAverage(stockActual int64, costoActual decimal.Decimal, cantEntrada int64, costoEntrada decimal.Decimal) decimal.Decimal {
	if stockActual <= 0 {
		return costoEntrada.Round(CostPlaces)
	}
	sum := stockActual + cantEntrada
	if sum <= 0 {
		return decimal.Zero
	}
	num := decimal.NewFromInt(stockActual).Mul(costoActual).
		Add(decimal.NewFromInt(cantEntrada).Mul(costoEntrada))
	return num.Div(decimal.NewFromInt(sum)).Round(CostPlaces)
}

// TotalCost devuelve quantity * averageCost redondeado a la precisión de moneda.
func TotalCost(quantity int64, averageCost decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(quantity).Mul(averageCost).Round(CurrencyPlaces)
}
