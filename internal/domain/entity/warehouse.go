package entity

// Almacenes de la empresa (conjunto fijo).
const (
	WarehouseMain       = "main"
	WarehouseSecondary  = "secondary"
	WarehouseProduction = "production"
)

// Warehouse describe un almacén del conjunto fijo.
type Warehouse struct {
	ID   string
	Name string
}

var warehouses = []Warehouse{
	{ID: WarehouseMain, Name: "Основной склад"},
	{ID: WarehouseSecondary, Name: "Склад 2"},
	{ID: WarehouseProduction, Name: "Производство"},
}

// Warehouses devuelve el conjunto de almacenes en orden de presentación.
func Warehouses() []Warehouse {
	out := make([]Warehouse, len(warehouses))
	copy(out, warehouses)
	return out
}

// IsValidWarehouse indica si id pertenece al conjunto fijo.
func IsValidWarehouse(id string) bool {
	for _, w := range warehouses {
		if w.ID == id {
			return true
		}
	}
	return false
}

// WarehouseName devuelve el nombre visible del almacén, o el id si no se conoce.
func WarehouseName(id string) string {
	for _, w := range warehouses {
		if w.ID == id {
			return w.Name
		}
	}
	return id
}
