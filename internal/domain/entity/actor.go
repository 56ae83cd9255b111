package entity

// Actor identifica a quien ejecuta una operación que modifica el almacén.
type Actor struct {
	ID   string
	Name string
}
