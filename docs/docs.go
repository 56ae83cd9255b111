// Package docs expone la especificación OpenAPI de la API para swag y la UI de /docs.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var docTemplate string

// SwaggerInfo metadatos de la especificación.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Warehouse API",
	Description:      "Склад: остатки, движения, средневзвешенная себестоимость.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

// JSON devuelve la especificación registrada.
func JSON() []byte {
	return []byte(SwaggerInfo.ReadDoc())
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
