// token emite un JWT para un operador del almacén. La aplicación no tiene login: cada puesto
// recibe su token y todas las operaciones quedan firmadas con su actor.
//
// Uso: go run ./cmd/token -id <actor_id> -name "Имя Фамилия" [-minutes 43200]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/hotwellkz/warehouse-api/pkg/config"
	"github.com/hotwellkz/warehouse-api/pkg/jwt"
)

func main() {
	id := flag.String("id", "", "id del actor (vacío = uuid nuevo)")
	name := flag.String("name", "", "nombre visible del actor")
	minutes := flag.Int("minutes", 0, "validez en minutos (0 = JWT_EXPIRATION_MINUTES)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	if *id == "" {
		*id = uuid.NewString()
	}
	exp := cfg.JWT.Expiration
	if *minutes > 0 {
		exp = *minutes
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, *id, *name, cfg.JWT.Issuer, exp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
