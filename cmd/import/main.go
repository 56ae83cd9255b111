// import da de alta productos desde el CSV exportado de la hoja de cálculo del almacén.
//
// Uso: go run ./cmd/import [-encoding cp1251|utf8] [-actor id] productos.csv
// Columnas: nombre; unidad; cantidad; mínimo; costo promedio; almacén.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/hotwellkz/warehouse-api/internal/bootstrap"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/internal/infrastructure/csvimport"
	"github.com/hotwellkz/warehouse-api/pkg/config"
	"github.com/hotwellkz/warehouse-api/pkg/logger"
)

func main() {
	encoding := flag.String("encoding", csvimport.EncodingCP1251, "codificación del archivo")
	actorID := flag.String("actor", "import", "id del actor que firma las altas")
	dryRun := flag.Bool("dry-run", false, "solo validar el archivo")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Uso: import [-encoding cp1251|utf8] [-actor id] [-dry-run] archivo.csv")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	items, rowErrs, err := csvimport.Read(f, *encoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}
	for _, e := range rowErrs {
		fmt.Fprintf(os.Stderr, "Omitida %v\n", e)
	}
	if *dryRun {
		fmt.Printf("%d productos válidos, %d filas omitidas\n", len(items), len(rowErrs))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: cfg.App.Name})

	ctx := context.Background()
	stores, err := bootstrap.OpenStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer stores.Close()

	svc := bootstrap.NewLedger(cfg, stores, log)
	actor := entity.Actor{ID: *actorID, Name: "Импорт CSV"}
	created := 0
	for _, in := range items {
		if _, err := svc.CreateProduct(ctx, in, actor); err != nil {
			fmt.Fprintf(os.Stderr, "Alta %q: %v\n", in.Name, err)
			continue
		}
		created++
	}
	fmt.Printf("Importados %d de %d productos (%d filas omitidas)\n", created, len(items), len(rowErrs))
}
