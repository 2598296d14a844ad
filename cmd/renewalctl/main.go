package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/jhoicas/renewal-tracking-api/internal/cli"
)

func main() {
	// .env es opcional; las variables del entorno tienen prioridad.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("aviso: no se pudo leer .env: %v", err)
	}
	os.Exit(cli.Execute())
}
