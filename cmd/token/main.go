// token emite un JWT firmado con JWT_SECRET para operar la API con AUTH_REQUIRED=true.
//
// Uso: go run ./cmd/token -user ana -role bodeguero
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/jwt"
)

func main() {
	user := flag.String("user", "", "identificador del usuario (queda como actor en el libro)")
	role := flag.String("role", "bodeguero", "rol: admin, bodeguero o vendedor")
	flag.Parse()
	if *user == "" {
		fmt.Fprintln(os.Stderr, "uso: token -user <id> [-role admin|bodeguero|vendedor]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, *user, *role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
