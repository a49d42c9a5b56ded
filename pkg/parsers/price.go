// Package parsers normaliza valores "sucios" que llegan en archivos CSV de
// catálogo, en particular precios con símbolos de moneda.
package parsers

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Símbolos y códigos de moneda reconocidos, en minúsculas.
// El orden importa: los compuestos ("gh₵") van antes que sus partes.
var currencyTokens = []string{"gh₵", "ghc", "usd", "eur", "gbp", "cop", "₵", "$", "¢", "€", "£"}

// ParsePrice extrae la parte numérica de un precio como "₵5.00", "$2.50" o
// "2.5 GHC" y la devuelve como decimal. Rechaza valores vacíos o con formato
// numérico inválido (p. ej. "2.500.0").
func ParsePrice(value string) (decimal.Decimal, error) {
	s := strings.ToLower(strings.TrimSpace(value))
	if s == "" {
		return decimal.Zero, fmt.Errorf("precio vacío")
	}

	for _, tok := range currencyTokens {
		s = strings.ReplaceAll(s, tok, "")
	}

	// Quitar separadores y cualquier resto no numérico (comas, espacios)
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	s = b.String()

	if strings.Count(s, ".") > 1 {
		return decimal.Zero, fmt.Errorf("formato numérico inválido: %q", value)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("precio inválido: %q", value)
	}
	return d, nil
}
