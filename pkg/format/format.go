// Package format convierte importes y fechas crudas de la API en textos de
// presentación con configuración regional fija (en-US, USD).
package format

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholder texto para fechas ausentes.
const Placeholder = "-"

const currencySymbol = "$"

var printer = message.NewPrinter(language.AmericanEnglish)

// Entradas aceptadas por Date, en orden de prueba.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

const dateOutput = "Jan 2, 2006"

// Currency formatea amount como "$1,234.50". null se trata como 0 y los negativos
// llevan el signo delante del símbolo ("-$12.00").
func Currency(amount decimal.NullDecimal) string {
	if !amount.Valid {
		return Amount(decimal.Zero)
	}
	return Amount(amount.Decimal)
}

// Amount formatea un decimal no nulo.
func Amount(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	fixed := rounded.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")
	return sign + currencySymbol + group(rounded, intPart) + "." + frac
}

// Float formatea un float64. NaN e Inf se muestran como 0.
func Float(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Amount(decimal.Zero)
	}
	return Amount(decimal.NewFromFloat(amount))
}

// group agrupa la parte entera por miles. Para valores que caben en int64 usa el
// printer de x/text; si no, agrupa el texto a mano.
func group(d decimal.Decimal, intPart string) string {
	if len(intPart) <= 18 {
		return printer.Sprintf("%d", d.IntPart())
	}
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, intPart[i])
	}
	return string(buf)
}

// Date convierte una fecha ISO de la API a "Jan 2, 2006". Vacío devuelve Placeholder;
// si no se puede interpretar se devuelve el texto original.
func Date(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Placeholder
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(dateOutput)
		}
	}
	return value
}
