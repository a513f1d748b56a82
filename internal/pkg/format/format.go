package format

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"stockify/internal/pkg/validation"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Currency formata um valor em reais ("R$ 1.234,50").
func Currency(v decimal.Decimal) string {
	return printer.Sprintf("R$ %.2f", v.Round(2).InexactFloat64())
}

// Number formata um inteiro com separador de milhar pt-BR.
func Number(n int64) string {
	return printer.Sprintf("%d", n)
}

// CNPJ formata 14 dígitos como "dd.ddd.ddd/dddd-dd".
// Entradas com outra quantidade de dígitos são devolvidas sem alteração.
func CNPJ(s string) string {
	d := validation.Digits(s)
	if len(d) != 14 {
		return s
	}
	return fmt.Sprintf("%s.%s.%s/%s-%s", d[0:2], d[2:5], d[5:8], d[8:12], d[12:14])
}

// Phone formata telefones brasileiros:
// 10 dígitos → "(dd) dddd-dddd"; 11 dígitos → "(dd) ddddd-dddd".
func Phone(s string) string {
	d := validation.Digits(s)
	switch len(d) {
	case 10:
		return fmt.Sprintf("(%s) %s-%s", d[0:2], d[2:6], d[6:10])
	case 11:
		return fmt.Sprintf("(%s) %s-%s", d[0:2], d[2:7], d[7:11])
	default:
		return s
	}
}

// DateTime formata data e hora no padrão brasileiro.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006 15:04")
}

// Date formata apenas a data.
func Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006")
}
