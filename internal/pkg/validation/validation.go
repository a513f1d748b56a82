package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	apperror "stockify/internal/errors"
)

var phonePattern = regexp.MustCompile(`^\(\d{2}\) \d{5}-\d{4}$`)

// Validator encapsula o validator.Validate com as regras do Stockify registradas.
type Validator struct {
	v *validator.Validate
}

// New cria um Validator com as regras customizadas:
// notblank, cnpj (14 dígitos), phone ("(99) 99999-9999") e dgt0 (decimal > 0).
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Usa o nome JSON do campo nos erros, que é o que a tela conhece.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "cnpj", func(fl validator.FieldLevel) bool {
		return len(Digits(fl.Field().String())) == 14
	})
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "dgt0", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && d.IsPositive()
	})

	return &Validator{v: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("falha ao registrar regra %q: %v", tag, err))
	}
}

// Struct valida s e devolve um apperror.ValidationError com mensagens por campo,
// ou nil quando tudo é válido.
func (val *Validator) Struct(s interface{}) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperror.NewInternalError("falha ao validar dados", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, exists := fields[fe.Field()]; exists {
			continue
		}
		fields[fe.Field()] = message(fe)
	}
	return apperror.NewFieldValidationError("Verifique os campos destacados.", fields)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "Campo obrigatório."
	case "email":
		return "E-mail inválido."
	case "max":
		return fmt.Sprintf("Máximo de %s caracteres.", fe.Param())
	case "min":
		return fmt.Sprintf("Mínimo de %s caracteres.", fe.Param())
	case "cnpj":
		return "CNPJ deve conter 14 dígitos."
	case "phone":
		return "Telefone deve estar no formato (99) 99999-9999."
	case "dgt0", "gt":
		return "Deve ser maior que zero."
	case "gte":
		return "Não pode ser negativo."
	default:
		return "Valor inválido."
	}
}

// Digits remove tudo que não for dígito.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
