package application

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/locales/fr"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	fr_translations "github.com/go-playground/validator/v10/translations/fr"
)

var (
	hhmmTag   = "hhmm"
	hhmmText  = "{0} doit être une heure au format HH:MM"
	hhmmRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

	isoDateTag  = "isodate"
	isoDateText = "{0} doit être une date au format AAAA-MM-JJ"

	hexColorText = "{0} doit être une couleur hexadécimale"
)

// Validator checks input structs and renders failures in French.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewValidator builds a validator using JSON field names and French messages.
func NewValidator() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	locale := fr.New()
	uni := ut.New(locale, locale)
	translator, _ := uni.GetTranslator("fr")
	_ = fr_translations.RegisterDefaultTranslations(validate, translator)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(hhmmTag, hhmmValidation)
	_ = validate.RegisterValidation(isoDateTag, isoDateValidation)
	registerTranslation(validate, translator, hhmmTag, hhmmText, false)
	registerTranslation(validate, translator, isoDateTag, isoDateText, false)
	registerTranslation(validate, translator, "hexcolor", hexColorText, true)

	return &Validator{validate: validate, translator: translator}
}

func registerTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override bool) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Struct validates input and returns a *ValidationError carrying one
// translated message per failing field, or nil.
func (v *Validator) Struct(input any) *ValidationError {
	err := v.validate.Struct(input)
	if err == nil {
		return nil
	}

	vErr := &ValidationError{}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		vErr.Message = err.Error()
		return vErr
	}
	for _, fe := range fieldErrs {
		vErr.add(fe.Field(), fe.Translate(v.translator))
	}
	return vErr
}

func hhmmValidation(fl validator.FieldLevel) bool {
	return hhmmRegex.MatchString(fl.Field().String())
}

func isoDateValidation(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.DateOnly, fl.Field().String())
	return err == nil
}

func notBlank(values ...string) bool {
	for _, value := range values {
		if strings.TrimSpace(value) == "" {
			return false
		}
	}
	return true
}
