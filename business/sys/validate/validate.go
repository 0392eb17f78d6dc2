// Package validate contains the support for validating models.
package validate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/qcbit/escrow-gateway/foundation/blockchain/address"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/argument"
)

// validate holds the settings and caches for validating request struct values.
var validate *validator.Validate

// translator is a cache of locale and translation information.
var translator ut.Translator

func init() {

	// Instantiate a validator.
	validate = validator.New()

	// Create a translator for english so the error messages are
	// more human-readable than technical.
	translator, _ = ut.New(en.New(), en.New()).GetTranslator("en")

	// Register the english error messages for use.
	en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerLedgerTags()
}

// Check validates the provided model against it's declared tags.
func Check(val any) error {
	if err := validate.Struct(val); err != nil {

		// Use a type assertion to get the real error value.
		var verrors validator.ValidationErrors
		if !errors.As(err, &verrors) {
			return err
		}

		var fields FieldErrors
		for _, verror := range verrors {
			field := FieldError{
				Field: verror.Field(),
				Error: verror.Translate(translator),
			}
			fields = append(fields, field)
		}

		return fields
	}

	return nil
}

// registerLedgerTags adds the tags for ledger specific values.
func registerLedgerTags() {
	validate.RegisterValidation("bech32", func(fl validator.FieldLevel) bool {
		_, err := address.Parse(fl.Field().String())
		return err == nil
	})
	validate.RegisterTranslation("bech32", translator, func(ut ut.Translator) error {
		return ut.Add("bech32", "{0} must be a bech32 address", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("bech32", fe.Field())
		return t
	})

	validate.RegisterValidation("biguint", func(fl validator.FieldLevel) bool {
		_, err := argument.ParseUint(fl.Field().String())
		return err == nil
	})
	validate.RegisterTranslation("biguint", translator, func(ut ut.Translator) error {
		return ut.Add("biguint", "{0} must be a non-negative integer", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("biguint", fe.Field())
		return t
	})
}
