package validation

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// FieldError describes one invalid field, keyed by its JSON name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	var err error
	validate, trans, err = newValidator()
	if err != nil {
		panic(err)
	}
}

func newValidator() (*validator.Validate, ut.Translator, error) {
	v := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	t, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(v, t); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "mapstructure"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	if err := v.RegisterValidation("ymd", isYMD); err != nil {
		return nil, nil, fmt.Errorf("failed to register ymd validation: %w", err)
	}
	if err := v.RegisterValidation("checked", isChecked); err != nil {
		return nil, nil, fmt.Errorf("failed to register checked validation: %w", err)
	}
	custom := map[string]string{
		"ymd":     "{0} must be a date in YYYY-MM-DD format",
		"checked": "{0} must be checked before saving",
	}
	for tag, text := range custom {
		tag, text := tag, text
		if err := v.RegisterTranslation(tag, t, func(ut ut.Translator) error {
			return ut.Add(tag, text, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T(tag, fe.Field())
			return msg
		}); err != nil {
			return nil, nil, fmt.Errorf("failed to register %s translation: %w", tag, err)
		}
	}
	return v, t, nil
}

func isYMD(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

func isChecked(fl validator.FieldLevel) bool {
	return fl.Field().Kind() == reflect.Bool && fl.Field().Bool()
}

// Struct validates s and returns one FieldError per failing field, or nil.
func Struct(s any) []FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: fe.Translate(trans)})
	}
	return out
}

