package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

// FieldError describes why a single field was rejected.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a payload does not match its shape.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func newValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

const bodyField = "body"

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("validation: register notblank: %v", err))
	}
	validate.RegisterCustomTypeFunc(func(v reflect.Value) any {
		return v.Interface().(Timestamp).Time
	}, Timestamp{})

	locale := en.New()
	translator, _ = ut.New(locale, locale).GetTranslator("en")
	if err := entranslations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(fmt.Sprintf("validation: register translations: %v", err))
	}
	if err := validate.RegisterTranslation("notblank", translator,
		func(t ut.Translator) error {
			return t.Add("notblank", "{0} must not be blank", true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T("notblank", fe.Field())
			return msg
		},
	); err != nil {
		panic(fmt.Sprintf("validation: register notblank translation: %v", err))
	}
}

// Validate decodes raw into the shape T and checks its constraints. It
// has no side effects. On failure the error is a *ValidationError.
func Validate[T Shape](raw []byte) (T, error) {
	var value T

	if len(bytes.TrimSpace(raw)) == 0 {
		return value, newValidationError(FieldError{Field: bodyField, Message: "request body is required"})
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&value); err != nil {
		return value, decodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return value, newValidationError(FieldError{Field: bodyField, Message: "request body must contain a single JSON object"})
	}

	if err := validate.Struct(value); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return value, fmt.Errorf("validate %T: %w", value, err)
		}

		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field:   fe.Field(),
				Message: fe.Translate(translator),
			})
		}
		return value, newValidationError(fields...)
	}

	return value, nil
}

func decodeError(err error) *ValidationError {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)

	switch {
	case errors.As(err, &syntaxErr):
		return newValidationError(FieldError{
			Field:   bodyField,
			Message: fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset),
		})
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = bodyField
		}
		return newValidationError(FieldError{
			Field:   field,
			Message: fmt.Sprintf("%s has an invalid value (%s)", field, typeErr.Value),
		})
	case errors.Is(err, io.ErrUnexpectedEOF):
		return newValidationError(FieldError{Field: bodyField, Message: "malformed JSON"})
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return newValidationError(FieldError{Field: field, Message: "unknown field"})
	default:
		return newValidationError(FieldError{Field: bodyField, Message: err.Error()})
	}
}
