package validate

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/micca12/Progetto-IW/internal/apperr"
)

const MinPasswordLength = 8

var (
	vOnce sync.Once
	v     *validator.Validate
)

// Validator returns the shared struct validator.
func Validator() *validator.Validate {
	vOnce.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return v
}

// Field is one required input with the label shown to the user.
type Field struct {
	Label string
	Value any
}

func F(label string, value any) Field { return Field{Label: label, Value: value} }

// Required reports every missing field in one message.
// nil, a nil pointer and "" count as missing; zero numbers and false do not.
func Required(fields ...Field) error {
	var missing []string
	for _, f := range fields {
		if isMissing(f.Value) {
			missing = append(missing, f.Label)
		}
	}
	switch len(missing) {
	case 0:
		return nil
	case 1:
		return apperr.Validation(missing[0] + " è obbligatorio")
	default:
		return apperr.Validation("I seguenti campi sono obbligatori: " + strings.Join(missing, ", "))
	}
}

func isMissing(val any) bool {
	if val == nil {
		return true
	}
	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return isMissing(rv.Elem().Interface())
	case reflect.String:
		return rv.String() == ""
	}
	return false
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Email checks the address format; callers normalize first.
func Email(email string) error {
	if err := Validator().Var(email, "required,email"); err != nil {
		return apperr.Validation("Email non valida")
	}
	return nil
}

func Password(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return apperr.Validation(fmt.Sprintf("La password deve essere di almeno %d caratteri", MinPasswordLength))
	}
	return nil
}

// ParseID parses a positive integer id; label names the field in the error.
func ParseID(raw, label string) (uint, error) {
	if label == "" {
		label = "ID"
	}
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || n < 1 {
		return 0, apperr.Validation(label + " non valido")
	}
	return uint(n), nil
}

// IDFromAny accepts an id decoded from JSON, either a number or a numeric string.
func IDFromAny(val any, label string) (uint, error) {
	switch x := val.(type) {
	case float64:
		if x != float64(uint64(x)) {
			return 0, apperr.Validation(label + " non valido")
		}
		return ParseID(strconv.FormatUint(uint64(x), 10), label)
	case string:
		return ParseID(x, label)
	case nil:
		return 0, apperr.Validation(label + " è obbligatorio")
	default:
		return ParseID(fmt.Sprint(x), label)
	}
}

// OptionalID parses a filter id from a query string; empty means unset.
func OptionalID(raw, label string) (*uint, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := ParseID(raw, label)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// Struct runs the struct tags and reports the first failing field.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		return apperr.Validation(fmt.Sprintf("%s non valido", verrs[0].Field()))
	}
	return apperr.Validation("Richiesta non valida")
}
