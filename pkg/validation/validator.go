package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	// CPF (11 digits) or RG (9 digits), digits only.
	userIdentificationRe = regexp.MustCompile(`^(\d{11}|\d{9})$`)
	cepRe                = regexp.MustCompile(`^\d{5}-\d{3}$`)
	personNameRe         = regexp.MustCompile(`^[\p{L}\s.\-']+$`)
	addressTextRe        = regexp.MustCompile(`^[\p{L}\d\s.\-]+$`)
)

const passwordSpecials = "@$!%*#?&"

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers the user, address and password tags.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		register(v)
	}
}

// New returns a standalone validator with the same tags as Init.
func New() *validator.Validate {
	v := validator.New()
	register(v)
	return v
}

func register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "form", "uri"} {
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

	_ = v.RegisterValidation("useridentification", matches(userIdentificationRe))
	_ = v.RegisterValidation("cep", matches(cepRe))
	_ = v.RegisterValidation("personname", matches(personNameRe))
	_ = v.RegisterValidation("addresstext", matches(addressTextRe))

	v.RegisterAlias("strongpwd", "min=8,max=32,containsany="+passwordSpecials+
		",containsany=0123456789,containsany=ABCDEFGHIJKLMNOPQRSTUVWXYZ,containsany=abcdefghijklmnopqrstuvwxyz")
	v.RegisterAlias("profile", "oneof=client owner admin")
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fieldPath(fe)] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

// fieldPath drops the root struct name, so "createUserRequest.address.city"
// becomes "address.city".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "uuid":
		return "must be a valid UUID"
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", param)
	case "min":
		if isNumberKind(fe.Kind()) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(fe.Kind()) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "gte":
		return "must be greater than or equal to " + param
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")

	// custom tags
	case "useridentification":
		return "must be a CPF (11 digits) or RG (9 digits)"
	case "cep":
		return "must be a postal code in the format 00000-000"
	case "personname":
		return "must contain only letters, spaces, dots, hyphens or apostrophes"
	case "addresstext":
		return "must contain only letters, digits, spaces, dots or hyphens"
	case "strongpwd":
		return "must be 8 to 32 characters with uppercase, lowercase, number and one of " + passwordSpecials
	case "profile":
		return "must be one of: client, owner, admin"

	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
