package validation

import (
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/pmb/admissions/internal/app/models"
)

// Custom rule tags
const (
	NotBlankTag    = "notblank"
	ProgramCodeTag = "programcode"
	NIMTag         = "nim"
)

// NIMPattern accepts the alphanumeric student numbers issued by the academic system
var NIMPattern = regexp.MustCompile(`^[A-Za-z0-9.\-]{1,32}$`)

// RequiredTags are reported as missing fields rather than invalid values
var RequiredTags = map[string]bool{
	"required":  true,
	NotBlankTag: true,
}

// RegisterRules installs the custom rules and json field naming on v
func RegisterRules(v *validator.Validate) error {
	v.RegisterTagNameFunc(JSONFieldName)

	rules := map[string]validator.Func{
		NotBlankTag:    notBlank,
		ProgramCodeTag: programCode,
		NIMTag:         nim,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

var (
	standalone     *validator.Validate
	standaloneOnce sync.Once
)

// Var checks a single value against tag with the custom rules installed.
// Services use it for values that do not arrive through request binding.
func Var(value interface{}, tag string) error {
	standaloneOnce.Do(func() {
		standalone = validator.New()
		if err := RegisterRules(standalone); err != nil {
			panic(err)
		}
	})
	return standalone.Var(value, tag)
}

// JSONFieldName reports struct fields by their json name
func JSONFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	default:
		return name
	}
}

func stringValue(fl validator.FieldLevel) (string, bool) {
	field := fl.Field()
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return "", false
		}
		field = field.Elem()
	}
	if field.Kind() != reflect.String {
		return "", false
	}
	return field.String(), true
}

func notBlank(fl validator.FieldLevel) bool {
	s, ok := stringValue(fl)
	return ok && strings.TrimSpace(s) != ""
}

func programCode(fl validator.FieldLevel) bool {
	s, ok := stringValue(fl)
	if !ok {
		return true
	}
	return utf8.RuneCountInString(strings.TrimSpace(s)) <= models.StudyProgramCodeMaxLength
}

// nim leaves blank values to required, a blank NIM on a patch clears it
func nim(fl validator.FieldLevel) bool {
	s, ok := stringValue(fl)
	s = strings.TrimSpace(s)
	if !ok || s == "" {
		return true
	}
	return NIMPattern.MatchString(s)
}
