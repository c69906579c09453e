package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name string  `json:"name" validate:"required,notblank"`
	Code *string `json:"code" validate:"omitempty,programcode"`
	NIM  *string `json:"nim" validate:"omitempty,nim"`
	Skip string  `json:"-"`
	Raw  string
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, RegisterRules(v))
	return v
}

func ptr(s string) *string { return &s }

func TestRules(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name    string
		input   sample
		wantTag string
		field   string
	}{
		{name: "valid", input: sample{Name: "Ahmad", Code: ptr("TI"), NIM: ptr("2025110001")}},
		{name: "blank name", input: sample{Name: "   "}, wantTag: NotBlankTag, field: "name"},
		{name: "long code", input: sample{Name: "A", Code: ptr("TEKNIK")}, wantTag: ProgramCodeTag, field: "code"},
		{name: "bad nim", input: sample{Name: "A", NIM: ptr("20 25")}, wantTag: NIMTag, field: "nim"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if tt.wantTag == "" {
				assert.NoError(t, err)
				return
			}

			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.wantTag, verrs[0].Tag())
			assert.Equal(t, tt.field, verrs[0].Field())
		})
	}
}

func TestRequiredTags(t *testing.T) {
	assert.True(t, RequiredTags["required"])
	assert.True(t, RequiredTags[NotBlankTag])
	assert.False(t, RequiredTags[ProgramCodeTag])
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("2025110001", NIMTag))
	assert.Error(t, Var("bad nim!", NIMTag))
	assert.Error(t, Var(strings.Repeat("9", 40), NIMTag))

	assert.NoError(t, Var("TI", ProgramCodeTag))
	assert.NoError(t, Var(" TI ", ProgramCodeTag))
	assert.Error(t, Var("TEKNIK", ProgramCodeTag))
}
