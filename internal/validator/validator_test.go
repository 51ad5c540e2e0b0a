package validator

import (
	"errors"
	"testing"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rating struct {
	EvaluateeID string `json:"evaluatee_id" validate:"required"`
	Attitude    int    `json:"attitude" validate:"required,min=1,max=5"`
}

type batch struct {
	Evaluations []rating `json:"evaluations" validate:"required,min=1,dive"`
}

func TestTranslateErrors_NestedPaths(t *testing.T) {
	v := govalidator.New()
	Register(v)

	err := v.Struct(batch{Evaluations: []rating{{EvaluateeID: "s2", Attitude: 3}, {Attitude: 9}}})
	require.Error(t, err)

	fields := TranslateErrors(err)
	assert.Contains(t, fields, "evaluations[1].evaluatee_id")
	assert.Contains(t, fields, "evaluations[1].attitude")
	assert.NotContains(t, fields, "evaluations[0].attitude")
	assert.Contains(t, fields["evaluations[1].evaluatee_id"], "requerido")
}

func TestTranslateErrors_NonValidation(t *testing.T) {
	fields := TranslateErrors(errors.New("unexpected EOF"))
	assert.Equal(t, map[string]string{"detail": "cuerpo JSON inválido"}, fields)
}
