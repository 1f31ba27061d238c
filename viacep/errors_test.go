package viacep_test

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/carlosfiori/viacep-go/viacep"
	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesKindSentinel(t *testing.T) {
	_, err := viacep.NewCEPQuery("abc")

	assert.ErrorIs(t, err, viacep.ErrInvalidFormat)
	assert.NotErrorIs(t, err, viacep.ErrTransportFailure)
	assert.NotErrorIs(t, err, viacep.ErrDecodeFailure)
	assert.Equal(t, viacep.KindInvalidFormat, viacep.KindOf(err))
}

func TestError_MessageNamesFieldAndValue(t *testing.T) {
	_, err := viacep.NewSearchQuery("RJ", "Rio", "Av")

	assert.Equal(t, `viacep.search: invalid logradouro "Av": must contain at least 3 characters`, err.Error())
}

func TestKindOf_ForeignAndWrappedErrors(t *testing.T) {
	assert.Equal(t, viacep.Kind(""), viacep.KindOf(nil))
	assert.Equal(t, viacep.Kind(""), viacep.KindOf(io.EOF))

	_, inner := viacep.NewCEPQuery("1")
	wrapped := fmt.Errorf("lookup: %w", inner)
	assert.Equal(t, viacep.KindInvalidFormat, viacep.KindOf(wrapped))
	assert.Equal(t, "cep", viacep.FieldOf(wrapped))
	assert.True(t, errors.Is(wrapped, viacep.ErrInvalidFormat))
}

func TestStatusError_Message(t *testing.T) {
	assert.Equal(t, "unexpected status 503", (&viacep.StatusError{StatusCode: 503}).Error())
	assert.Equal(t, "unexpected status 400: Bad Request", (&viacep.StatusError{StatusCode: 400, Body: "Bad Request"}).Error())
}
