package viacep_test

import (
	"errors"
	"testing"

	"github.com/carlosfiori/viacep-go/viacep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCEP(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "formatted", input: "20930-040", expected: "20930040"},
		{name: "letters and spaces", input: "abc0 1311000xy z", expected: "01311000"},
		{name: "space separated", input: "20930 040", expected: "20930040"},
		{name: "already normalized", input: "20930040", expected: "20930040"},
		{name: "no digits", input: "abc", expected: ""},
		{name: "empty", input: "", expected: ""},
		{name: "too many digits kept", input: "123.456.789", expected: "123456789"},
		{name: "non-ascii characters dropped", input: "São 01311-000 ª", expected: "01311000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, viacep.NormalizeCEP(tt.input))
		})
	}
}

func TestNormalizeCEP_Idempotent(t *testing.T) {
	for _, in := range []string{"20930-040", "abc0 1311000xy z", "00000", "x"} {
		once := viacep.NormalizeCEP(in)
		assert.Equal(t, once, viacep.NormalizeCEP(once), "input %q", in)
	}
}

func TestNewCEPQuery_Valid(t *testing.T) {
	for _, in := range []string{"20930-040", "abc0 1311000xy z", "20930 040", "abc01311000xyz"} {
		q, err := viacep.NewCEPQuery(in)
		require.NoError(t, err, "input %q", in)
		assert.Len(t, q.CEP, 8)
		assert.False(t, q.IsSearch())
	}
}

func TestNewCEPQuery_Invalid(t *testing.T) {
	tests := []struct {
		input      string
		normalized string
	}{
		{input: "00000", normalized: "00000"},
		{input: "abc", normalized: ""},
		{input: "123456789", normalized: "123456789"},
		{input: "2093004", normalized: "2093004"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := viacep.NewCEPQuery(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, viacep.ErrInvalidFormat))
			assert.Equal(t, "cep", viacep.FieldOf(err))

			var verr *viacep.Error
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.normalized, verr.Value, "rejected value is the normalized one")
		})
	}
}

func TestNewSearchQuery_FirstFailingFieldReported(t *testing.T) {
	tests := []struct {
		name       string
		uf         string
		localidade string
		logradouro string
		field      string
		value      string
	}{
		{name: "all invalid reports uf", uf: "asd", localidade: "a", logradouro: "b", field: "uf", value: "asd"},
		{name: "uf too short", uf: "R", localidade: "Rio de Janeiro", logradouro: "Avenida Brasil", field: "uf", value: "R"},
		{name: "empty uf", uf: "", localidade: "Rio", logradouro: "Rua", field: "uf", value: ""},
		{name: "city before street", uf: "RJ", localidade: "Ri", logradouro: "Av", field: "localidade", value: "Ri"},
		{name: "street too short", uf: "RJ", localidade: "Rio de Janeiro", logradouro: "Av", field: "logradouro", value: "Av"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := viacep.NewSearchQuery(tt.uf, tt.localidade, tt.logradouro)
			require.Error(t, err)
			assert.ErrorIs(t, err, viacep.ErrInvalidFormat)

			var verr *viacep.Error
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.value, verr.Value)
		})
	}
}

func TestNewSearchQuery_CountsCharactersNotBytes(t *testing.T) {
	// "Sé" is 3 bytes but 2 characters.
	_, err := viacep.NewSearchQuery("SP", "São Paulo", "Sé")
	require.Error(t, err)
	assert.Equal(t, "logradouro", viacep.FieldOf(err))

	q, err := viacep.NewSearchQuery("SP", "Itu", "Praça da Sé")
	require.NoError(t, err)
	assert.True(t, q.IsSearch())
	assert.Equal(t, "Itu", q.Localidade)
}

func TestQuery_URL(t *testing.T) {
	cep, err := viacep.NewCEPQuery("20930-040")
	require.NoError(t, err)
	assert.Equal(t, "https://viacep.com.br/ws/20930040/json/", cep.URL(viacep.SchemeHTTPS, viacep.DefaultHost))
	assert.Equal(t, "http://viacep.com.br/ws/20930040/json/", cep.URL(viacep.SchemeHTTP, viacep.DefaultHost+"/"))

	plain, err := viacep.NewSearchQuery("RS", "Porto", "Domingos")
	require.NoError(t, err)
	assert.Equal(t, "https://viacep.com.br/ws/RS/Porto/Domingos/json/", plain.URL(viacep.SchemeHTTPS, viacep.DefaultHost))

	spaced, err := viacep.NewSearchQuery("RJ", "Rio de Janeiro", "Avenida Brasil")
	require.NoError(t, err)
	assert.Equal(t, "RJ/Rio%20de%20Janeiro/Avenida%20Brasil/json/", spaced.Path())

	accented, err := viacep.NewSearchQuery("SP", "São Paulo", "Avenida Paulista")
	require.NoError(t, err)
	assert.Equal(t, "SP/S%C3%A3o%20Paulo/Avenida%20Paulista/json/", accented.Path())
}
