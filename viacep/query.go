package viacep

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// Scheme selects plain or encrypted transport to the remote host.
type Scheme string

const (
	SchemeHTTP  Scheme = "http"
	SchemeHTTPS Scheme = "https"
)

// DefaultHost is the ViaCEP web service root, without scheme.
const DefaultHost = "viacep.com.br/ws"

const (
	cepLength       = 8
	ufLength        = 2
	minSearchLength = 3
)

// NormalizeCEP keeps only the ASCII digits of cep, in order.
// "20930-040" and "abc0 1311000xy z" become "20930040" and "01311000".
func NormalizeCEP(cep string) string {
	var b strings.Builder
	b.Grow(len(cep))
	for i := 0; i < len(cep); i++ {
		if c := cep[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Query is a validated lookup: either a CEP or a UF/localidade/logradouro
// search triple.
type Query struct {
	CEP        string
	UF         string
	Localidade string
	Logradouro string
}

// NewCEPQuery normalizes cep and requires exactly 8 digits.
func NewCEPQuery(cep string) (Query, error) {
	cep = NormalizeCEP(cep)
	if len(cep) != cepLength {
		return Query{}, invalidField(opAddress, "cep", cep, "must contain 8 digits")
	}
	return Query{CEP: cep}, nil
}

// NewSearchQuery checks uf, localidade and logradouro in that order and
// reports only the first field that fails. Lengths count characters.
func NewSearchQuery(uf, localidade, logradouro string) (Query, error) {
	if utf8.RuneCountInString(uf) != ufLength {
		return Query{}, invalidField(opSearch, "uf", uf, "must contain 2 characters")
	}
	if utf8.RuneCountInString(localidade) < minSearchLength {
		return Query{}, invalidField(opSearch, "localidade", localidade, "must contain at least 3 characters")
	}
	if utf8.RuneCountInString(logradouro) < minSearchLength {
		return Query{}, invalidField(opSearch, "logradouro", logradouro, "must contain at least 3 characters")
	}
	return Query{UF: uf, Localidade: localidade, Logradouro: logradouro}, nil
}

// IsSearch reports whether q is an address search rather than a CEP lookup.
func (q Query) IsSearch() bool {
	return q.CEP == ""
}

// Path returns the request path relative to the service root.
// Search segments are percent-encoded; plain ASCII values pass through as is.
func (q Query) Path() string {
	if !q.IsSearch() {
		return q.CEP + "/json/"
	}
	return url.PathEscape(q.UF) + "/" +
		url.PathEscape(q.Localidade) + "/" +
		url.PathEscape(q.Logradouro) + "/json/"
}

// URL composes the full request target for scheme and host.
func (q Query) URL(scheme Scheme, host string) string {
	return string(scheme) + "://" + strings.TrimSuffix(host, "/") + "/" + q.Path()
}
