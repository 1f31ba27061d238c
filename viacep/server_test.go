package viacep_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/carlosfiori/viacep-go/viacep"
)

var cepFixtures = map[string]string{
	"20930040": `{
  "cep": "20930-040",
  "logradouro": "Avenida Brasil",
  "complemento": "de 3001 a 3719 - lado ímpar",
  "unidade": "",
  "bairro": "São Cristóvão",
  "localidade": "Rio de Janeiro",
  "uf": "RJ",
  "estado": "Rio de Janeiro",
  "regiao": "Sudeste",
  "ibge": "3304557",
  "gia": "",
  "ddd": "21",
  "siafi": "6001"
}`,
	"01311000": `{
  "cep": "01311-000",
  "logradouro": "Avenida Paulista",
  "complemento": "de 612 a 1510 - lado par",
  "unidade": "",
  "bairro": "Bela Vista",
  "localidade": "São Paulo",
  "uf": "SP",
  "estado": "São Paulo",
  "regiao": "Sudeste",
  "ibge": "3550308",
  "gia": "1004",
  "ddd": "11",
  "siafi": "7107"
}`,
}

var searchFixtures = map[string]string{
	"RJ/Rio de Janeiro/Avenida Brasil": `[
  {"cep": "20930-040", "logradouro": "Avenida Brasil", "complemento": "de 3001 a 3719 - lado ímpar", "bairro": "São Cristóvão", "localidade": "Rio de Janeiro", "uf": "RJ", "ibge": "3304557", "gia": "", "ddd": "21", "siafi": "6001"},
  {"cep": "21040-361", "logradouro": "Avenida Brasil", "complemento": "de 6501 a 8849 - lado ímpar", "bairro": "Bonsucesso", "localidade": "Rio de Janeiro", "uf": "RJ", "ibge": "3304557", "gia": "", "ddd": "21", "siafi": "6001"}
]`,
	"SP/São Paulo/Avenida Paulista": `[
  {"cep": "01311-000", "logradouro": "Avenida Paulista", "complemento": "de 612 a 1510 - lado par", "bairro": "Bela Vista", "localidade": "São Paulo", "uf": "SP", "ibge": "3550308", "gia": "1004", "ddd": "11", "siafi": "7107"}
]`,
}

// fakeViaCEP serves the ViaCEP wire contract under /ws/ from the fixtures.
type fakeViaCEP struct {
	*httptest.Server
	hits atomic.Int32
}

func newFakeViaCEP(t *testing.T) *fakeViaCEP {
	t.Helper()

	f := &fakeViaCEP{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)

		path := strings.TrimPrefix(r.URL.Path, "/ws/")
		if path == r.URL.Path || !strings.HasSuffix(path, "/json/") {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		parts := strings.Split(strings.TrimSuffix(path, "/json/"), "/")

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		switch len(parts) {
		case 1:
			if body, ok := cepFixtures[parts[0]]; ok {
				io.WriteString(w, body)
				return
			}
			io.WriteString(w, `{"erro": "true"}`)
		case 3:
			if body, ok := searchFixtures[strings.Join(parts, "/")]; ok {
				io.WriteString(w, body)
				return
			}
			io.WriteString(w, "[]")
		default:
			http.Error(w, "Bad Request", http.StatusBadRequest)
		}
	}))
	t.Cleanup(f.Close)

	return f
}

// host returns the service root for Config.Host.
func (f *fakeViaCEP) host() string {
	return strings.TrimPrefix(f.URL, "http://") + "/ws"
}

func (f *fakeViaCEP) client(cfg viacep.Config) *viacep.Client {
	cfg.Scheme = viacep.SchemeHTTP
	cfg.Host = f.host()
	if cfg.Transport == nil {
		cfg.Transport = viacep.NewHTTPTransport(f.Client())
	}
	return viacep.New(cfg)
}

// trackingBody records whether the client closed it.
type trackingBody struct {
	io.Reader
	closed atomic.Bool
}

func (b *trackingBody) Close() error {
	b.closed.Store(true)
	return nil
}
