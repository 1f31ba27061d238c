package viacep

import (
	"encoding/json"
	"io"

	"github.com/bytedance/sonic"
)

// Decoder is the JSON engine used to read response bodies.
type Decoder interface {
	Decode(r io.Reader, v any) error
}

// SonicDecoder decodes with bytedance/sonic using encoding/json compatible
// semantics. It is the default Decoder.
type SonicDecoder struct {
	api sonic.API
}

func NewSonicDecoder() *SonicDecoder {
	return &SonicDecoder{api: sonic.ConfigStd}
}

// Decode buffers the whole body so syntax errors report their position.
func (d *SonicDecoder) Decode(r io.Reader, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return d.api.Unmarshal(data, v)
}

// StdDecoder decodes with encoding/json.
type StdDecoder struct{}

func (StdDecoder) Decode(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}

// decodeAddress reads a single record. ViaCEP answers unknown codes with a
// structurally valid object carrying no cep, which maps to (nil, nil).
func decodeAddress(dec Decoder, r io.Reader) (*Address, error) {
	var addr *Address
	if err := dec.Decode(r, &addr); err != nil {
		return nil, err
	}
	if addr == nil || addr.CEP == "" {
		return nil, nil
	}
	return addr, nil
}

// decodeAddresses reads a list of records as is. Never returns a nil slice
// on success.
func decodeAddresses(dec Decoder, r io.Reader) ([]Address, error) {
	var list []Address
	if err := dec.Decode(r, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []Address{}
	}
	return list, nil
}
