package repository

import (
	"bytes"
	"encoding/json"

	"github.com/locvowork/hr_analytics_sample/internal/domain"
)

// DecodeEmployees parses a JSON array of employees. Any malformed input is
// reported as a *domain.ParseError tagged with source.
func DecodeEmployees(source string, data []byte) ([]domain.Employee, error) {
	var records []domain.Employee
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &domain.ParseError{Source: source, Err: err}
	}
	if records == nil {
		records = []domain.Employee{}
	}
	return records, nil
}

// EncodeEmployees serializes records as a JSON array. A nil slice encodes
// as [] rather than null.
func EncodeEmployees(records []domain.Employee) ([]byte, error) {
	if records == nil {
		records = []domain.Employee{}
	}
	return marshalJSON(records)
}

// marshalJSON encodes v without HTML escaping so operators such as > and <
// are stored as written.
func marshalJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
