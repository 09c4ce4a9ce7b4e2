package compare

import (
	"encoding/json"

	"github.com/tribgo/tribgo/internal/domain"
)

// JSONFormatter formats comparison results as JSON
type JSONFormatter struct {
	Pretty bool // If true, format with indentation
}

// Format generates JSON output for a comparison
func (jf *JSONFormatter) Format(result *domain.ComparisonResult) (string, error) {
	return jf.marshal(result)
}

// FormatAny renders any result value, such as a single regime calculation.
func (jf *JSONFormatter) FormatAny(v any) (string, error) {
	return jf.marshal(v)
}

func (jf *JSONFormatter) marshal(v any) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}
