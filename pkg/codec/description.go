package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"
)

// ParseDescriptions parses a table definition document: a JSON array of field
// records. Comments and trailing commas are tolerated. Numbers are kept as
// json.Number so that 64-bit defaults survive unchanged.
func ParseDescriptions(data []byte) ([]Description, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()

	var descs []Description
	if err := dec.Decode(&descs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaLoad, err)
	}
	for i, d := range descs {
		if d == nil {
			return nil, fmt.Errorf("%w: record %d is not an object", ErrSchemaLoad, i)
		}
	}
	return descs, nil
}
