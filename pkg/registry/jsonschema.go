package registry

import (
	"encoding/json"
	"strings"
	"unicode"

	"github.com/invopop/jsonschema"
)

// dataTypes matches the datatype names ParseDataType accepts, in lower case.
const dataTypes = `^ *(u?int8|uint(16|24|32|64)|enum(8|16|32)|float(16|32)?|double(64)?|float64|longfloat|string|raw24|char[0-9]+) *$`

// DescriptionRecord documents one record of a table definition file. Loading
// does not use it; it only drives DescriptionSchema.
type DescriptionRecord struct {
	Name         string `json:"name" jsonschema:"required,description=Field name. Unique within the table and matched case-insensitively"`
	DataType     string `json:"datatype" jsonschema:"required,description=Binary representation of the field. Case is ignored"`
	DefaultValue any    `json:"defaultvalue,omitempty" jsonschema:"description=Initial value. Numbers may be given as text and 0x prefixes are hexadecimal"`
	Description  string `json:"description,omitempty" jsonschema:"description=Free text shown next to the value"`
	Length       int    `json:"length,omitempty" jsonschema:"minimum=1,description=Byte length of string fields"`
	DataRange    any    `json:"datarange,omitempty" jsonschema:"description=Label to value map of enumeration fields or [min max] bounds of numeric fields"`
	Editable     *bool  `json:"editable,omitempty" jsonschema:"description=Whether the value may be edited. Defaults to true"`
	DisplayType  string `json:"displaytype,omitempty" jsonschema:"enum=hex,enum=dec,description=Rendering of integer values"`
}

// JSONSchemaExtend sets the datatype pattern. JSON Schema patterns have no
// case-insensitive flag, so letters are spelled as [xX] classes.
func (DescriptionRecord) JSONSchemaExtend(s *jsonschema.Schema) {
	if p, ok := s.Properties.Get("datatype"); ok {
		p.Pattern = foldCase(dataTypes)
	}
}

// foldCase turns each letter outside a character class into a class of both cases.
func foldCase(pattern string) string {
	var b strings.Builder
	inClass := false
	for _, r := range pattern {
		switch {
		case r == '[':
			inClass = true
		case r == ']':
			inClass = false
		case !inClass && unicode.IsLetter(r):
			b.WriteByte('[')
			b.WriteRune(unicode.ToLower(r))
			b.WriteRune(unicode.ToUpper(r))
			b.WriteByte(']')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DescriptionSchema returns the JSON Schema of a table definition file: an
// array of DescriptionRecord.
func DescriptionSchema() ([]byte, error) {
	r := jsonschema.Reflector{Anonymous: true, DoNotReference: true}
	s := r.Reflect([]DescriptionRecord{})
	s.Title = "Table definition"
	return json.MarshalIndent(s, "", "  ")
}
