package codec

import "errors"

var (
	// ErrSchemaLoad reports a field description that cannot be turned into a field.
	ErrSchemaLoad = errors.New("invalid table definition")
	// ErrCast reports input that cannot be converted to a field value.
	ErrCast = errors.New("cast failed")
	// ErrEncode reports a value that cannot be packed into its slot.
	ErrEncode = errors.New("cannot encode value")
	// ErrShortSlot reports a decode buffer smaller than the field.
	ErrShortSlot = errors.New("buffer too short for field")
)
