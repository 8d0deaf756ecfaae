// Package codec provides the typed field model used by tblman table schemas.
//
// Every entry of a table definition is a [Field]: a named, fixed-width slot with a
// data type. The codec package knows, for each data type, how many bytes the slot
// occupies, how to turn user text into a stored value, how to write that value
// into the binary layout and read it back, and how to render it for display.
//
// # Data Types
//
// The set of data types is closed. The datatype string of a field description is
// normalized (case-insensitive, surrounding blanks ignored) and mapped to a [Kind]:
//
//	uint8                     1 byte  unsigned
//	int8                      1 byte  signed
//	uint16                    2 bytes unsigned
//	uint32                    4 bytes unsigned
//	uint64                    8 bytes unsigned
//	float16                   2 bytes IEEE 754 half precision
//	float, float32            4 bytes IEEE 754 single precision
//	longfloat, double,
//	double64                  8 bytes IEEE 754 double precision
//	string, charN             fixed-length UTF-8 text (length from the record, or N)
//	enum8, enum16, enum32     unsigned integer with a label map
//	uint24, raw24             3 bytes of zero padding
//
// # Values
//
// Stored values use one native Go type per kind: uint64 for unsigned integers and
// enumerations, int64 for int8, float64 for floating point (already rounded to the
// precision of the slot), string for text and uint64(0) for padding.
//
// # Casting
//
// [Field.Cast] accepts text typed by a user or the raw value found in a description
// file. Integers may be written in decimal or as a hexadecimal literal with a 0x
// prefix. The hexadecimal form is parsed explicitly: only base-16 digits may follow
// the prefix. A failed cast returns an error wrapping [ErrCast] and no value.
//
// # Byte Order
//
// Encoding and decoding take a [encoding/binary.ByteOrder]. Tables are written
// big-endian by default; little-endian is supported for the same layout.
//
// # Errors
//
//   - [ErrSchemaLoad]: a field description cannot be turned into a field
//   - [ErrCast]: user input cannot be converted to a value
//   - [ErrEncode]: a value cannot be packed into its slot (overflow, oversize text)
//   - [ErrShortSlot]: a decode buffer is smaller than the slot
package codec
