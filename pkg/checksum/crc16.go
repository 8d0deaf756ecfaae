// Package checksum implements CRC-16/ARC, the checksum shown for table payloads.
//
// Parameters: polynomial 0x8005 (0xA001 reflected), initial value 0, input and
// output reflected, no final XOR. Check value of "123456789" is 0xBB3D.
package checksum

const arcPoly = 0xA001

var arcTable = makeTable(arcPoly)

func makeTable(poly uint16) *[256]uint16 {
	t := new([256]uint16)
	for i := range t {
		crc := uint16(i)
		for j := 0; j < 8; j++ {
			if crc&1 != 0 {
				crc = crc>>1 ^ poly
			} else {
				crc >>= 1
			}
		}
		t[i] = crc
	}
	return t
}

// Update returns the result of adding the bytes in p to crc.
func Update(crc uint16, p []byte) uint16 {
	for _, b := range p {
		crc = crc>>8 ^ arcTable[byte(crc)^b]
	}
	return crc
}

// ARC returns the CRC-16/ARC checksum of data.
func ARC(data []byte) uint16 {
	return Update(0, data)
}
