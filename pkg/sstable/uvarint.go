package sstable

import (
	"encoding/binary"
	"io"
	"math/bits"
)

// ReadUvarint reads a Cassandra unsigned vint: the count of leading one bits
// in the first byte is the number of extra bytes that follow.
func ReadUvarint(r io.Reader) (uint64, error) {
	// 8 bytes container
	var number [8]byte

	// read first byte
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	firstByte := buf[0]

	// 1 byte encoding for small numbers
	// 127 = 01111111
	if firstByte <= 127 {
		return uint64(firstByte), nil
	}

	// number of leading bits set to 1
	// take leading zeros of the inverse
	numberOfExtraBytes := bits.LeadingZeros8(firstByte ^ 0xff)

	// the rest of the first byte is the most significant part
	pos := 8 - numberOfExtraBytes
	if pos > 0 {
		number[pos-1] = firstByte & byte(0xff>>numberOfExtraBytes)
	}

	if _, err := io.ReadFull(r, number[pos:]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, err
	}

	return binary.BigEndian.Uint64(number[:]), nil
}
