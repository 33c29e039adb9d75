// Package leb128 provides functions for reading and writing LEB128-encoded
// integers over byte slices and streams.
package leb128

import (
	"errors"
	"io"
)

var ErrOverflow = errors.New("leb128: value overflows target type")

// GetVarUint32 decodes an unsigned 32-bit varint from the front of body and
// returns the value and the number of bytes read.
func GetVarUint32(body []byte) (uint32, int, error) {
	var result uint64
	var shift uint
	for i, b := range body {
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			if result > 0xffffffff {
				return 0, 0, ErrOverflow
			}
			return uint32(result), i + 1, nil
		}
		shift += 7
		if shift >= 35 {
			return 0, 0, ErrOverflow
		}
	}
	return 0, 0, io.ErrUnexpectedEOF
}

// GetVarint64 decodes a signed 64-bit varint from the front of body and
// returns the value and the number of bytes read.
func GetVarint64(body []byte) (int64, int, error) {
	var result int64
	var shift uint
	for i, b := range body {
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			if shift < 64 && b&0x40 != 0 {
				result |= -1 << shift
			}
			return result, i + 1, nil
		}
		if shift >= 70 {
			return 0, 0, ErrOverflow
		}
	}
	return 0, 0, io.ErrUnexpectedEOF
}

// GetVarint32 decodes a signed 32-bit varint from the front of body.
func GetVarint32(body []byte) (int32, int, error) {
	v, read, err := GetVarint64(body)
	if err != nil {
		return 0, 0, err
	}
	if v < -0x80000000 || v > 0x7fffffff {
		return 0, 0, ErrOverflow
	}
	return int32(v), read, nil
}

// WriteVarUint32 writes an unsigned 32-bit varint to w and returns the number
// of bytes written.
func WriteVarUint32(w io.Writer, v uint32) (int, error) {
	var buf [5]byte
	n := PutVarUint32(buf[:], v)
	return w.Write(buf[:n])
}

// WriteVarint64 writes a signed 64-bit varint to w and returns the number of
// bytes written.
func WriteVarint64(w io.Writer, v int64) (int, error) {
	var buf [10]byte
	n := PutVarint64(buf[:], v)
	return w.Write(buf[:n])
}

// PutVarUint32 encodes v at the front of buf and returns the encoded length.
// buf must have room for up to 5 bytes.
func PutVarUint32(buf []byte, v uint32) int {
	i := 0
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf[i] = b
		i++
		if v == 0 {
			return i
		}
	}
}

// PutVarint64 encodes v at the front of buf and returns the encoded length.
// buf must have room for up to 10 bytes.
func PutVarint64(buf []byte, v int64) int {
	i := 0
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			buf[i] = b
			return i + 1
		}
		buf[i] = b | 0x80
		i++
	}
}
