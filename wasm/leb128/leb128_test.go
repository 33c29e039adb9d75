package leb128

import (
	"bytes"
	"fmt"
	"math"
	"math/rand"
	"testing"
	"time"
)

var casesUint = []struct {
	v uint32
	b []byte
}{
	{0, []byte{0x00}},
	{1, []byte{0x01}},
	{127, []byte{0x7f}},
	{128, []byte{0x80, 0x01}},
	{624485, []byte{0xe5, 0x8e, 0x26}},
	{math.MaxUint32, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
}

var casesInt = []struct {
	v int64
	b []byte
}{
	{0, []byte{0x00}},
	{1, []byte{0x01}},
	{-1, []byte{0x7f}},
	{63, []byte{0x3f}},
	{64, []byte{0xc0, 0x00}},
	{-64, []byte{0x40}},
	{-123456, []byte{0xc0, 0xbb, 0x78}},
	{math.MaxInt64, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x00}},
	{math.MinInt64, []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x7f}},
}

func TestWriteVarUint32(t *testing.T) {
	for _, c := range casesUint {
		t.Run(fmt.Sprint(c.v), func(t *testing.T) {
			buf := new(bytes.Buffer)
			_, err := WriteVarUint32(buf, c.v)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(buf.Bytes(), c.b) {
				t.Fatalf("unexpected output: %x", buf.Bytes())
			}
		})
	}
}

func TestWriteVarint64(t *testing.T) {
	for _, c := range casesInt {
		t.Run(fmt.Sprint(c.v), func(t *testing.T) {
			buf := new(bytes.Buffer)
			_, err := WriteVarint64(buf, c.v)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(buf.Bytes(), c.b) {
				t.Fatalf("unexpected output: %x", buf.Bytes())
			}
		})
	}
}

func TestGetVarUint32(t *testing.T) {
	for _, c := range casesUint {
		t.Run(fmt.Sprint(c.v), func(t *testing.T) {
			v, n, err := GetVarUint32(c.b)
			if err != nil {
				t.Fatal(err)
			}
			if v != c.v || n != len(c.b) {
				t.Fatalf("got (%v, %v); expected (%v, %v)", v, n, c.v, len(c.b))
			}
		})
	}
}

func TestGetVarint64(t *testing.T) {
	for _, c := range casesInt {
		t.Run(fmt.Sprint(c.v), func(t *testing.T) {
			v, n, err := GetVarint64(c.b)
			if err != nil {
				t.Fatal(err)
			}
			if v != c.v || n != len(c.b) {
				t.Fatalf("got (%v, %v); expected (%v, %v)", v, n, c.v, len(c.b))
			}
		})
	}
}

func TestWriteReadInt64(t *testing.T) {
	r := rand.New(rand.NewSource(time.Now().Unix()))

	var buf bytes.Buffer
	for i := 0; i < 100000; i++ {
		n := r.Int63() - r.Int63()

		buf.Reset()
		if _, err := WriteVarint64(&buf, n); err != nil {
			t.Fatalf("WriteVarint64: %v", err)
		}

		v, read, err := GetVarint64(buf.Bytes())
		if err != nil {
			t.Fatalf("GetVarint64: %v", err)
		}
		if v != n || read != buf.Len() {
			t.Fatalf("got (%v, %v); expected (%v, %v)", v, read, n, buf.Len())
		}
	}
}

func TestWriteReadUint32(t *testing.T) {
	r := rand.New(rand.NewSource(time.Now().Unix()))

	var buf bytes.Buffer
	for i := 0; i < 100000; i++ {
		n := r.Uint32()

		buf.Reset()
		if _, err := WriteVarUint32(&buf, n); err != nil {
			t.Fatalf("WriteVarUint32: %v", err)
		}

		v, read, err := GetVarUint32(buf.Bytes())
		if err != nil {
			t.Fatalf("GetVarUint32: %v", err)
		}
		if v != n || read != buf.Len() {
			t.Fatalf("got (%v, %v); expected (%v, %v)", v, read, n, buf.Len())
		}
	}
}

func TestGetVarUint32Overflow(t *testing.T) {
	if _, _, err := GetVarUint32([]byte{0xff, 0xff, 0xff, 0xff, 0x1f}); err != ErrOverflow {
		t.Fatalf("expected ErrOverflow; got %v", err)
	}
	if _, _, err := GetVarUint32([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}); err != ErrOverflow {
		t.Fatalf("expected ErrOverflow; got %v", err)
	}
}

func TestGetVarint32Range(t *testing.T) {
	var buf bytes.Buffer
	if _, err := WriteVarint64(&buf, math.MaxInt32+1); err != nil {
		t.Fatal(err)
	}
	if _, _, err := GetVarint32(buf.Bytes()); err != ErrOverflow {
		t.Fatalf("expected ErrOverflow; got %v", err)
	}

	buf.Reset()
	if _, err := WriteVarint64(&buf, math.MinInt32); err != nil {
		t.Fatal(err)
	}
	v, _, err := GetVarint32(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if v != math.MinInt32 {
		t.Fatalf("got %v; expected %v", v, math.MinInt32)
	}
}

func TestGetTruncated(t *testing.T) {
	if _, _, err := GetVarUint32([]byte{0x80}); err == nil {
		t.Fatal("expected an error for a truncated encoding")
	}
	if _, _, err := GetVarint64([]byte{0x80, 0x80}); err == nil {
		t.Fatal("expected an error for a truncated encoding")
	}
}
