package table

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/jcalabro/leb128"
	"github.com/nihei9/wavelabel/style"
	"github.com/nihei9/wavelabel/value"
)

// Magic starts every encoded table.
const Magic = "\x00wlt"

const formatVersion = 1

const maxStringLen = 1 << 20

var ErrNotEncodedTable = errors.New("not an encoded table")

// IsEncoded reports whether head, the first bytes of a file, starts an encoded table.
func IsEncoded(head []byte) bool {
	return bytes.HasPrefix(head, []byte(Magic))
}

type encoder struct {
	w   io.Writer
	err error
}

func (e *encoder) writeUint(n uint64) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(leb128.EncodeU64(n))
}

func (e *encoder) writeString(s string) {
	e.writeUint(uint64(len(s)))
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}

// Encode writes t in a compact binary form that Decode reads back. Integers are unsigned LEB128 and strings are
// length-prefixed.
func Encode(w io.Writer, t *Table) error {
	bw := bufio.NewWriter(w)
	e := &encoder{
		w: bw,
	}
	_, e.err = io.WriteString(bw, Magic)
	e.writeUint(formatVersion)
	e.writeString(t.name)
	e.writeUint(uint64(t.width))
	e.writeUint(uint64(len(t.entries)))
	for _, ent := range t.entries {
		e.writeString(ent.Value.String())
		e.writeString(ent.Label)
		e.writeString(ent.Style.String())
		e.writeUint(uint64(ent.Row))
	}
	e.writeUint(uint64(len(t.dups)))
	for _, d := range t.dups {
		e.writeString(d.Value.String())
		e.writeUint(uint64(d.Row))
		e.writeUint(uint64(d.PrevRow))
	}
	if e.err != nil {
		return fmt.Errorf("cannot encode a table: %w", e.err)
	}
	return bw.Flush()
}

type decoder struct {
	r   *bufio.Reader
	err error
}

func (d *decoder) readUint() uint64 {
	if d.err != nil {
		return 0
	}
	var n uint64
	n, d.err = leb128.DecodeU64(d.r)
	return n
}

func (d *decoder) readInt() int {
	n := d.readUint()
	if d.err == nil && n > uint64(maxInt) {
		d.err = fmt.Errorf("integer out of range: %v", n)
		return 0
	}
	return int(n)
}

func (d *decoder) readString() string {
	n := d.readUint()
	if d.err != nil {
		return ""
	}
	if n > maxStringLen {
		d.err = fmt.Errorf("string too long: %v bytes", n)
		return ""
	}
	b := make([]byte, n)
	_, d.err = io.ReadFull(d.r, b)
	return string(b)
}

func (d *decoder) readValue() value.Value {
	s := d.readString()
	if d.err != nil {
		return value.Value{}
	}
	var v value.Value
	d.err = v.UnmarshalText([]byte(s))
	return v
}

const maxInt = int(^uint(0) >> 1)

// Decode reads a table written by Encode.
func Decode(r io.Reader) (*Table, error) {
	d := &decoder{
		r: bufio.NewReader(r),
	}

	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(d.r, magic); err != nil || string(magic) != Magic {
		return nil, ErrNotEncodedTable
	}
	if ver := d.readUint(); d.err == nil && ver != formatVersion {
		return nil, fmt.Errorf("unsupported format version: %v", ver)
	}
	name := d.readString()
	width := d.readInt()
	if d.err == nil && width <= 0 {
		d.err = fmt.Errorf("a table must have a positive width: %v", width)
	}
	if d.err != nil {
		return nil, fmt.Errorf("cannot decode a table: %w", d.err)
	}

	t := newTable(name, width)
	n := d.readInt()
	for i := 0; i < n && d.err == nil; i++ {
		v := d.readValue()
		label := d.readString()
		var s style.Style
		if text := d.readString(); d.err == nil {
			d.err = s.UnmarshalText([]byte(text))
		}
		row := d.readInt()
		if d.err == nil {
			d.err = t.insert(v, label, s, row)
		}
	}
	n = d.readInt()
	for i := 0; i < n && d.err == nil; i++ {
		v := d.readValue()
		row := d.readInt()
		prevRow := d.readInt()
		t.dups = append(t.dups, &Duplicate{
			Value:   v,
			Row:     row,
			PrevRow: prevRow,
		})
	}
	if d.err != nil {
		return nil, fmt.Errorf("cannot decode a table: %w", d.err)
	}
	return t, nil
}
