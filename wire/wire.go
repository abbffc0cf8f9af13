/*
Package wire implements the binary encoding of all persisted models and
messages.

The format is protocol buffers compatible: every value is prefixed with a
varint key that carries the field number and the wire type. Zero values are
not written. Unknown fields are skipped when decoding so that newer writers
can add fields without breaking older readers.
*/
package wire

import (
	"reflect"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/splitpay/errors"
)

// Marshaller is implemented by any value that can be serialized.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Unmarshaller is implemented by any value that can load its state from
// the serialized form.
type Unmarshaller interface {
	Unmarshal([]byte) error
}

// Encoder builds a serialized message, field by field. Fields should be
// written in ascending field number order.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an encoder with preallocated buffer of given size.
func NewEncoder(size int) *Encoder {
	return &Encoder{buf: make([]byte, 0, size)}
}

func (e *Encoder) key(field int, wireType int) {
	e.buf = append(e.buf, proto.EncodeVarint(uint64(field)<<3|uint64(wireType))...)
}

// Uint64 writes an unsigned integer field. Zero is not written.
func (e *Encoder) Uint64(field int, v uint64) {
	if v == 0 {
		return
	}
	e.key(field, proto.WireVarint)
	e.buf = append(e.buf, proto.EncodeVarint(v)...)
}

// Uint32 writes an unsigned integer field. Zero is not written.
func (e *Encoder) Uint32(field int, v uint32) {
	e.Uint64(field, uint64(v))
}

// Int64 writes a signed integer field using two's complement, the same way
// the protobuf int64 type is encoded.
func (e *Encoder) Int64(field int, v int64) {
	e.Uint64(field, uint64(v))
}

// Bool writes a boolean field. False is not written.
func (e *Encoder) Bool(field int, v bool) {
	if v {
		e.Uint64(field, 1)
	}
}

// Bytes writes a length prefixed field. Empty value is not written.
func (e *Encoder) Bytes(field int, b []byte) {
	if len(b) == 0 {
		return
	}
	e.raw(field, b)
}

// String writes a length prefixed field. Empty value is not written.
func (e *Encoder) String(field int, s string) {
	if s == "" {
		return
	}
	e.raw(field, []byte(s))
}

// RepeatedBytes writes every element as a separate field with the same
// number. Empty elements are written as well so that positions are
// preserved.
func (e *Encoder) RepeatedBytes(field int, list [][]byte) {
	for _, b := range list {
		e.raw(field, b)
	}
}

// Message writes an embedded message. Nil value is not written.
func (e *Encoder) Message(field int, m Marshaller) error {
	if m == nil {
		return nil
	}
	if v := reflect.ValueOf(m); v.Kind() == reflect.Ptr && v.IsNil() {
		return nil
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(err, "field %d", field)
	}
	e.raw(field, raw)
	return nil
}

func (e *Encoder) raw(field int, b []byte) {
	e.key(field, proto.WireBytes)
	e.buf = append(e.buf, proto.EncodeVarint(uint64(len(b)))...)
	e.buf = append(e.buf, b...)
}

// Result returns the serialized form of all fields written so far.
func (e *Encoder) Result() []byte {
	return e.buf
}

// Field represents a single field read from a serialized message.
type Field struct {
	Num      int
	WireType int
	varint   uint64
	data     []byte
}

// Uint64 returns the value of a varint field.
func (f Field) Uint64() (uint64, error) {
	if f.WireType != proto.WireVarint {
		return 0, errors.Wrapf(errors.ErrSchema, "field %d is not a varint", f.Num)
	}
	return f.varint, nil
}

// Uint32 returns the value of a varint field that must fit 32 bits.
func (f Field) Uint32() (uint32, error) {
	v, err := f.Uint64()
	if err != nil {
		return 0, err
	}
	if v > 1<<32-1 {
		return 0, errors.Wrapf(errors.ErrSchema, "field %d overflows uint32", f.Num)
	}
	return uint32(v), nil
}

// Int64 returns the value of a varint field as a signed integer.
func (f Field) Int64() (int64, error) {
	v, err := f.Uint64()
	return int64(v), err
}

// Bool returns the value of a varint field as a boolean.
func (f Field) Bool() (bool, error) {
	v, err := f.Uint64()
	if err != nil {
		return false, err
	}
	if v > 1 {
		return false, errors.Wrapf(errors.ErrSchema, "field %d is not a boolean", f.Num)
	}
	return v == 1, nil
}

// Bytes returns a copy of a length prefixed field value.
func (f Field) Bytes() ([]byte, error) {
	if f.WireType != proto.WireBytes {
		return nil, errors.Wrapf(errors.ErrSchema, "field %d is not length prefixed", f.Num)
	}
	cpy := make([]byte, len(f.data))
	copy(cpy, f.data)
	return cpy, nil
}

// String returns a length prefixed field value as a string.
func (f Field) String() (string, error) {
	b, err := f.Bytes()
	return string(b), err
}

// Message decodes an embedded message into given destination.
func (f Field) Message(dst Unmarshaller) error {
	b, err := f.Bytes()
	if err != nil {
		return err
	}
	if err := dst.Unmarshal(b); err != nil {
		return errors.Wrapf(err, "field %d", f.Num)
	}
	return nil
}

// Decode reads all fields of the serialized message and calls fn for each
// one of them, in order. The iteration stops on the first error.
func Decode(raw []byte, fn func(Field) error) error {
	for len(raw) > 0 {
		key, n := proto.DecodeVarint(raw)
		if n == 0 {
			return errors.Wrap(errors.ErrSchema, "malformed field key")
		}
		raw = raw[n:]

		f := Field{
			Num:      int(key >> 3),
			WireType: int(key & 0x7),
		}
		if f.Num <= 0 {
			return errors.Wrapf(errors.ErrSchema, "invalid field number %d", f.Num)
		}

		switch f.WireType {
		case proto.WireVarint:
			v, n := proto.DecodeVarint(raw)
			if n == 0 {
				return errors.Wrapf(errors.ErrSchema, "malformed varint of field %d", f.Num)
			}
			f.varint = v
			raw = raw[n:]
		case proto.WireBytes:
			size, n := proto.DecodeVarint(raw)
			if n == 0 || size > uint64(len(raw)-n) {
				return errors.Wrapf(errors.ErrSchema, "malformed length of field %d", f.Num)
			}
			f.data = raw[n : n+int(size)]
			raw = raw[n+int(size):]
		case proto.WireFixed64:
			if len(raw) < 8 {
				return errors.Wrapf(errors.ErrSchema, "truncated field %d", f.Num)
			}
			f.data = raw[:8]
			raw = raw[8:]
		case proto.WireFixed32:
			if len(raw) < 4 {
				return errors.Wrapf(errors.ErrSchema, "truncated field %d", f.Num)
			}
			f.data = raw[:4]
			raw = raw[4:]
		default:
			return errors.Wrapf(errors.ErrSchema, "unsupported wire type %d", f.WireType)
		}

		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}
