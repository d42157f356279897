package core

import (
	"bytes"
	"fmt"
)

// ObjectStream is a decoded /Type /ObjStm stream holding several
// compressed objects.
type ObjectStream struct {
	first   int
	offsets []objStmOffset
	data    []byte
}

type objStmOffset struct {
	number int
	offset int
}

// NewObjectStream decodes stream and parses its header of N
// "number offset" pairs.
func NewObjectStream(stream *Stream) (*ObjectStream, error) {
	if stream == nil {
		return nil, fmt.Errorf("object stream is nil")
	}
	if typ, _ := stream.Dict.GetName("Type"); typ != "ObjStm" {
		return nil, fmt.Errorf("stream has /Type %s, not /ObjStm", typ)
	}
	n, ok := stream.Dict.GetInt("N")
	if !ok || n < 0 {
		return nil, fmt.Errorf("object stream has invalid /N")
	}
	first, ok := stream.Dict.GetInt("First")
	if !ok || first < 0 {
		return nil, fmt.Errorf("object stream has invalid /First")
	}

	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("decode object stream: %w", err)
	}
	if int(first) > len(data) {
		return nil, fmt.Errorf("/First %d beyond decoded length %d", first, len(data))
	}

	os := &ObjectStream{first: int(first), data: data}
	header := NewParser(bytes.NewReader(data[:first]))
	for i := 0; i < int(n); i++ {
		num, err1 := header.ParseObject()
		off, err2 := header.ParseObject()
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("object stream header truncated at pair %d", i)
		}
		numInt, ok1 := num.(Int)
		offInt, ok2 := off.(Int)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("object stream header pair %d is not two integers", i)
		}
		os.offsets = append(os.offsets, objStmOffset{number: int(numInt), offset: int(offInt)})
	}
	return os, nil
}

// Len returns the number of objects in the stream.
func (os *ObjectStream) Len() int {
	return len(os.offsets)
}

// Number returns the object number stored at header position index, or -1.
func (os *ObjectStream) Number(index int) int {
	if index < 0 || index >= len(os.offsets) {
		return -1
	}
	return os.offsets[index].number
}

// ObjectAt parses the object at header position index and returns it with
// its object number.
func (os *ObjectStream) ObjectAt(index int) (Object, int, error) {
	if index < 0 || index >= len(os.offsets) {
		return nil, 0, fmt.Errorf("index %d out of range [0, %d)", index, len(os.offsets))
	}
	start := os.first + os.offsets[index].offset
	end := len(os.data)
	if index+1 < len(os.offsets) {
		end = os.first + os.offsets[index+1].offset
	}
	if start > len(os.data) || end > len(os.data) || start > end {
		return nil, 0, fmt.Errorf("object %d has invalid bounds %d..%d", os.offsets[index].number, start, end)
	}
	obj, err := NewParser(bytes.NewReader(os.data[start:end])).ParseObject()
	if err != nil {
		return nil, 0, fmt.Errorf("object %d in object stream: %w", os.offsets[index].number, err)
	}
	return obj, os.offsets[index].number, nil
}

// Object finds an object by number, preferring the hinted index.
func (os *ObjectStream) Object(number, hint int) (Object, error) {
	if hint >= 0 && hint < len(os.offsets) && os.offsets[hint].number == number {
		obj, _, err := os.ObjectAt(hint)
		return obj, err
	}
	for i, o := range os.offsets {
		if o.number == number {
			obj, _, err := os.ObjectAt(i)
			return obj, err
		}
	}
	return nil, fmt.Errorf("object %d not in object stream", number)
}
