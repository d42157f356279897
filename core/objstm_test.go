package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const objStmHeader = "10 0 11 6\n"

func newTestObjectStream(t *testing.T, flate bool) *ObjectStream {
	t.Helper()
	data := []byte(objStmHeader + "(one) << /A 1 >>")
	dict := Dict{"Type": Name("ObjStm"), "N": Int(2), "First": Int(len(objStmHeader))}
	if flate {
		data = deflate(t, data)
		dict["Filter"] = Name("FlateDecode")
	}
	os, err := NewObjectStream(&Stream{Dict: dict, Data: data})
	if err != nil {
		t.Fatal(err)
	}
	return os
}

func TestObjectStream(t *testing.T) {
	for _, flate := range []bool{false, true} {
		os := newTestObjectStream(t, flate)
		if os.Len() != 2 {
			t.Fatalf("Len() = %d, want 2", os.Len())
		}
		if os.Number(0) != 10 || os.Number(1) != 11 || os.Number(2) != -1 {
			t.Errorf("Number() = %d %d %d", os.Number(0), os.Number(1), os.Number(2))
		}

		obj, num, err := os.ObjectAt(0)
		if err != nil {
			t.Fatal(err)
		}
		if num != 10 || obj != String("one") {
			t.Errorf("ObjectAt(0) = %v, %d", obj, num)
		}

		obj, num, err = os.ObjectAt(1)
		if err != nil {
			t.Fatal(err)
		}
		if num != 11 {
			t.Errorf("ObjectAt(1) number = %d", num)
		}
		if diff := cmp.Diff(Object(Dict{"A": Int(1)}), obj); diff != "" {
			t.Errorf("ObjectAt(1) mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestObjectStreamLookup(t *testing.T) {
	os := newTestObjectStream(t, false)

	// a wrong hint falls back to scanning the header
	obj, err := os.Object(11, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := obj.(Dict); !ok {
		t.Errorf("Object(11) = %v", obj)
	}

	obj, err = os.Object(10, 0)
	if err != nil || obj != String("one") {
		t.Errorf("Object(10) = %v, %v", obj, err)
	}

	if _, err := os.Object(12, 0); err == nil {
		t.Error("Object(12) succeeded")
	}
	if _, _, err := os.ObjectAt(2); err == nil {
		t.Error("ObjectAt(2) succeeded")
	}
}

func TestNewObjectStreamErrors(t *testing.T) {
	valid := func() Dict {
		return Dict{"Type": Name("ObjStm"), "N": Int(2), "First": Int(len(objStmHeader))}
	}
	data := []byte(objStmHeader + "(one) << /A 1 >>")

	tests := []struct {
		name   string
		mutate func(Dict)
		data   []byte
	}{
		{"wrong type", func(d Dict) { d["Type"] = Name("XRef") }, data},
		{"missing N", func(d Dict) { delete(d, "N") }, data},
		{"negative First", func(d Dict) { d["First"] = Int(-1) }, data},
		{"First past end", func(d Dict) { d["First"] = Int(1000) }, data},
		{"truncated header", func(d Dict) { d["N"] = Int(3) }, data},
		{"non-integer header", func(d Dict) { d["N"] = Int(1); d["First"] = Int(5) }, []byte("/A 0\n(x)")},
		{"bad filter", func(d Dict) { d["Filter"] = Name("FlateDecode") }, data},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dict := valid()
			tt.mutate(dict)
			if _, err := NewObjectStream(&Stream{Dict: dict, Data: tt.data}); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := NewObjectStream(nil); err == nil {
		t.Error("nil stream accepted")
	}
}
