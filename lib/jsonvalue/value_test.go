// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

package jsonvalue

import "testing"

func TestDeepEqualNumbersByMagnitude(t *testing.T) {
	if !DeepEqual(Number(1), Number(1.0)) {
		t.Fatal("1 and 1.0 should be equal")
	}
	if DeepEqual(Number(1), Number(2)) {
		t.Fatal("1 and 2 should not be equal")
	}
}

func TestDeepEqualObjectKeyOrderIrrelevant(t *testing.T) {
	a := NewOrderedObject()
	a.Set("x", Number(1))
	a.Set("y", Number(2))

	b := NewOrderedObject()
	b.Set("y", Number(2))
	b.Set("x", Number(1))

	if !DeepEqual(NewObject(a), NewObject(b)) {
		t.Fatal("objects with same keys in different order should be equal")
	}
}

func TestDeepEqualTypeMismatch(t *testing.T) {
	if DeepEqual(Null(), Bool(false)) {
		t.Fatal("null and false should not be equal")
	}
	if DeepEqual(String("1"), Number(1)) {
		t.Fatal("string \"1\" and number 1 should not be equal")
	}
}

func TestCloneIsAliasFree(t *testing.T) {
	obj := NewOrderedObject()
	obj.Set("xs", Array([]Value{Number(1), Number(2)}))
	original := NewObject(obj)

	clone := original.Clone()
	clonedXs, _ := clone.Object().Get("xs")
	clonedXs.Elems()[0] = Number(999)

	originalXs, _ := original.Object().Get("xs")
	if originalXs.Elems()[0].Num() != 1 {
		t.Fatal("mutating the clone's array leaked into the original")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	src := []byte(`{"b":2,"a":1,"nested":{"x":[1,2,3]},"s":"he said \"hi\""}`)
	v, err := Decode(src)
	if err != nil {
		t.Fatal(err)
	}
	if got := v.Object().Keys(); got[0] != "b" || got[1] != "a" || got[2] != "nested" || got[3] != "s" {
		t.Fatalf("key order not preserved: %v", got)
	}
	out := EncodeString(v)
	v2, err := Decode([]byte(out))
	if err != nil {
		t.Fatalf("re-decoding encoded output: %v", err)
	}
	if !DeepEqual(v, v2) {
		t.Fatal("encode/decode round trip changed value")
	}
}

func TestEncodeIntegerHasNoTrailingZero(t *testing.T) {
	if got := EncodeString(Number(2)); got != "2" {
		t.Fatalf("expected \"2\", got %q", got)
	}
	if got := EncodeString(Number(2.5)); got != "2.5" {
		t.Fatalf("expected \"2.5\", got %q", got)
	}
}
