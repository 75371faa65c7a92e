package extract_test

import (
	"testing"

	"medassist-backend/extract"
)

func TestObjectPlain(t *testing.T) {
	obj, ok := extract.Object(`{"answer": "hello", "n": 2}`)
	if !ok {
		t.Fatalf("expected ok")
	}
	if obj["answer"] != "hello" {
		t.Errorf("answer=%v", obj["answer"])
	}
}

func TestObjectInsideFence(t *testing.T) {
	obj, ok := extract.Object("Sure, here it is:\n```json\n{\"answer\": \"fenced\"}\n```")
	if !ok || obj["answer"] != "fenced" {
		t.Fatalf("ok=%v obj=%v", ok, obj)
	}
}

func TestObjectGenericFence(t *testing.T) {
	obj, ok := extract.Object("```\n{\"answer\": \"generic\"}\n```")
	if !ok || obj["answer"] != "generic" {
		t.Fatalf("ok=%v obj=%v", ok, obj)
	}
}

func TestObjectAfterPreamble(t *testing.T) {
	obj, ok := extract.Object(`The result follows. {"answer": "embedded", "nested": {"k": "v"}} trailing note`)
	if !ok || obj["answer"] != "embedded" {
		t.Fatalf("ok=%v obj=%v", ok, obj)
	}
}

func TestObjectRepairsSingleQuotes(t *testing.T) {
	obj, ok := extract.Object(`{'answer': 'repaired', 'list': [1, 2,]}`)
	if !ok {
		t.Fatalf("repair path should have parsed single-quoted JSON")
	}
	if obj["answer"] != "repaired" {
		t.Errorf("answer=%v", obj["answer"])
	}
}

func TestObjectRejectsNonObjects(t *testing.T) {
	for _, in := range []string{"", "plain prose with no braces", `[1, 2, 3]`, `"just a string"`} {
		if _, ok := extract.Object(in); ok {
			t.Errorf("Object(%q) unexpectedly ok", in)
		}
	}
}

func TestObjectBracesInsideStrings(t *testing.T) {
	obj, ok := extract.Object(`note {"answer": "has } brace and { brace", "k": 1} end`)
	if !ok {
		t.Fatalf("expected ok")
	}
	if obj["answer"] != "has } brace and { brace" {
		t.Errorf("answer=%v", obj["answer"])
	}
}
