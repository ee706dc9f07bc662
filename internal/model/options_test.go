package model

import (
	"encoding/json"
	"testing"
)

func TestOptionsOrder(t *testing.T) {
	cases := []struct {
		name string
		opts Options
		want int
	}{
		{"absent", Options{}, 1},
		{"number", Options{OrderOptionKey: IntValue(4)}, 4},
		{"numeric string", Options{OrderOptionKey: StringValue("7")}, 7},
		{"zero padded string", Options{OrderOptionKey: StringValue("010")}, 10},
		{"zero padded eight", Options{OrderOptionKey: StringValue(" 08 ")}, 8},
		{"hex string", Options{OrderOptionKey: StringValue("0x10")}, 1},
		{"garbage string", Options{OrderOptionKey: StringValue("soon")}, 1},
		{"bool", Options{OrderOptionKey: BoolValue(true)}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.opts.Order(); got != tc.want {
				t.Fatalf("Order() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestOptionsJSON(t *testing.T) {
	var opts Options
	raw := `{"order":2,"label":"Hi","required":true,"tags":["a","b"],"meta":{"x":1.5},"gone":null}`
	if err := json.Unmarshal([]byte(raw), &opts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if _, ok := opts["gone"]; ok {
		t.Fatalf("null member should be dropped")
	}
	if got := opts.Keys(); len(got) != 5 || got[0] != "label" || got[4] != "tags" {
		t.Fatalf("Keys() = %v", got)
	}
	if s, ok := opts["label"].AsString(); !ok || s != "Hi" {
		t.Fatalf("label = %v", opts["label"])
	}
	if b, ok := opts["required"].AsBool(); !ok || !b {
		t.Fatalf("required = %v", opts["required"])
	}
	if l, ok := opts["tags"].AsList(); !ok || len(l) != 2 {
		t.Fatalf("tags = %v", opts["tags"])
	}
	m, ok := opts["meta"].AsMap()
	if !ok {
		t.Fatalf("meta is not a map")
	}
	if n, _ := m["x"].AsNumber(); n != 1.5 {
		t.Fatalf("meta.x = %v", n)
	}

	out, err := json.Marshal(opts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Options
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal again: %v", err)
	}
	if !back.Equal(opts) {
		t.Fatalf("options changed through JSON: %s", out)
	}
}

func TestValueOfRejectsNullAndUnknown(t *testing.T) {
	if _, err := ValueOf(nil); err == nil {
		t.Fatalf("expected an error for nil")
	}
	if _, err := ValueOf(struct{}{}); err == nil {
		t.Fatalf("expected an error for a struct")
	}
	if _, err := ValueOf([]any{"a", nil}); err == nil {
		t.Fatalf("expected an error for a nested nil")
	}
}

func TestValueEqual(t *testing.T) {
	a := MustValue(map[string]any{"x": []any{1, "two"}})
	b := MustValue(map[string]any{"x": []any{1.0, "two"}})
	c := MustValue(map[string]any{"x": []any{1, "three"}})

	if !a.Equal(b) {
		t.Fatalf("int and float of the same number should be equal")
	}
	if a.Equal(c) {
		t.Fatalf("different lists compared equal")
	}
	if StringValue("1").Equal(IntValue(1)) {
		t.Fatalf("string and number compared equal")
	}
}

func TestIntegralNumbersEncodeWithoutFraction(t *testing.T) {
	out, err := json.Marshal(IntValue(3))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "3" {
		t.Fatalf("got %s", out)
	}
}

func TestQuestionPutOptionsDropsAllowsOtherKey(t *testing.T) {
	q := &Question{}
	q.PutOptions(Options{AllowsOtherOptionKey: BoolValue(true), OrderOptionKey: IntValue(3)})

	if _, ok := q.GetOptions()[AllowsOtherOptionKey]; ok {
		t.Fatalf("allows-other key leaked into options")
	}
	if q.Position != 3 {
		t.Fatalf("Position = %d, want 3", q.Position)
	}
}

func TestQuestionAddChoicesAccumulates(t *testing.T) {
	q := &Question{}
	q.AddChoices("a", "b")
	q.AddChoices()
	q.AddChoices("c")

	if len(q.Choices) != 3 || q.Choices[2] != "c" {
		t.Fatalf("choices = %v", q.Choices)
	}
}
