package launchtrc_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/peterbourgon/launchtrc"
)

func TestPhase(t *testing.T) {
	t.Parallel()

	for _, ph := range []launchtrc.Phase{
		launchtrc.PhaseBegin,
		launchtrc.PhaseEnd,
		launchtrc.PhaseImmediate,
		launchtrc.PhaseCounter,
		launchtrc.PhaseAsyncStart,
		launchtrc.PhaseAsyncFinish,
		launchtrc.PhaseObjectSnapshot,
		launchtrc.PhaseObjectNew,
		launchtrc.PhaseObjectDelete,
		launchtrc.PhaseMetadata,
	} {
		if !ph.Valid() {
			t.Errorf("%q: not valid", string(ph))
		}
	}

	if launchtrc.Phase("X").Valid() {
		t.Errorf("X: valid")
	}

	if want, have := "begin", launchtrc.PhaseBegin.String(); want != have {
		t.Errorf("want %q, have %q", want, have)
	}
}

func TestEncodeSeedEvent(t *testing.T) {
	t.Parallel()

	buf := launchtrc.NewBuffer(42, "buck.py")

	var out bytes.Buffer
	if err := launchtrc.Encode(&out, buf.Events()); err != nil {
		t.Fatal(err)
	}

	want := `[{"name":"process_name","ph":"M","pid":42,"args":{"name":"buck.py"}}]`
	if have := strings.TrimSpace(out.String()); want != have {
		t.Errorf("want %s, have %s", want, have)
	}
}

func TestEncodeSpanFields(t *testing.T) {
	t.Parallel()

	buf := launchtrc.NewBuffer(7, "test", launchtrc.WithClock(stepClock(2000)))
	buf.Begin("example", nil).End()

	var out bytes.Buffer
	if err := launchtrc.Encode(&out, buf.Events()); err != nil {
		t.Fatal(err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(out.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}

	assertEqual(t, len(raw), 3)
	assertEqual(t, raw[1], map[string]any{
		"cat":  "buck-launcher",
		"name": "example",
		"ph":   "B",
		"pid":  float64(7),
		"tid":  float64(1),
		"ts":   float64(2),
		"args": map[string]any{},
	})
	assertEqual(t, raw[2]["ph"], any("E"))
	assertEqual(t, raw[2]["ts"], any(float64(4)))
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	buf := launchtrc.NewBuffer(100, "test", launchtrc.WithClock(stepClock(1500)))
	func() {
		outer := buf.Begin("outer", launchtrc.Args{"target": "//foo:bar"})
		defer outer.End()
		buf.Begin("inner", launchtrc.Args{"n": "1"}).End()
		buf.Instant("mark", launchtrc.Args{"why": "because"})
	}()

	var out bytes.Buffer
	if err := launchtrc.Encode(&out, buf.Events()); err != nil {
		t.Fatal(err)
	}

	events, err := launchtrc.Decode(&out)
	if err != nil {
		t.Fatal(err)
	}

	assertEqual(t, events, buf.Events())
}

func TestEncodeEmpty(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if err := launchtrc.Encode(&out, nil); err != nil {
		t.Fatal(err)
	}
	if want, have := "[]", strings.TrimSpace(out.String()); want != have {
		t.Errorf("want %s, have %s", want, have)
	}
}

func TestDecodeInvalid(t *testing.T) {
	t.Parallel()

	for _, input := range []string{
		`{"name":"not an array"}`,
		`[{"name":"x","ph":"?","pid":1,"args":{}}]`,
		`[{"name":"x","ph":"B"`,
	} {
		if _, err := launchtrc.Decode(strings.NewReader(input)); err == nil {
			t.Errorf("%s: want error, have none", input)
		}
	}
}

func TestEncodeZeroFields(t *testing.T) {
	t.Parallel()

	buf := launchtrc.NewBuffer(1, "test",
		launchtrc.WithCategory(""),
		launchtrc.WithThreadID(0),
		launchtrc.WithClock(launchtrc.ClockFunc(func() int64 { return 500 })), // under 1µs
	)
	buf.Begin("x", nil).End()
	buf.Instant("i", nil)
	buf.Counter("c", nil)

	var out bytes.Buffer
	if err := launchtrc.Encode(&out, buf.Events()); err != nil {
		t.Fatal(err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(out.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	if want, have := 5, len(raw); want != have {
		t.Fatalf("events: want %d, have %d", want, have)
	}

	for _, key := range []string{"cat", "tid", "ts"} {
		if _, ok := raw[0][key]; ok {
			t.Errorf("metadata event: unexpected %q", key)
		}
	}

	for _, obj := range raw[1:] {
		for _, key := range []string{"cat", "name", "ph", "pid", "tid", "ts", "args"} {
			if _, ok := obj[key]; !ok {
				t.Errorf("%v event %v: missing %q", obj["ph"], obj["name"], key)
			}
		}
		assertEqual(t, obj["tid"], any(float64(0)))
		assertEqual(t, obj["ts"], any(float64(0)))
		assertEqual(t, obj["cat"], any(""))
	}
}
