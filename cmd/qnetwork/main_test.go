package main

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qnetwork_reorganized/pkg/qnetwork"
)

func init() {
	log.SetOutput(io.Discard)
}

func TestParseStates(t *testing.T) {
	states, err := parseStates("1,2,3; 4, 5, 6", 3)
	if err != nil {
		t.Fatalf("parseStates returned an error: %v", err)
	}
	if len(states) != 2 || states[1][2] != 6 {
		t.Errorf("unexpected states %v", states)
	}

	zero, _ := parseStates("", 4)
	if len(zero) != 1 || len(zero[0]) != 4 || zero[0][3] != 0 {
		t.Errorf("expected one zero state, got %v", zero)
	}

	if _, err := parseStates("1,x", 2); err == nil {
		t.Error("expected an error for a non-numeric component")
	}
}

func TestEvaluate(t *testing.T) {
	o, err := parseFlags("default", []string{"-state-size", "3", "-action-size", "4", "-state", "1,0,-1;0,0,0"})
	if err != nil {
		t.Fatalf("parseFlags returned an error: %v", err)
	}
	values, err := evaluate(o)
	if err != nil {
		t.Fatalf("evaluate returned an error: %v", err)
	}
	if len(values) != 2 || len(values[0]) != 4 {
		t.Errorf("unexpected output shape %dx%d", len(values), len(values[0]))
	}

	o.states = "1,2"
	if _, err := evaluate(o); err == nil {
		t.Error("expected a shape error for a short state")
	}
}

func TestEvaluateChunked(t *testing.T) {
	args := []string{"-state-size", "2", "-action-size", "3", "-seed", "4", "-state", "1,2;3,4;-1,0"}
	whole, _ := parseFlags("default", args)
	chunked, _ := parseFlags("default", append(args, "-chunk", "2"))

	want, err := evaluate(whole)
	if err != nil {
		t.Fatalf("evaluate returned an error: %v", err)
	}
	got, err := evaluate(chunked)
	if err != nil {
		t.Fatalf("chunked evaluate returned an error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d rows, expected %d", len(got), len(want))
	}
	for i := range want {
		for j := range want[i] {
			if math.Abs(got[i][j]-want[i][j]) > 1e-12 {
				t.Errorf("row %d col %d: chunked %f, whole %f", i, j, got[i][j], want[i][j])
			}
		}
	}
}

func TestRunExitCodes(t *testing.T) {
	if code := run([]string{"-h"}); code != 0 {
		t.Errorf("-h exit code = %d, expected 0", code)
	}
	if code := run([]string{"-no-such-flag"}); code != 2 {
		t.Errorf("unknown flag exit code = %d, expected 2", code)
	}
	if code := run([]string{"bogus"}); code != 1 {
		t.Errorf("unknown mode exit code = %d, expected 1", code)
	}
}

func TestBuildNetworkFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qnetwork.yaml")
	if err := qnetwork.SaveConfig(qnetwork.NewConfig(6, 3, 8, 5), path); err != nil {
		t.Fatal(err)
	}
	o, _ := parseFlags("default", []string{"-config", path})
	q, err := buildNetwork(o)
	if err != nil {
		t.Fatalf("buildNetwork returned an error: %v", err)
	}
	if q.StateSize() != 6 || q.HiddenSize() != 8 || q.Seed() != 5 {
		t.Errorf("config file not applied: %+v", q.Config())
	}
}

func TestPlotAndSave(t *testing.T) {
	dir := t.TempDir()

	chart := filepath.Join(dir, "chart.html")
	o, _ := parseFlags("plot", []string{"-out", chart})
	if err := runPlot(o); err != nil {
		t.Fatalf("runPlot returned an error: %v", err)
	}
	data, err := os.ReadFile(chart)
	if err != nil || !strings.Contains(string(data), "echarts") {
		t.Errorf("chart not written: %v", err)
	}

	ckpt := filepath.Join(dir, "net.gob")
	o, _ = parseFlags("save", []string{"-out", ckpt, "-seed", "3"})
	if err := runSave(o); err != nil {
		t.Fatalf("runSave returned an error: %v", err)
	}
	q, err := qnetwork.LoadFile(ckpt)
	if err != nil {
		t.Fatalf("LoadFile returned an error: %v", err)
	}
	if q.Seed() != 3 {
		t.Errorf("checkpoint seed = %d, expected 3", q.Seed())
	}
	if _, err := os.Stat(ckpt); err != nil {
		t.Error(err)
	}
}
