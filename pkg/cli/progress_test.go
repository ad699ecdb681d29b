package cli

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestSimpleProgressBasic(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf)

	progress.Start(100)
	progress.Update(50)
	progress.Finish()

	output := buf.String()
	if !strings.Contains(output, "Importing:") {
		t.Error("Expected progress output to contain 'Importing:'")
	}
	if !strings.Contains(output, "(50/100)") {
		t.Error("Expected progress output to contain the halfway count")
	}
	if !strings.Contains(output, "(100/100)") || !strings.Contains(output, "100.0%") {
		t.Error("Expected Finish to render a complete bar")
	}
	if !strings.Contains(output, "records/s") {
		t.Error("Expected the rate unit in the output")
	}
}

func TestSimpleProgressLabel(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewLabeledProgress(buf, "Exporting", "settings")

	progress.Start(2)
	progress.Update(5)

	if !strings.Contains(buf.String(), "Exporting: ") || !strings.Contains(buf.String(), "(2/2)") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestSimpleProgressZeroTotal(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf)

	progress.Start(0)
	progress.Update(0)
	progress.Finish()

	if buf.String() != "\n" {
		t.Errorf("output = %q, want only the final newline", buf.String())
	}
}

func TestSimpleProgressError(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf)

	progress.Start(100)
	progress.Error(fmt.Errorf("statement 7 references missing document 3"))

	output := buf.String()
	if !strings.Contains(output, "Error:") {
		t.Error("Expected error output to contain 'Error:'")
	}
	if !strings.Contains(output, "missing document 3") {
		t.Error("Expected error output to contain error message")
	}
}

func TestSimpleProgressConcurrent(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf)

	progress.Start(1000)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(start int) {
			for j := 0; j < 100; j++ {
				progress.Update(int64(start*100 + j))
				time.Sleep(time.Microsecond)
			}
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	progress.Finish()

	if buf.Len() == 0 {
		t.Error("Expected some progress output")
	}
}

func TestNopProgress(t *testing.T) {
	progress := NopProgress()
	progress.Start(10)
	progress.Update(5)
	progress.Error(fmt.Errorf("ignored"))
	progress.Finish()
}
