package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestAskReadsLinesThenCloses(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("first\r\nlast"), &out)
	if s, err := c.Ask("> "); err != nil || s != "first" {
		t.Fatalf("got %q %v", s, err)
	}
	if s, err := c.Ask("> "); err != nil || s != "last" {
		t.Fatalf("got %q %v", s, err)
	}
	if _, err := c.Ask("> "); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestYesNoRepromptsOnInvalid(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("maybe\n Y \n"), &out)
	ok, err := c.YesNo("More? ")
	if err != nil || !ok {
		t.Fatalf("expected yes, got %v %v", ok, err)
	}
	if !strings.Contains(out.String(), "Invalid Option.") {
		t.Fatalf("expected invalid notice, got %q", out.String())
	}
}

func TestYesNoReportsClosedInput(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("maybe\n"), &out)
	ok, err := c.YesNo("More? ")
	if ok || !errors.Is(err, ErrClosed) {
		t.Fatalf("expected false with ErrClosed, got %v %v", ok, err)
	}
}

func TestPasswordFallsBackToLineWithoutTerminal(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("s3cret\n"), &out)
	if pw, err := c.Password("Password: "); err != nil || pw != "s3cret" {
		t.Fatalf("got %q %v", pw, err)
	}
}
