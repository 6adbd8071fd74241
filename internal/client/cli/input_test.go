package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("hello world\n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
	require.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetSimpleTextEmptyEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader(""))
	var out bytes.Buffer
	_, err := GetSimpleText(in, "Name?", &out)
	require.Error(t, err)
}

func TestGetChoice(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("2\n"))
	var out bytes.Buffer
	got, err := GetChoice(in, "Pick", []string{"a", "b"}, &out)
	require.NoError(t, err)
	require.Equal(t, 1, got)
	require.Contains(t, out.String(), "  1) a\n  2) b\n")
}

func TestGetChoice_RepromptsOnInvalid(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("x\n9\n1\n"))
	var out bytes.Buffer
	got, err := GetChoice(in, "Pick", []string{"a", "b"}, &out)
	require.NoError(t, err)
	require.Equal(t, 0, got)
	require.Equal(t, 2, strings.Count(out.String(), "Enter a number between 1 and 2"))
}

func TestGetChoice_EmptyCancels(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("\n"))
	var out bytes.Buffer
	got, err := GetChoice(in, "Pick", []string{"a"}, &out)
	require.NoError(t, err)
	require.Equal(t, -1, got)
}

func TestGetChoice_EOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader(""))
	var out bytes.Buffer
	_, err := GetChoice(in, "Pick", []string{"a"}, &out)
	require.Error(t, err)
}
