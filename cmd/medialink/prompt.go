package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"medialink/internal/staging"
)

var errNotInteractive = errors.New("refusing to prompt: stdin is not a terminal (pass --yes to delete without confirmation)")

// promptConfirmer asks on out and reads one line from in. Only "y" or "yes"
// (any case) confirms.
type promptConfirmer struct {
	in  io.Reader
	out io.Writer
}

func (p promptConfirmer) Confirm(_ context.Context, orphans []staging.Orphan) (bool, error) {
	fmt.Fprintf(p.out, "Delete %d orphaned file(s)? [y/N]: ", len(orphans))
	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	return isAffirmative(line), nil
}

func isAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// newConfirmer picks the confirmation strategy. Input that is a file but not
// a terminal (a pipe or /dev/null) is refused unless --yes was given.
func newConfirmer(in io.Reader, out io.Writer, assumeYes bool) (staging.Confirmer, error) {
	if assumeYes {
		return staging.ConfirmFunc(func(context.Context, []staging.Orphan) (bool, error) { return true, nil }), nil
	}
	if file, ok := in.(*os.File); ok && !isTerminal(file) {
		return nil, errNotInteractive
	}
	return promptConfirmer{in: in, out: out}, nil
}

func isTerminal(file *os.File) bool {
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
