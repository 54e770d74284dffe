// Package shell runs the numbered menu loop over a CatService.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"dbtools/internal/service"
)

const menu = `1) list all cats
2) find cat by name
3) create cat
4) update age by name
5) add feature by name
6) delete cat by name
7) delete all cats
0) exit
`

// Shell reads menu selections from in and dispatches them to the cat service.
type Shell struct {
	svc    service.CatService
	in     io.Reader
	out    io.Writer
	logger *zap.Logger

	lines chan string
	errc  chan error
}

// New constructs a Shell.
func New(svc service.CatService, in io.Reader, out io.Writer, logger *zap.Logger) *Shell {
	return &Shell{svc: svc, in: in, out: out, logger: logger}
}

// Run loops until the user selects 0, input ends, or ctx is cancelled.
// Only a failure to read input is returned.
func (s *Shell) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.startReader(ctx)

	s.logger.Info("shell_start")
	for {
		fmt.Fprint(s.out, menu)
		choice, ok := s.prompt(ctx, "choose: ")
		if !ok {
			return s.stop(ctx)
		}

		switch choice {
		case "0":
			fmt.Fprintln(s.out, "bye")
			s.logger.Info("shell_exit")
			return nil
		case "1":
			s.svc.ListAll(ctx)
		case "2":
			if name, ok := s.prompt(ctx, "name: "); ok && name != "" {
				s.svc.FindByName(ctx, name)
			}
		case "3":
			s.create(ctx)
		case "4":
			s.updateAge(ctx)
		case "5":
			s.addFeature(ctx)
		case "6":
			if name, ok := s.prompt(ctx, "name: "); ok && name != "" {
				s.svc.Delete(ctx, name)
			}
		case "7":
			answer, ok := s.prompt(ctx, "type yes to confirm: ")
			if !ok {
				continue
			}
			if answer != "yes" {
				fmt.Fprintln(s.out, "cancelled")
				continue
			}
			s.svc.DeleteAll(ctx)
		default:
			s.logger.Debug("shell_unknown_choice", zap.String("choice", choice))
		}
	}
}

// create, updateAge and addFeature read every follow-up answer before a blank
// name or feature skips the call, so no answer is left over for the menu prompt.
func (s *Shell) create(ctx context.Context) {
	name, ok := s.prompt(ctx, "name: ")
	if !ok {
		return
	}
	age, ok := s.promptInt(ctx, "age: ")
	if !ok {
		return
	}
	raw, ok := s.prompt(ctx, "features (comma separated): ")
	if !ok || name == "" {
		return
	}
	s.svc.Create(ctx, name, age, ParseFeatures(raw))
}

func (s *Shell) updateAge(ctx context.Context) {
	name, ok := s.prompt(ctx, "name: ")
	if !ok {
		return
	}
	age, ok := s.promptInt(ctx, "new age: ")
	if !ok || name == "" {
		return
	}
	s.svc.UpdateAge(ctx, name, age)
}

func (s *Shell) addFeature(ctx context.Context) {
	name, ok := s.prompt(ctx, "name: ")
	if !ok {
		return
	}
	feature, ok := s.prompt(ctx, "feature: ")
	if !ok || name == "" || feature == "" {
		return
	}
	s.svc.AddFeature(ctx, name, feature)
}

// stop reports why the loop ended once input is no longer available.
func (s *Shell) stop(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.Info("shell_interrupted")
		return nil
	}
	select {
	case err := <-s.errc:
		return fmt.Errorf("read input: %w", err)
	default:
	}
	s.logger.Info("shell_eof")
	return nil
}

// prompt prints label and returns the next trimmed line.
// ok is false when input ended or ctx was cancelled.
func (s *Shell) prompt(ctx context.Context, label string) (string, bool) {
	fmt.Fprint(s.out, label)
	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-s.lines:
		if !ok {
			return "", false
		}
		return strings.TrimSpace(line), true
	}
}

// promptInt re-prompts until the input parses as an integer.
func (s *Shell) promptInt(ctx context.Context, label string) (int, bool) {
	for {
		raw, ok := s.prompt(ctx, label)
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(raw)
		if err == nil {
			return n, true
		}
		fmt.Fprintln(s.out, "enter integer")
	}
}

// startReader feeds input lines into s.lines until EOF or ctx is done.
// A blocked read on a terminal cannot be interrupted, so the goroutine may
// outlive Run; it never sends after ctx is done.
func (s *Shell) startReader(ctx context.Context) {
	s.lines = make(chan string)
	s.errc = make(chan error, 1)

	go func() {
		defer close(s.lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case s.lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			s.errc <- err
		}
	}()
}

// ParseFeatures splits a comma separated list, trimming entries and dropping blanks.
func ParseFeatures(raw string) []string {
	features := []string{}
	for _, part := range strings.Split(raw, ",") {
		if f := strings.TrimSpace(part); f != "" {
			features = append(features, f)
		}
	}
	return features
}
