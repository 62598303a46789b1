// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/mcptoggle/internal/errors"
)

// Sentinel errors for prompts.
var (
	ErrNoChoices    = errors.New("nothing to select from")
	ErrCancelled    = errors.New("selection cancelled")
	ErrInvalidInput = errors.New("invalid answer")
)

// Choice is one server offered by PickServers.
type Choice struct {
	Name    string
	Enabled bool
	// Detail is shown in the preview pane.
	Detail string
}

// Label returns the list line for the choice.
func (c Choice) Label() string {
	state := "off"
	if c.Enabled {
		state = "on "
	}
	return fmt.Sprintf("[%s] %s", state, c.Name)
}

type finder struct {
	one   func(labels []string, preview func(int) string, header string) (int, error)
	multi func(labels []string, preview func(int) string, header string) ([]int, error)
}

func fuzzyFinder() finder {
	opts := func(preview func(int) string, header string) []fuzzyfinder.Option {
		return []fuzzyfinder.Option{
			fuzzyfinder.WithHeader(header),
			fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
				if i == -1 || preview == nil {
					return ""
				}
				return preview(i)
			}),
		}
	}
	return finder{
		one: func(labels []string, preview func(int) string, header string) (int, error) {
			return fuzzyfinder.Find(labels, func(i int) string { return labels[i] }, opts(preview, header)...)
		},
		multi: func(labels []string, preview func(int) string, header string) ([]int, error) {
			return fuzzyfinder.FindMulti(labels, func(i int) string { return labels[i] }, opts(preview, header)...)
		},
	}
}

// Selector handles interactive prompts.
type Selector struct {
	reader io.Reader
	writer io.Writer
	find   finder
}

// NewSelector creates a new Selector using stdin and stdout.
func NewSelector() *Selector {
	return NewSelectorWithIO(os.Stdin, os.Stdout)
}

// NewSelectorWithIO creates a Selector with custom reader and writer for testing.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: r,
		writer: w,
		find:   fuzzyFinder(),
	}
}

// PickServers shows a fuzzy multi-select over choices and returns the names
// the user marked.
//
// Returns ErrNoChoices for an empty list and ErrCancelled if the user
// aborts with Esc or Ctrl+C.
func (s *Selector) PickServers(choices []Choice) ([]string, error) {
	if len(choices) == 0 {
		return nil, ErrNoChoices
	}

	labels := make([]string, len(choices))
	for i, c := range choices {
		labels[i] = c.Label()
	}

	idx, err := s.find.multi(labels, func(i int) string { return choices[i].Detail },
		"Tab marks servers to toggle, Enter applies")
	if err != nil {
		return nil, mapAbort(err)
	}

	names := make([]string, 0, len(idx))
	for _, i := range idx {
		names = append(names, choices[i].Name)
	}
	return names, nil
}

// PickOne shows a fuzzy single-select and returns the chosen index.
func (s *Selector) PickOne(header string, labels []string, preview func(int) string) (int, error) {
	if len(labels) == 0 {
		return -1, ErrNoChoices
	}
	i, err := s.find.one(labels, preview, header)
	if err != nil {
		return -1, mapAbort(err)
	}
	return i, nil
}

func mapAbort(err error) error {
	if errors.Is(err, fuzzyfinder.ErrAbort) {
		return ErrCancelled
	}
	return errors.Wrap(err, "interactive selection failed")
}

// Confirm asks a yes/no question. An empty answer returns def; EOF returns
// ErrCancelled.
func (s *Selector) Confirm(question string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Fprintf(s.writer, "%s [%s]: ", question, hint)

	input, err := bufio.NewReader(s.reader).ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || input == "") {
		if errors.Is(err, io.EOF) {
			return false, ErrCancelled
		}
		return false, errors.Wrap(err, "reading answer")
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, errors.Wrapf(ErrInvalidInput, "%q is not yes or no", strings.TrimSpace(input))
	}
}
