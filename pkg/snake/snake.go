// Package snake holds the interactive prompts behind the -i flags.
package snake

import (
	"errors"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

// ErrNoChoices is returned when there is nothing to pick from.
var ErrNoChoices = errors.New("snake: nothing to choose from")

// Choice is one row of a Select prompt.
type Choice struct {
	Name   string
	Detail string
}

// Select asks the user to pick one choice and returns its index.
func Select(in io.Reader, out io.Writer, label string, choices []Choice) (int, error) {
	if len(choices) == 0 {
		return -1, ErrNoChoices
	}
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "➜  {{ .Name | bold }} {{ .Detail | green }}",
		Inactive: "   {{ .Name }} {{ .Detail | cyan }}",
		Selected: "{{ .Name | bold }}",
	}
	prompt := promptui.Select{
		HideHelp:  true,
		Label:     label,
		Items:     choices,
		Templates: templates,
		Size:      10,
		Searcher:  Searcher(choices),
		Stdin:     io.NopCloser(in),
		Stdout:    NopCloser(out),
	}
	i, _, err := prompt.Run()
	return i, err
}

// Searcher matches input against name and detail, ignoring case and spaces.
func Searcher(choices []Choice) func(input string, index int) bool {
	return func(input string, index int) bool {
		c := choices[index]
		hay := squash(c.Name + c.Detail)
		return strings.Contains(hay, squash(input))
	}
}

func squash(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "")
}

// PromptNext lets the user pick one of cmd's subcommands and runs it with
// args.
func PromptNext(cmd *cobra.Command, args []string) error {
	var subs []*cobra.Command
	var choices []Choice
	for _, c := range cmd.Commands() {
		if !c.IsAvailableCommand() {
			continue
		}
		subs = append(subs, c)
		choices = append(choices, Choice{Name: c.Name(), Detail: c.Short})
	}
	i, err := Select(cmd.InOrStdin(), cmd.OutOrStdout(), "Commands", choices)
	if err != nil {
		return err
	}
	next := subs[i]
	if next.HasAvailableSubCommands() {
		return PromptNext(next, args)
	}
	if next.RunE != nil {
		return next.RunE(next, args)
	}
	if next.Run != nil {
		next.Run(next, args)
		return nil
	}
	return next.Help()
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// NopCloser adapts w to the WriteCloser promptui wants.
func NopCloser(w io.Writer) io.WriteCloser {
	return nopCloser{w}
}
