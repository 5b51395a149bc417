package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spec-kit/worker-directory/internal/view"
)

// DeleteOptions configures the delete command.
type DeleteOptions struct {
	Yes bool
}

// NewDeleteCommand builds `workerctl delete`.
func NewDeleteCommand(e *env) *cobra.Command {
	opts := &DeleteOptions{}

	cmd := &cobra.Command{
		Use:   "delete <internal-id>",
		Short: "Delete a worker",
		Long:  "Delete a worker by its internal ID after confirmation.",
		Example: `  workerctl delete 64f1c2e5a9
  workerctl delete 64f1c2e5a9 --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, e, opts, args[0])
		},
	}

	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Delete without confirmation")
	return cmd
}

func runDelete(cmd *cobra.Command, e *env, opts *DeleteOptions, id string) error {
	v := e.newView()
	if out := v.Load(cmd.Context()); !out.OK() {
		return fmt.Errorf("failed to load staff list: %w", out.Error())
	}

	var confirm view.Confirmer = view.Answer(true)
	if !opts.Yes {
		confirm = promptConfirmer(e.streams.In, e.streams.Out)
	}

	out := v.Delete(cmd.Context(), id, confirm)
	switch out.Kind {
	case view.OutcomeSucceeded:
		return nil
	case view.OutcomeCancelled:
		if out.Err != nil {
			return fmt.Errorf("failed to read confirmation: %w", out.Err)
		}
		fmt.Fprintln(e.streams.Out, "Operation cancelled")
		return nil
	default:
		if errors.Is(out.Err, view.ErrUnknownRecord) {
			return fmt.Errorf("no worker with internal ID %q", id)
		}
		return fmt.Errorf("failed to delete worker %s: %w", id, out.Error())
	}
}

// promptConfirmer asks on out and reads a y/N answer from in. End of input
// counts as no.
func promptConfirmer(in io.Reader, out io.Writer) view.Confirmer {
	reader := bufio.NewReader(in)
	return view.ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		reply, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		reply = strings.TrimSpace(strings.ToLower(reply))
		return reply == "y" || reply == "yes", nil
	})
}
