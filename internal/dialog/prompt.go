package dialog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"customid/internal/services"
)

// ErrCancelled is returned by Prompt when the user leaves the dialog.
var ErrCancelled = errors.New("dialog: cancelled")

const quitCommand = ":q"

// Prompt opens c for sceneID and reads the instance and ID from in until a
// submission completes or the user cancels with ":q" or end of input. An empty
// answer keeps the value currently shown in brackets.
func Prompt(ctx context.Context, c *Controller, sceneID string, in io.Reader, out io.Writer) (Result, error) {
	if err := c.Open(sceneID); err != nil {
		return Result{}, err
	}
	reader := bufio.NewReader(in)

	for {
		if err := ctx.Err(); err != nil {
			_ = c.Cancel()
			return Result{}, err
		}

		current := c.Fields()
		instance, ok := readField(reader, out, "Instance", current.Instance)
		if !ok {
			_ = c.Cancel()
			return Result{}, ErrCancelled
		}
		id, ok := readField(reader, out, "ID", current.StashID)
		if !ok {
			_ = c.Cancel()
			return Result{}, ErrCancelled
		}

		result, err := c.Submit(ctx, instance, id)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, services.ErrValidation) || c.State() == StateOpen {
			continue
		}
		return result, err
	}
}

func readField(reader *bufio.Reader, out io.Writer, label, current string) (string, bool) {
	if current != "" {
		fmt.Fprintf(out, "%s [%s]: ", label, current)
	} else {
		fmt.Fprintf(out, "%s: ", label)
	}
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(out)
		return "", false
	}
	value := strings.TrimSpace(line)
	if value == quitCommand {
		return "", false
	}
	if value == "" {
		return current, true
	}
	return value, true
}
