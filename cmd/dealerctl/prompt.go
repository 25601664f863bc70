package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"solar-dealer-hub/internal/client"
)

// stderrNotifier prints one line per failure.
type stderrNotifier struct {
	w io.Writer
}

func (n *stderrNotifier) Notify(msg string, err error) {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Message != "":
		fmt.Fprintf(n.w, "error: %s: %s (HTTP %d)\n", msg, apiErr.Message, apiErr.Status)
	case err != nil:
		fmt.Fprintf(n.w, "error: %s: %v\n", msg, err)
	default:
		fmt.Fprintf(n.w, "error: %s\n", msg)
	}
}

// promptConfirmer asks on out and reads y/N from in. Anything but y or yes is a no.
type promptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func (c *promptConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(c.out, "%s [y/N] ", prompt)
	answer, err := c.in.ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
