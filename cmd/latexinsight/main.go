// Command latexinsight runs the LaTeX structural analyses from the shell.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"latex-insight/internal/logger"
	"latex-insight/internal/types"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	_ = logger.Close()
	if err != nil {
		os.Exit(report(err))
	}
}

// report prints err and returns the exit status. Findings were already
// printed by the command.
func report(err error) int {
	if errors.Is(err, errFindings) {
		return 1
	}
	var appErr *types.AppError
	if errors.As(err, &appErr) {
		fmt.Fprintf(os.Stderr, "latexinsight: [%s] %v\n", appErr.Code, appErr)
		if appErr.Code == types.ErrInvalidInput {
			return 2
		}
		return 1
	}
	fmt.Fprintf(os.Stderr, "latexinsight: %v\n", err)
	return 1
}
