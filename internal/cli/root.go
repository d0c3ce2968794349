package cli

import (
	"context"
	"os"
)

// Execute runs the baseline CLI with ctx and returns an error if any command
// fails. This is the main entry point for the CLI application.
//
// Logging goes to stderr at info level, debug with --verbose (-v). The
// logger is attached to the context and accessible to all commands via
// loggerFromContext.
//
// Example:
//
//	func main() {
//	    ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	    defer cancel()
//	    if err := cli.Execute(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context) error {
	return New(os.Stderr, LogInfo).RootCommand().ExecuteContext(ctx)
}
