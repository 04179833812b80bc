// Promptcfg creates and edits prompt configurations and renders them as
// OpenAI, OpenRouter, Anthropic or LangChain-style request payloads. It
// never sends a request; payloads are printed or served to a preview host.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/germanamz/promptcfg/cmd/promptcfg/internal/styles"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&app{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, styles.ErrorBlockStyle.Render(err.Error()))
		stop()
		os.Exit(1)
	}
}
