// Command httpc sends one HTTP/1.0 request and prints the status code and body of the response.
//
//	httpc [-v] [METHOD] URL [name=value ...]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"httpc/application/http"
	"httpc/application/http/actor/client"
	"httpc/application/util/rule"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

const usage = "usage: httpc [-v] [METHOD] URL [name=value ...]"

var errUsage = errors.New(usage)

type invocation struct {
	method http.Method
	url    string
	form   http.Form
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("httpc", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	verbose := flags.Bool("v", false, "log every step to stderr")

	if err := flags.Parse(args); err != nil {
		fmt.Fprintln(stderr, usage)
		return 1
	}

	inv, err := parseArgs(flags.Args())
	if errors.Is(err, errUsage) {
		fmt.Fprintln(stderr, usage)
		return 1
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", err)
		return 1
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if inv.method == http.MethodGet && len(inv.form) > 0 {
		logger.Warn("form parameters are ignored for GET", slog.Int("count", len(inv.form)))
	}

	c := client.NewTCP(logger, clock.New(), client.DefaultOptions)

	res, err := c.Execute(ctx, inv.url, inv.method, inv.form)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", err)
		return 1
	}

	fmt.Fprintln(stdout, res.StatusCode)
	fmt.Fprintln(stdout, res.Body)

	return 0
}

// parseArgs reads "[METHOD] URL [name=value ...]".
// The method defaults to GET when the first argument is not a word.
func parseArgs(args []string) (invocation, error) {
	if len(args) == 0 {
		return invocation{}, errUsage
	}

	inv := invocation{method: http.MethodGet}

	// A URL always has a scheme followed by ':', so a word made of letters
	// only can't be one and is taken as the method.
	if isWord(args[0]) {
		method, err := http.ParseMethod(args[0])
		if err != nil {
			return invocation{}, err
		}
		inv.method = method
		args = args[1:]
		if len(args) == 0 {
			return invocation{}, errUsage
		}
	}

	inv.url = args[0]

	for _, param := range args[1:] {
		name, value, found := strings.Cut(param, "=")
		if !found || name == "" {
			return invocation{}, errors.Errorf("invalid parameter %q, expected name=value", param)
		}
		inv.form.Add(name, value)
	}

	return inv, nil
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for idx := 0; idx < len(s); idx++ {
		if !rule.IsAlpha(rune(s[idx])) {
			return false
		}
	}
	return true
}
