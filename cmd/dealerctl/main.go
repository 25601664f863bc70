// Command dealerctl is a terminal admin tool for the dealer hub API.
//
//	dealerctl [-server URL] [-o table|json|yaml] <command> [flags] [args]
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"

	"solar-dealer-hub/internal/client"

	"github.com/spf13/viper"
)

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"login":            {"login -u <username> [-p <password>]", runLogin},
	"logout":           {"logout", runLogout},
	"whoami":           {"whoami", runWhoami},
	"inventory":        {"inventory [-brand B] [-technology T] [-wattage W] [-state ID] [-cluster ID] [-search S]", runInventory},
	"orders":           {"orders [-status S] [-supplier ID] [-state ID] [-search S]", runOrders},
	"order-create":     {"order-create -supplier ID -item productId:qty[:price]... [-state ID] [-notes N]", runOrderCreate},
	"order-delete":     {"order-delete <id>", runOrderDelete},
	"professions":      {"professions [-state ID]", runProfessions},
	"pipeline":         {"pipeline [-category C] [-cp NAME] [-search S]", runPipeline},
	"export-inventory": {"export-inventory [-brand B] [-technology T] <file.xlsx|file.csv>", runExportInventory},
	"ask":              {"ask <question>", runAsk},
}

// errSilent marks a failure the user has already been told about.
var errSilent = errors.New("already reported")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	v := viper.New()
	v.SetEnvPrefix("DEALERCTL")
	v.AutomaticEnv()
	v.SetDefault("server", "http://localhost:8080")
	v.SetDefault("session", client.DefaultSessionPath())
	v.SetDefault("output", "table")

	fs := flag.NewFlagSet("dealerctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	server := fs.String("server", v.GetString("server"), "API base URL (DEALERCTL_SERVER)")
	sessionPath := fs.String("session", v.GetString("session"), "session file (DEALERCTL_SESSION)")
	format := fs.String("o", v.GetString("output"), "output format: table, json or yaml")
	fs.Usage = func() { usage(fs) }
	if err := fs.Parse(argv); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cmd, ok := commands[fs.Arg(0)]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", fs.Arg(0))
		fs.Usage()
		return 2
	}
	p, err := newPrinter(*format, stdout)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	session, err := client.LoadSession(*sessionPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	in := bufio.NewReader(stdin)
	a := &app{
		client:      client.New(*server, session),
		sessionPath: *sessionPath,
		print:       p,
		notify:      &stderrNotifier{w: stderr},
		confirm:     &promptConfirmer{in: in, out: stderr},
		in:          in,
		stderr:      stderr,
	}
	if err := cmd.run(ctx, a, fs.Args()[1:]); err != nil {
		if !errors.Is(err, errSilent) {
			a.notify.Notify(fs.Arg(0)+" failed", err)
		}
		return 1
	}
	return 0
}

func usage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintln(out, "usage: dealerctl [flags] <command> [args]")
	fmt.Fprintln(out, "\ncommands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %s\n", commands[name].usage)
	}
	fmt.Fprintln(out, "\nflags:")
	fs.PrintDefaults()
}
