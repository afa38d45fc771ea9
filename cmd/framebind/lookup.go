package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/1broseidon/framebind/internal/config"
	"github.com/1broseidon/framebind/internal/directory"
	"github.com/1broseidon/framebind/internal/ipc"
)

func runLookup(args []string) int {
	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: framebind lookup [--limit N] [--reachable] <query>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Query the contact directory by name or email substring.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	limit := fs.Int("limit", 0, "Maximum entries to return (0 = config default)")
	reachable := fs.Bool("reachable", false, "Only contacts with an email or phone")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "lookup requires <query>")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	entries, err := client.Lookup(fs.Arg(0), *limit, *reachable)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(entries) == 0 {
		fmt.Println("no matches")
		return 0
	}
	for _, entry := range entries {
		fmt.Println(entry)
	}
	return 0
}

func printContactUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  framebind contact add [--email E] [--phone P] <name>")
}

// runContact operates on the directory database directly so contacts can
// be managed without a running daemon.
func runContact(args []string) int {
	if len(args) == 0 {
		printContactUsage()
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printContactUsage()
		return 0
	}

	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("add", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: framebind contact add [--email E] [--phone P] <name>")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Add a contact to the directory database.")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Flags:")
			fs.PrintDefaults()
		}
		email := fs.String("email", "", "Contact email")
		phone := fs.String("phone", "", "Contact phone")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "contact add requires <name>")
			fs.Usage()
			return 2
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		store, err := directory.Open(cfg.Directory.Database)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer store.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		rec, err := store.Add(ctx, directory.Record{
			Name:  fs.Arg(0),
			Email: *email,
			Phone: *phone,
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("contact_id: %s\n", rec.ID)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown contact command: %s\n\n", args[0])
		printContactUsage()
		return 2
	}
}
