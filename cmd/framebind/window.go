package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/1broseidon/framebind/internal/ipc"
)

func printWindowUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  framebind window open [--title T] [--x N --y N --width N --height N]")
	fmt.Fprintln(w, "  framebind window close <id>")
	fmt.Fprintln(w, "  framebind window list")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'framebind window <command> --help' for command-specific options.")
}

func runWindow(args []string) int {
	if len(args) == 0 {
		printWindowUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printWindowUsage(os.Stdout)
		return 0
	}

	client := ipc.NewClient()

	switch args[0] {
	case "open":
		fs := flag.NewFlagSet("open", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: framebind window open [--title T] [--x N --y N --width N --height N]")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Register a logical window with the daemon. When no frame is free,")
			fmt.Fprintln(os.Stderr, "the daemon spawns one and attaches the window to it.")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Flags:")
			fs.PrintDefaults()
		}
		title := fs.String("title", "", "Window title")
		x := fs.Int("x", 0, "Preferred frame X position")
		y := fs.Int("y", 0, "Preferred frame Y position")
		width := fs.Int("width", 0, "Preferred frame width (0 = config default)")
		height := fs.Int("height", 0, "Preferred frame height (0 = config default)")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() != 0 {
			fmt.Fprintln(os.Stderr, "window open takes no arguments")
			fs.Usage()
			return 2
		}

		id, err := client.OpenWindow(*title, *x, *y, *width, *height)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("window_id: %d\n", id)
		return 0

	case "close":
		fs := flag.NewFlagSet("close", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: framebind window close <id>")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Detach a window from its frame and destroy the frame.")
		}
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "window close requires <id>")
			fs.Usage()
			return 2
		}

		id, err := strconv.ParseUint(fs.Arg(0), 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid window id: %s\n", fs.Arg(0))
			return 2
		}
		if err := client.CloseWindow(id); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: framebind window list")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "List registered windows and their attachment state.")
		}
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() != 0 {
			fmt.Fprintln(os.Stderr, "window list takes no arguments")
			fs.Usage()
			return 2
		}

		data, err := client.ListWindows()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if len(data.Windows) == 0 {
			fmt.Println("no windows registered")
			return 0
		}
		for _, w := range data.Windows {
			line := fmt.Sprintf("%d  %-10s", w.ID, w.State)
			if w.FrameID != 0 {
				line += fmt.Sprintf("  frame=0x%x", w.FrameID)
			}
			if w.Iconified {
				line += "  iconified"
			}
			if w.Title != "" {
				line += "  " + w.Title
			}
			fmt.Println(line)
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown window command: %s\n\n", args[0])
		printWindowUsage(os.Stderr)
		return 2
	}
}
