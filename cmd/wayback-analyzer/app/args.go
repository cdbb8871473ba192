package app

import (
	"strings"

	"github.com/urfave/cli"
)

// reorderArgs moves flags ahead of positional arguments so that
// "wayback-analyzer <url> --max-depth 2" parses like "--max-depth 2 <url>".
// cli stops flag parsing at the first positional argument.
func reorderArgs(flags []cli.Flag, args []string) []string {
	if len(args) < 2 {
		return args
	}

	boolFlags := map[string]bool{"help": true, "h": true}
	for _, flag := range flags {
		switch f := flag.(type) {
		case cli.BoolFlag:
			addFlagNames(boolFlags, f.Name)
		case cli.BoolTFlag:
			addFlagNames(boolFlags, f.Name)
		}
	}

	options := make([]string, 0, len(args))
	positional := make([]string, 0, len(args))

	for i := 1; i < len(args); i++ {
		arg := args[i]

		if arg == "--" {
			positional = append(positional, args[i+1:]...)

			break
		}

		if len(arg) < 2 || !strings.HasPrefix(arg, "-") {
			positional = append(positional, arg)

			continue
		}

		options = append(options, arg)

		name := strings.TrimLeft(arg, "-")
		if strings.Contains(name, "=") || boolFlags[name] {
			continue
		}

		if i+1 < len(args) {
			i++
			options = append(options, args[i])
		}
	}

	reordered := make([]string, 0, len(args)+1)
	reordered = append(reordered, args[0])
	reordered = append(reordered, options...)
	if len(positional) > 0 {
		reordered = append(reordered, "--")
		reordered = append(reordered, positional...)
	}

	return reordered
}

func addFlagNames(names map[string]bool, spec string) {
	for _, name := range strings.Split(spec, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names[name] = true
		}
	}
}
