// Command psxdmh extracts music, tracks, and raw patches from the
// PlayStation Doom / Final Doom WMD/LCD data files into WAV files.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/benmichell/psxdmh/internal/options"
)

type command interface {
	Name() string
	Help() string
	Run() error
	Register(*flag.FlagSet)
	SetBaseOptions(options.Options)
}

type config struct {
	args []string
}

func (c *config) run() int {
	cmdName, args := parseArgs(c.args)
	if cmdName == "" {
		printUsage()
		return errorExitCode
	}

	for _, cmd := range commands {
		if cmd.Name() != cmdName {
			continue
		}

		base := options.Default()
		if path := scanConfigFlag(args); path != "" {
			loaded, err := options.LoadFile(path, base)
			if err != nil {
				fmt.Fprintf(os.Stderr, "psxdmh %s: %v\n", cmdName, err)
				return errorExitCode
			}
			base = loaded
		}
		cmd.SetBaseOptions(base)

		flags := flag.NewFlagSet(cmdName, flag.ExitOnError)
		flags.String("config", "", "path to a YAML file overriding default options")
		cmd.Register(flags)
		if err := flags.Parse(args); err != nil {
			flags.PrintDefaults()
			return errorExitCode
		}
		if err := cmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "psxdmh %s: %v\n", cmdName, err)
			return errorExitCode
		}
		return successExitCode
	}

	fmt.Fprintf(os.Stderr, "psxdmh: unknown command %q\n", cmdName)
	printUsage()
	return errorExitCode
}

var (
	successExitCode = 0
	errorExitCode   = 1
	commands        []command
)

func main() {
	commands = []command{
		&songCommand{},
		&trackCommand{},
		&patchCommand{},
		&listCommand{},
	}
	c := config{args: os.Args}
	os.Exit(c.run())
}

func parseArgs(args []string) (string, []string) {
	if len(args) < 2 {
		return "", nil
	}
	return args[1], args[2:]
}

func printUsage() {
	fmt.Println("psxdmh extracts music, tracks, and patches from PSX Doom data files")
	fmt.Println()
	fmt.Println("Usage: psxdmh <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	for _, cmd := range commands {
		fmt.Printf("\t%s\t%s\n", cmd.Name(), cmd.Help())
	}
}
