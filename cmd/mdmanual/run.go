package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	mdmanual "github.com/alnah/go-mdmanual"
	"github.com/alnah/go-mdmanual/internal/config"
	"github.com/alnah/go-mdmanual/internal/hints"
)

// Command names.
const (
	cmdSite    = "site"
	cmdManual  = "manual"
	cmdBuild   = "build"
	cmdOutline = "outline"
	cmdDoctor  = "doctor"
	cmdVersion = "version"
	cmdHelp    = "help"
)

// ErrUsage reports invalid command-line usage.
var ErrUsage = errors.New("invalid usage")

// commandFunc runs one build command with parsed flags.
type commandFunc func(ctx context.Context, f *commandFlags, env *Environment) error

// buildCommands maps the flag-driven commands to their implementation.
var buildCommands = map[string]commandFunc{
	cmdSite:    runSite,
	cmdManual:  runManual,
	cmdBuild:   runBuild,
	cmdOutline: runOutline,
}

// isCommand reports whether name is a known command.
func isCommand(name string) bool {
	if _, ok := buildCommands[name]; ok {
		return true
	}
	return name == cmdDoctor || name == cmdVersion || name == cmdHelp
}

// runMain dispatches args[1] and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case cmdVersion:
		fmt.Fprintf(env.Stdout, "go-mdmanual %s\n", Version)
		return ExitSuccess
	case cmdHelp:
		return runHelp(rest, env)
	case cmdDoctor:
		return runDoctorCmd(rest, env)
	}

	run, ok := buildCommands[cmd]
	if !ok {
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	f, err := parseCommandFlags(cmd, rest, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := run(ctx, f, env); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, mdmanual.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(searchedPaths(err))
	case errors.Is(err, mdmanual.ErrWriteOutput):
		return hints.ForOutputDirectory()
	case errors.Is(err, mdmanual.ErrTemplate):
		return hints.ForTemplate()
	case errors.Is(err, mdmanual.ErrHeadingLookupMiss):
		return hints.ForHeadingLookupMiss()
	case errors.Is(err, mdmanual.ErrEmptyPublicationOrder), errors.Is(err, mdmanual.ErrSectionNotFound):
		return hints.ForPublicationOrder()
	}
	return ""
}

// searchedPaths extracts the "tried a, b" list of a config lookup failure.
func searchedPaths(err error) []string {
	_, tried, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(tried, ", ")
}
