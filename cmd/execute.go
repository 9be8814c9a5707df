package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ComedicChimera/olive"
	"go.uber.org/zap"

	"regionc/config"
	"regionc/lower"
	"regionc/report"
)

// Version is the current version of regionc.
const Version = "0.1.0"

// Execute is the main entry point for the `regionc` CLI utility
func Execute() {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("regionc", "regionc lowers conditionals to region-based IR", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")

	lowerCmd := cli.AddSubcommand("lower", "lower the functions of a source file", true)
	lowerCmd.AddPrimaryArg("source-path", "the path to the source file to lower", true)
	lowerCmd.AddSelectorArg("emit", "e", "what to output for each function", false, config.EmitModes)
	lowerCmd.AddStringArg("profile", "p", "the path to the profile to lower with", false)
	lowerCmd.AddStringArg("up-to", "u", "the last pass to run", false)
	lowerCmd.AddFlag("debug", "d", "trace the passes and the branch runtime")

	cli.AddSubcommand("passes", "list the passes of the lowering pipeline", false)
	cli.AddSubcommand("version", "print the regionc version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.ReportFatal(err.Error())
	}

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "lower":
		if !execLowerCommand(subResult, result.Arguments["loglevel"].(string)) {
			os.Exit(1)
		}
	case "passes":
		report.ReportInfo("Passes", strings.Join(lower.Names(), " -> "))
	case "version":
		report.ReportInfo("regionc Version", Version)
	}
}

// execLowerCommand executes the lower subcommand and handles all errors.  It
// returns whether lowering succeeded.
func execLowerCommand(result *olive.ArgParseResult, loglevel string) bool {
	// get the primary argument: the source path
	srcPath, _ := result.PrimaryArg()

	// load the profile: either the one given or the one next to the source
	var prof *config.Profile
	var err error
	if profPath, ok := result.Arguments["profile"]; ok {
		prof, err = config.Load(profPath.(string))
	} else {
		prof, err = config.Find(filepath.Dir(srcPath))
	}

	if err != nil {
		report.ReportFatal("%s", err)
	}

	// command line arguments override the profile
	if emit, ok := result.Arguments["emit"]; ok {
		if err := prof.SetEmit(emit.(string)); err != nil {
			report.ReportFatal("%s", err)
		}
	}

	if upTo, ok := result.Arguments["up-to"]; ok {
		if err := prof.SetUpTo(upTo.(string)); err != nil {
			report.ReportFatal("%s", err)
		}
	}

	if prof.Path == "" || loglevel != "verbose" {
		prof.LogLevel = report.LogLevelNames[loglevel]
	}

	// initialize the reporter
	report.InitReporter(prof.LogLevel)

	c := NewCompiler(srcPath, prof, os.Stdout)

	if result.HasFlag("debug") {
		log, err := zap.NewDevelopment()
		if err != nil {
			report.ReportFatal("unable to create logger: %s", err)
		}
		defer log.Sync()

		lower.SetLogger(log)
		c.SetLogger(log)
	}

	return c.Run()
}
