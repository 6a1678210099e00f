// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the fuzzy word completion server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

FuzzWord completes the word typed before a cursor from a word list. A query
matches every word that holds its characters in order, not necessarily next to
each other: "oar" completes to "leopard" and "dinosaur". Matches rank by where
they start, then by how compact they are.

# Usage

Start the server with a word list:

	fuzzword -words words.txt

Use a directory of binary chunks and enable debug mode:

	fuzzword -words /path/to/chunks -d

Run in CLI mode for interactive testing:

	fuzzword -c -words words.txt -limit 10

Word lists are text files with one word per line, optionally followed by a tab
and a metadata string, or directories of dict_0001.bin, dict_0002.bin, ... chunk
files.

# Configuration

Runtime configuration lives in a TOML file:

	[server]
	max_limit = 64
	min_query = 0
	max_query = 60

	[match]
	sort_results = true
	word_boundaries = "narrow"

	[dict]
	path = ""
	alphabetical = false

	[cli]
	default_limit = 24
	no_color = false

The config file is created with defaults if it doesn't exist. Flags override it.
Server mode reloads the file periodically without a restart.

# IPC Protocol

The server speaks MessagePack over stdin/stdout, see package server:

	{"id": "req1", "q": "oar", "l": 20}
	{"id": "req1", "q": "oar", "s": [{"w": "leopard", "r": 1, "d": 3, "sp": [...]}], "c": 1, "t": 45}

# Command Line Flags

	-words string
	    Word list file or chunk directory (default from config)
	-config string
	    Path to a config file
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of suggestions to show in CLI mode
	-broad
	    Treat any non-whitespace run before the cursor as the query
	-nosort
	    Keep word list order instead of ranking matches
	-alpha
	    Serve words alphabetically instead of in file order
	-nocolor
	    Disable highlighting in CLI mode
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/fuzzword/internal/cli"
	"github.com/bastiangx/fuzzword/internal/logger"
	"github.com/bastiangx/fuzzword/internal/utils"
	"github.com/bastiangx/fuzzword/pkg/complete"
	"github.com/bastiangx/fuzzword/pkg/config"
	"github.com/bastiangx/fuzzword/pkg/dictionary"
	"github.com/bastiangx/fuzzword/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0-beta"
	AppName = "fuzzword"
	gh      = "https://github.com/bastiangx/fuzzword"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires config, vocabulary and the chosen front end together.
// It does not implement any matching logic itself.
func main() {
	sigHandler()
	defaults := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	configFlag := flag.String("config", "", "Path to config file")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")

	var flags cliFlags
	flag.StringVar(&flags.words, "words", "", "Word list file or directory of dict_*.bin chunks")
	flag.IntVar(&flags.limit, "limit", defaults.CLI.DefaultLimit, "Number of suggestions to show in CLI mode")
	flag.BoolVar(&flags.broad, "broad", false, "Use any non-whitespace run before the cursor as the query")
	flag.BoolVar(&flags.noSort, "nosort", false, "Keep word list order instead of ranking matches")
	flag.BoolVar(&flags.alpha, "alpha", false, "Serve words in alphabetical order")
	flag.BoolVar(&flags.noColor, "nocolor", false, "Disable match highlighting in CLI mode")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}
	log.SetOutput(os.Stderr)

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}

	var appConfig *config.Config
	configPath := *configFlag
	if configPath != "" {
		appConfig, configPath, err = config.LoadConfigWithPriority(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	} else {
		configPath, err = pathResolver.GetConfigPath("config.toml")
		if err != nil {
			log.Fatalf("Failed to determine config path: (%v)", err)
		}
		appConfig, err = config.InitConfig(configPath)
		if err != nil {
			log.Warnf("Failed to load config at %s: %v. Using builtin defaults...", configPath, err)
			appConfig = config.DefaultConfig()
			configPath = ""
		}
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(configPath))

	// flags win over the config file, also after the server reloads it
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	overrides := flags.overrides(set)
	overrides.Apply(appConfig)
	if err := appConfig.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	vocab := dictionary.NewVocabulary(appConfig.Dict.Alphabetical)
	if appConfig.Dict.Path != "" {
		resolved, err := pathResolver.ResolveWordsPath(appConfig.Dict.Path)
		if err != nil {
			log.Fatalf("Word list not found: %s", appConfig.Dict.Path)
		}
		n, err := dictionary.LoadPath(resolved, vocab)
		if err != nil {
			log.Fatalf("Failed to load word list: %v", err)
		}
		log.Debugf("Loaded %d words from %s", n, resolved)
	} else {
		log.Warn("No word list specified, running with empty vocabulary...")
	}

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		log.SetReportTimestamp(false)
		opts, err := appConfig.CompleterOptions()
		if err != nil {
			log.Fatalf("Invalid match config: %v", err)
		}
		log.Debug("Input info:",
			"limit", appConfig.CLI.DefaultLimit,
			"sort", opts.SortResults,
			"boundary", opts.Boundary)

		completer := complete.New(vocab.Words, vocab.Meta, opts)
		inputHandler := cli.NewInputHandler(completer, appConfig.CLI.DefaultLimit, appConfig.CLI.NoColor)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv, err := server.NewServer(vocab, appConfig, configPath)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	srv.SetOverrides(overrides)

	showStartupInfo(vocab.Len())

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// cliFlags are the flags that take precedence over the config file.
type cliFlags struct {
	words   string
	limit   int
	broad   bool
	noSort  bool
	alpha   bool
	noColor bool
}

// overrides converts the flags named in set, the ones given on the command
// line, into config overrides. Flags left out do not touch the config.
func (f cliFlags) overrides(set map[string]bool) config.Overrides {
	var o config.Overrides
	if set["broad"] {
		boundary := complete.BoundaryNarrow.String()
		if f.broad {
			boundary = complete.BoundaryBroad.String()
		}
		o.WordBoundaries = &boundary
	}
	if set["nosort"] {
		sortResults := !f.noSort
		o.SortResults = &sortResults
	}
	if set["alpha"] {
		o.Alphabetical = &f.alpha
	}
	if set["words"] {
		o.DictPath = &f.words
	}
	if set["limit"] {
		o.DefaultLimit = &f.limit
	}
	if set["nocolor"] {
		o.NoColor = &f.noColor
	}
	return o
}

// printVersion shows a styled version banner.
func printVersion() {
	banner := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ FuzzWord ] Fuzzy word completions, ranked!")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(words int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Info("===========")
	log.Infof("%s %s", AppName, Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("words: %s", utils.FormatWithCommas(words))
	log.Info("status: ready")
	log.Info("===========")

	log.SetLevel(currentLevel)
}
