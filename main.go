package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/op/go-logging"

	"github.com/YiRanMushroom/jsonkit/internal/config"
	"github.com/YiRanMushroom/jsonkit/internal/dumper"
	"github.com/YiRanMushroom/jsonkit/internal/errors"
	"github.com/YiRanMushroom/jsonkit/internal/lexer"
	"github.com/YiRanMushroom/jsonkit/internal/mapping"
	"github.com/YiRanMushroom/jsonkit/internal/parser"
	"github.com/YiRanMushroom/jsonkit/internal/value"
)

var log = logging.MustGetLogger("jsonkit")

var logFormat = logging.MustStringFormatter(
	`%{time:15:04:05.000} [%{shortfunc}] [%{level}] %{message}`,
)

// CLI defines the command-line interface
type CLI struct {
	Config  string           `help:"Path to a config file. Defaults to the nearest .jsonkit.yml." type:"path"`
	Debug   bool             `help:"Enable debug logging." short:"d"`
	Version kong.VersionFlag `help:"Show version information." short:"v"`

	Format FormatCmd `cmd:"" help:"Parse a JSON file and print it re-indented."`
	Tokens TokensCmd `cmd:"" help:"Print the token stream of a JSON file, one token per line."`
	Check  CheckCmd  `cmd:"" help:"Parse JSON files and report which ones are valid."`

	ShowConfig ShowConfigCmd `cmd:"" help:"Print the effective configuration as JSON, keyed by the mapping settings."`
}

// FormatCmd re-dumps one document.
type FormatCmd struct {
	File     string `arg:"" help:"JSON file to format." type:"path"`
	Output   string `help:"Write to this file instead of stdout." short:"o" type:"path"`
	Indent   int    `help:"Spaces per indentation level." short:"n" default:"-1"`
	NoEscape bool   `help:"Write non-ASCII characters as they are."`
	Compact  bool   `help:"Write the document on a single line." short:"c"`
	Color    string `help:"Colorize output: auto, always or never."`
	MaxDepth int    `help:"Deepest nesting accepted by the parser."`
}

// TokensCmd prints the lexer output.
type TokensCmd struct {
	File    string `arg:"" help:"JSON file to tokenize." type:"path"`
	Lenient bool   `help:"Report malformed elements as error tokens and keep going."`
}

// CheckCmd validates documents.
type CheckCmd struct {
	Files    []string `arg:"" help:"JSON files to check."`
	MaxDepth int      `help:"Deepest nesting accepted by the parser."`
}

// ShowConfigCmd dumps the loaded configuration.
type ShowConfigCmd struct{}

// Context holds the runtime context
type Context struct {
	Debug      bool
	ConfigPath string
	Stdout     io.Writer
	Stderr     io.Writer
	// Terminal reports whether Stdout is an interactive terminal.
	Terminal bool
}

// Version information
const (
	Version = "0.1.0"
)

type exitCode int

func main() {
	ctx := &Context{
		Stdout:   colorable.NewColorableStdout(),
		Stderr:   colorable.NewColorableStderr(),
		Terminal: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}
	os.Exit(execute(os.Args[1:], ctx))
}

// execute parses args, runs the selected command and returns the process
// exit code. Help and version output stop early with code 0.
func execute(args []string, ctx *Context) (code int) {
	var cli CLI
	app, err := kong.New(&cli,
		kong.Name("jsonkit"),
		kong.Description("Parse, inspect and re-format JSON documents"),
		kong.UsageOnError(),
		kong.Writers(ctx.Stdout, ctx.Stderr),
		kong.Exit(func(c int) { panic(exitCode(c)) }),
		kong.Vars{"version": fmt.Sprintf("jsonkit version %s", Version)},
	)
	if err != nil {
		fmt.Fprintf(ctx.Stderr, "%s\n", err)
		return 1
	}

	defer func() {
		if r := recover(); r != nil {
			c, ok := r.(exitCode)
			if !ok {
				panic(r)
			}
			code = int(c)
		}
	}()

	kctx, err := app.Parse(args)
	if err != nil {
		fmt.Fprintf(ctx.Stderr, "jsonkit: %s\n", err)
		fmt.Fprintf(ctx.Stderr, "\nFor help, run: jsonkit --help\n")
		return 1
	}

	ctx.Debug = cli.Debug
	ctx.ConfigPath = cli.Config
	setupLogging(ctx.Stderr, ctx.Debug)

	if err := kctx.Run(ctx); err != nil {
		// Use our custom error handling to provide user-friendly error messages
		fmt.Fprintf(ctx.Stderr, "%s\n", errors.UserFriendlyError(err))
		return 1
	}
	return 0
}

func setupLogging(w io.Writer, debug bool) {
	backend := logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), logFormat)
	leveled := logging.AddModuleLevel(backend)
	level := logging.INFO
	if debug {
		level = logging.DEBUG
	}
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)
}

// loadConfig resolves the config file and applies command-line overrides.
func (ctx *Context) loadConfig(o config.Overrides) (*config.Config, error) {
	path := ctx.ConfigPath
	if path == "" {
		path = config.FindConfigFile()
	}
	o.Debug = ctx.Debug

	cfg, err := config.LoadConfigWithCLI(path, o)
	if err != nil {
		return nil, err
	}
	if cfg.Dev.Debug && !ctx.Debug {
		setupLogging(ctx.Stderr, true)
	}
	if path != "" {
		log.Debugf("using config file %s", path)
	}
	return cfg, nil
}

func (f *FormatCmd) overrides() config.Overrides {
	var o config.Overrides
	if f.Indent >= 0 {
		o.Indent = &f.Indent
	}
	if f.NoEscape {
		escape := false
		o.Escape = &escape
	}
	if f.Compact {
		o.Compact = &f.Compact
	}
	if f.Color != "" {
		mode := config.ColorMode(f.Color)
		o.Color = &mode
	}
	if f.MaxDepth > 0 {
		o.MaxDepth = &f.MaxDepth
	}
	return o
}

// Run parses the file and writes it back out with the configured layout.
func (f *FormatCmd) Run(ctx *Context) error {
	cfg, err := ctx.loadConfig(f.overrides())
	if err != nil {
		return err
	}

	doc, err := parser.ParseFileWithOptions(f.File, parser.Options{MaxDepth: cfg.Parse.MaxDepth})
	if err != nil {
		return err
	}
	log.Debugf("parsed %s: top-level %s", f.File, doc.Kind())

	opts := dumper.Options{
		Indent:  cfg.Dump.Indent,
		Escape:  cfg.Dump.EscapeStrings,
		Compact: cfg.Dump.Compact,
	}
	if f.Output != "" {
		if cfg.Dump.Color == config.ColorAlways {
			opts.Colorizer = dumper.DefaultColorizer
		}
		return writeFile(f.Output, doc, opts)
	}
	opts.Colorizer = colorizerFor(cfg.Dump.Color, ctx.Terminal)
	return writeOutput(ctx.Stdout, doc, opts)
}

func colorizerFor(mode config.ColorMode, terminal bool) *dumper.Colorizer {
	switch mode {
	case config.ColorAlways:
		return dumper.DefaultColorizer
	case config.ColorNever:
		return nil
	}
	if terminal {
		return dumper.DefaultColorizer
	}
	return nil
}

// writeOutput writes the document followed by a newline
func writeOutput(w io.Writer, doc *value.Value, opts dumper.Options) error {
	if err := dumper.Write(w, doc, opts); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

func writeFile(path string, doc *value.Value, opts dumper.Options) error {
	text := dumper.DumpWithOptions(doc, opts) + "\n"
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", path), err)
	}
	log.Infof("formatted JSON written to %s", path)
	return nil
}

// Run prints every token. In strict mode the tokens before the first
// malformed element are printed and the lexer error is returned.
func (t *TokensCmd) Run(ctx *Context) error {
	var o config.Overrides
	if t.Lenient {
		o.Lenient = &t.Lenient
	}
	cfg, err := ctx.loadConfig(o)
	if err != nil {
		return err
	}

	text, err := parser.ReadFile(t.File)
	if err != nil {
		return err
	}

	var tokens []lexer.Token
	var lexErr error
	if cfg.Parse.LenientTokens {
		tokens = lexer.TokenizeLenient(text)
	} else {
		tokens, lexErr = lexer.Tokenize(text)
	}
	log.Debugf("%d tokens from %s", len(tokens), t.File)

	for _, tok := range tokens {
		if _, err := fmt.Fprintln(ctx.Stdout, tok); err != nil {
			return errors.NewOutputError("failed to write to stdout", err)
		}
	}
	return lexErr
}

// Run parses each file in turn. Every file is checked even after a failure.
func (c *CheckCmd) Run(ctx *Context) error {
	var o config.Overrides
	if c.MaxDepth > 0 {
		o.MaxDepth = &c.MaxDepth
	}
	cfg, err := ctx.loadConfig(o)
	if err != nil {
		return err
	}

	failed := 0
	for _, path := range c.Files {
		_, err := parser.ParseFileWithOptions(path, parser.Options{MaxDepth: cfg.Parse.MaxDepth})
		if err != nil {
			failed++
			log.Debugf("%s: %v", path, err)
			fmt.Fprintf(ctx.Stdout, "FAIL %s: %s\n", path, errors.UserFriendlyError(err))
			continue
		}
		fmt.Fprintf(ctx.Stdout, "ok   %s\n", path)
	}
	if failed > 0 {
		return errors.NewInputError(fmt.Sprintf("%d of %d files failed to parse", failed, len(c.Files)), nil)
	}
	return nil
}

// Run encodes the configuration with a codec built from its own mapping
// section and dumps it with its own dump settings.
func (c *ShowConfigCmd) Run(ctx *Context) error {
	cfg, err := ctx.loadConfig(config.Overrides{})
	if err != nil {
		return err
	}

	doc, err := mapping.FromConfig(cfg).Encode(cfg)
	if err != nil {
		return err
	}
	log.Debugf("encoded config with key case %q", cfg.Mapping.KeyCase)

	return writeOutput(ctx.Stdout, doc, dumper.Options{
		Indent:    cfg.Dump.Indent,
		Escape:    cfg.Dump.EscapeStrings,
		Compact:   cfg.Dump.Compact,
		Colorizer: colorizerFor(cfg.Dump.Color, ctx.Terminal),
	})
}
