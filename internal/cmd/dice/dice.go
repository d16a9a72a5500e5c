// Package dice parses dice command flags and evaluates one expression.
package dice

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/fatih/color"
	"github.com/louisbranch/diceparser/internal/core/expression"
	entrypoint "github.com/louisbranch/diceparser/internal/platform/cmd"
	apperrors "github.com/louisbranch/diceparser/internal/platform/errors"
	"github.com/louisbranch/diceparser/internal/platform/errors/i18n"
	platformgrpc "github.com/louisbranch/diceparser/internal/platform/grpc"
	i18ncatalog "github.com/louisbranch/diceparser/internal/platform/i18n/catalog"
	"github.com/louisbranch/diceparser/internal/platform/timeouts"
	"github.com/louisbranch/diceparser/internal/random"
	"github.com/louisbranch/diceparser/internal/services/roller/api/grpc/roller"
	"github.com/shopspring/decimal"
	"golang.org/x/text/message"
)

// errUsage reports a call without an expression.
var errUsage = errors.New("expression is required")

// Config holds dice command configuration.
type Config struct {
	Locale     string `env:"LOCALE" envDefault:"en-US"`
	RollerAddr string `env:"ROLLER_ADDR"`
	Seed       string
	JSON       bool
	NoColor    bool
	ErrorsDemo bool
	// Expression is every positional argument joined by spaces.
	Expression string
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "Locale for messages (en-US, zh-CN, fr-FR, de-DE, ja-JP, ko-KR, ru-RU)")
	fs.StringVar(&cfg.RollerAddr, "addr", cfg.RollerAddr, "Roller gRPC address; empty evaluates in process")
	fs.StringVar(&cfg.Seed, "seed", cfg.Seed, "Seed for reproducible rolls")
	fs.BoolVar(&cfg.JSON, "json", false, "Print the evaluation as JSON")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&cfg.ErrorsDemo, "errors-demo", false, "Print every error message in the selected locale")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.Expression = strings.Join(fs.Args(), " ")
	return cfg, nil
}

// Run evaluates the configured expression and writes the outcome to stdout.
// Failures are printed to stderr before Run returns them, so callers only
// need to pick an exit code.
func Run(ctx context.Context, cfg Config, stdout, stderr io.Writer) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceDice, func(ctx context.Context) error {
		eval, closeEval, err := newEvaluator(ctx, cfg.RollerAddr)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return err
		}
		defer func() {
			if err := closeEval(); err != nil {
				log.Printf("close roller connection: %v", err)
			}
		}()
		return run(ctx, cfg, eval, stdout, stderr)
	})
}

type evaluator interface {
	Evaluate(ctx context.Context, expr string, seed *int64, locale string) (roller.Evaluation, error)
}

func newEvaluator(ctx context.Context, addr string) (evaluator, func() error, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return roller.NewLocal(), func() error { return nil }, nil
	}
	conn, err := platformgrpc.Dial(ctx, addr, roller.ServiceName, timeouts.GRPCDial, log.Printf, platformgrpc.ClientOptions()...)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to roller at %s: %w", addr, err)
	}
	return roller.NewClient(conn), conn.Close, nil
}

// output is the CLI's JSON document for a successful evaluation.
type output struct {
	Expression string `json:"expression"`
	roller.Evaluation
}

type errorOutput struct {
	Expression string    `json:"expression"`
	Error      errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func run(ctx context.Context, cfg Config, eval evaluator, stdout, stderr io.Writer) error {
	locale := i18ncatalog.Default().Match(cfg.Locale)
	p := message.NewPrinter(i18ncatalog.Default().Tag(locale))
	pal := newPalette(cfg.NoColor)

	if cfg.ErrorsDemo {
		printErrorsDemo(stdout, p, pal, locale)
		return nil
	}
	if cfg.Expression == "" {
		fmt.Fprintln(stderr, p.Sprintf("cli.usage"))
		return errUsage
	}

	fail := func(err error) error {
		msg := localize(locale, err)
		if cfg.JSON {
			writeJSON(stdout, errorOutput{
				Expression: cfg.Expression,
				Error:      errorBody{Code: string(apperrors.GetCode(err)), Message: msg},
			})
		} else {
			fmt.Fprintln(stderr, pal.err(p.Sprintf("cli.error", msg)))
		}
		return err
	}

	seed, err := random.ParseSeed(cfg.Seed)
	if err != nil {
		return fail(err)
	}
	evaluation, err := eval.Evaluate(ctx, cfg.Expression, seed, locale)
	if err != nil {
		return fail(err)
	}

	if cfg.JSON {
		writeJSON(stdout, output{Expression: cfg.Expression, Evaluation: evaluation})
		return nil
	}
	printEvaluation(stdout, p, pal, evaluation)
	return nil
}

func printEvaluation(w io.Writer, p *message.Printer, pal palette, evaluation roller.Evaluation) {
	fmt.Fprintln(w, p.Sprintf("cli.result", pal.result(formatNumber(evaluation.FinalResult))))
	fmt.Fprintln(w, p.Sprintf("cli.steps", pal.steps(evaluation.Steps)))
	if len(evaluation.Rolls) > 0 {
		fmt.Fprintln(w, p.Sprintf("cli.rolls"))
		for _, record := range evaluation.Rolls {
			fmt.Fprintf(w, "  %s: %s\n", pal.label(record.Kind), formatRoll(record))
		}
	}
	if evaluation.SeedUsed != "" {
		fmt.Fprintln(w, pal.faint(p.Sprintf("cli.seed", evaluation.SeedUsed, string(evaluation.SeedSource))))
	}
}

// formatRoll renders the dice behind one record: "40 + 2 = 42" for
// percentile, "3, 17 → 17" for advantage and disadvantage, the value
// otherwise.
func formatRoll(record expression.RollRecord) string {
	switch {
	case record.Tens != nil && record.Units != nil:
		return fmt.Sprintf("%d + %d = %d", *record.Tens*10, *record.Units, record.Value)
	case len(record.Rolls) > 0:
		parts := make([]string, len(record.Rolls))
		for i, roll := range record.Rolls {
			parts[i] = fmt.Sprint(roll)
		}
		return fmt.Sprintf("%s → %d", strings.Join(parts, ", "), record.Value)
	default:
		return fmt.Sprint(record.Value)
	}
}

// formatNumber prints integral values without a fraction and never prints
// a negative zero.
func formatNumber(value float64) string {
	return decimal.NewFromFloat(value).String()
}

// demoMetadata fills every placeholder used by the error templates.
var demoMetadata = map[string]string{
	"Character": "$",
	"MinFaces":  fmt.Sprint(expression.MinFaces),
	"MaxFaces":  fmt.Sprint(expression.MaxFaces),
	"MaxCount":  fmt.Sprint(expression.MaxDiceCount),
	"Detail":    expression.DetailDivisionByZero,
}

func printErrorsDemo(w io.Writer, p *message.Printer, pal palette, locale string) {
	catalog := i18n.GetCatalog(locale)
	fmt.Fprintln(w, p.Sprintf("cli.errors_demo", catalog.Locale()))
	for _, code := range apperrors.Codes {
		fmt.Fprintf(w, "  %s: %s\n", pal.label(string(code)), catalog.Format(code, demoMetadata))
	}
}

// localize prefers a message rendered by a remote roller, then the local
// catalog. Errors without a domain code print as they are.
func localize(locale string, err error) string {
	if _, msg, ok := apperrors.LocalizedMessage(err); ok && msg != "" {
		return msg
	}
	if apperrors.GetCode(err) == apperrors.CodeUnknown {
		return err.Error()
	}
	_, msg := i18n.Localize(locale, err)
	return msg
}

func writeJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		log.Printf("encode output: %v", err)
	}
}

type palette struct {
	result func(a ...any) string
	steps  func(a ...any) string
	label  func(a ...any) string
	faint  func(a ...any) string
	err    func(a ...any) string
}

func newPalette(noColor bool) palette {
	paint := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if noColor {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		result: paint(color.FgGreen, color.Bold),
		steps:  paint(color.FgCyan),
		label:  paint(color.FgYellow),
		faint:  paint(color.Faint),
		err:    paint(color.FgRed),
	}
}
