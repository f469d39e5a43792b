// ntxlocale resolves CMS locale tags in NTX content payloads.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ntx-trading/ntxlocale/audit"
	"github.com/ntx-trading/ntxlocale/config"
	"github.com/ntx-trading/ntxlocale/i18n"
	"github.com/ntx-trading/ntxlocale/langmeta"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	infoColor    = color.New(color.FgBlue)
	successColor = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed)
)

func logInfo(format string, args ...any) {
	logLine(infoColor, "[INFO]", format, args...)
}

func logSuccess(format string, args ...any) {
	logLine(successColor, "[OK]", format, args...)
}

func logWarning(format string, args ...any) {
	logLine(warningColor, "[WARN]", format, args...)
}

func logError(format string, args ...any) {
	logLine(errorColor, "[ERROR]", format, args...)
}

func logLine(c *color.Color, tag, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", c.Sprint(tag), fmt.Sprintf(format, args...))
}

// defaultContentLanguages are offered when no config declares languages.
var defaultContentLanguages = []string{"zh", "en"}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	rootDir      string
	uiLang       string
	scanMode     modeFlag
	stripControl bool
)

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ntxlocale",
		Short: "Resolve CMS locale tags in NTX content payloads",
		Long: `ntxlocale resolves the inline locale tags NTX editors write into CMS text.

A CMS string carries its base text plus per-language overrides:

  Hello [zh:text="你好"] [en:text="Hello"]

Resolving it for a language yields that language's override, or the base
text with every tag removed when there is none. Control tags such as
[Sort:3], [Link:/path] and [Show] can be stripped as well.

Commands:
  resolve     Resolve a single string
  localize    Localize a JSON, YAML or Markdown payload
  build       Localize every target in .ntxlocale.yaml
  audit       Report locale-tag problems in a payload
  langs       List configured languages`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			i18n.Init(uiLang)
		},
	}

	scanMode = modeFlag{}

	// Global persistent flags, inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")
	root.PersistentFlags().StringVar(&uiLang, "ui-lang", "", "Language of ntxlocale's own messages (default: from environment)")
	root.PersistentFlags().Var(&scanMode, "scan-mode", "Locale-tag scanner: unified or legacy (default: from config, else unified)")
	root.PersistentFlags().BoolVar(&stripControl, "strip-control", false, "Also strip [Sort:n], [Link:...] and [Show] tags")

	root.AddCommand(
		newResolveCmd(),
		newLocalizeCmd(),
		newBuildCmd(),
		newAuditCmd(),
		newLangsCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// loadConfig reads .ntxlocale.yaml from the project root, or returns the
// defaults when there is none, and applies command-line overrides.
func loadConfig() (*config.File, error) {
	cfg, err := config.LoadFile(rootDir)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		if cfg, err = config.Parse(nil); err != nil {
			return nil, err
		}
	}
	applyOverrides(cfg)
	return cfg, nil
}

func applyOverrides(cfg *config.File) {
	if scanMode.set {
		cfg.ScanMode = scanMode.mode.String()
	}
	if stripControl {
		cfg.StripControlTags = true
	}
}

// contentLanguages returns the languages to produce: the --lang list when
// given, else the configured language closest to the user's locale.
func contentLanguages(requested langListFlag, cfg *config.File) []string {
	if len(requested) > 0 {
		return requested
	}
	available := cfg.AllLanguages()
	if len(available) == 0 {
		available = defaultContentLanguages
	}
	return []string{langmeta.Match(i18n.EnvLocale(), available, cfg.DefaultLanguage)}
}

// readInput reads a file, or stdin for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// fileExists returns true if the file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ntxlocale version %s\n", version)
			fmt.Fprintf(out, "  commit:    %s\n", commit)
			fmt.Fprintf(out, "  built:     %s\n", date)
		},
	}

	return cmd
}

// ---------------------------------------------------------------------------
// langs (configured languages with display metadata)
// ---------------------------------------------------------------------------

func newLangsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "langs",
		Short: "List configured languages",
		Long: `List the languages declared in .ntxlocale.yaml with their display names.
Without a config file, all languages ntxlocale has metadata for are listed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(rootDir)
			if err != nil {
				return err
			}

			var langs []string
			defaultLang := ""
			if cfg != nil {
				langs = cfg.AllLanguages()
				defaultLang = cfg.DefaultLanguage
			}
			if len(langs) == 0 {
				logInfo(i18n.T("No languages configured in %s; showing known languages"), config.FileName)
				for code := range langmeta.Registry {
					langs = append(langs, code)
				}
				sort.Strings(langs)
			}

			printLanguages(cmd.OutOrStdout(), langs, defaultLang)
			return nil
		},
	}

	return cmd
}

func printLanguages(w io.Writer, langs []string, defaultLang string) {
	width := 0
	for _, lang := range langs {
		width = max(width, len(lang))
	}
	for _, lang := range langs {
		meta := langmeta.Resolve(lang)
		flag := meta.Flag
		if flag == "" {
			flag = "  "
		}
		line := fmt.Sprintf("%s %-*s  %s", flag, width, lang, meta.Name)
		if lang == defaultLang {
			line += " " + i18n.T("(default)")
		}
		fmt.Fprintln(w, line)
	}
}

// ---------------------------------------------------------------------------
// resolve (single string)
// ---------------------------------------------------------------------------

func newResolveCmd() *cobra.Command {
	var langs langListFlag

	cmd := &cobra.Command{
		Use:   "resolve [text]",
		Short: "Resolve a single string",
		Long: `Strip control tags from the text and pick its locale override.

The text is read from stdin when no argument is given. With several
languages, one "lang: text" line is printed per language.`,
		Example: `  ntxlocale resolve --lang en 'Hello [zh:text="你好"] [en:text="Hi"]'
  echo '[Sort:1]课程 [en:text="Course"]' | ntxlocale resolve --lang zh,en`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var text string
			if len(args) == 1 {
				text = args[0]
			} else {
				data, err := readInput(cmd, "-")
				if err != nil {
					return err
				}
				text = string(data)
			}

			p := cfg.Processor()
			out := cmd.OutOrStdout()
			selected := contentLanguages(langs, cfg)
			for _, lang := range selected {
				resolved := p.ProcessText(text, lang)
				if len(selected) == 1 {
					fmt.Fprintln(out, resolved)
				} else {
					fmt.Fprintf(out, "%s: %s\n", lang, resolved)
				}
			}
			return nil
		},
	}

	cmd.Flags().Var(&langs, "lang", "Languages (comma-separated, default: matched from environment)")

	return cmd
}

// ---------------------------------------------------------------------------
// localize (JSON / YAML payload)
// ---------------------------------------------------------------------------

func newLocalizeCmd() *cobra.Command {
	var (
		langs   langListFlag
		out     string
		format  string
		compact bool
	)

	cmd := &cobra.Command{
		Use:   "localize <file>",
		Short: "Localize a JSON, YAML or Markdown payload",
		Long: `Resolve every string in a CMS payload for one or more languages.

Non-string values and the payload's structure are kept as they are. With a
single language and no --out, the result goes to stdout. Use "-" to read
the payload from stdin.`,
		Example: `  ntxlocale localize --lang en courses.json
  ntxlocale localize --lang zh,en --out 'dist/{lang}/courses.json' courses.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			input := args[0]
			if format == "" {
				format = config.FormatFromPath(input)
			}
			if format == "" {
				if input != "-" {
					return fmt.Errorf(i18n.T("cannot infer the format of %s; use --format"), input)
				}
				format = config.FormatJSON
			}

			data, err := readInput(cmd, input)
			if err != nil {
				return err
			}
			doc, err := parseDocument(data, format)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			if compact {
				doc = doc.compacted()
			}

			p := cfg.Processor()
			selected := contentLanguages(langs, cfg)

			if out == "" {
				if len(selected) != 1 {
					return errors.New(i18n.T("--out is required for more than one language"))
				}
				localized, err := doc.localize(p, selected[0])
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(localized)
				return err
			}

			if len(selected) > 1 && !strings.Contains(out, config.LangPlaceholder) {
				return fmt.Errorf(i18n.T("--out must contain %s for more than one language"), config.LangPlaceholder)
			}
			for _, lang := range selected {
				localized, err := doc.localize(p, lang)
				if err != nil {
					return err
				}
				path := config.ExpandOutput(out, lang)
				if err := writeOutput(path, localized); err != nil {
					return err
				}
				logSuccess(i18n.T("Wrote %s"), path)
			}
			return nil
		},
	}

	cmd.Flags().Var(&langs, "lang", "Languages (comma-separated, default: matched from environment)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path; {lang} is replaced by the language code")
	cmd.Flags().StringVar(&format, "format", "", "Payload format: json, yaml or markdown (default: from extension)")
	cmd.Flags().BoolVar(&compact, "compact", false, "Write JSON without indentation")

	return cmd
}

// ---------------------------------------------------------------------------
// audit (locale-tag problems)
// ---------------------------------------------------------------------------

func newAuditCmd() *cobra.Command {
	var (
		langs  langListFlag
		format string
		fail   bool
	)

	cmd := &cobra.Command{
		Use:   "audit <file>",
		Short: "Report locale-tag problems in a payload",
		Long: `Check every string of a JSON, YAML or Markdown payload for duplicate language tags,
unterminated tags, empty overrides, leftover control tags and tagged strings
missing a language, and print per-language coverage.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			input := args[0]
			if format == "" {
				format = config.FormatFromPath(input)
			}
			if format == "" {
				format = config.FormatJSON
			}
			data, err := readInput(cmd, input)
			if err != nil {
				return err
			}
			doc, err := parseDocument(data, format)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}

			selected := []string(langs)
			if len(selected) == 0 {
				selected = cfg.AllLanguages()
			}
			if len(selected) == 0 {
				selected = defaultContentLanguages
			}

			report := audit.Check(cfg.Processor(), doc.leaves(), selected)
			report.Write(cmd.OutOrStdout())

			if fail && report.HasIssues() {
				n := len(report.Issues)
				return fmt.Errorf(i18n.N("audit found %d issue", "audit found %d issues", n), n)
			}
			return nil
		},
	}

	cmd.Flags().Var(&langs, "lang", "Languages to check coverage for (comma-separated, default: configured)")
	cmd.Flags().StringVar(&format, "format", "", "Payload format: json, yaml or markdown (default: from extension)")
	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with an error if any issue is found")

	return cmd
}
