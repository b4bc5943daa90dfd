// readmeloc — generates the translated counterpart of a catalog README.
//
// The source document keeps all structure (links, anchors, counts, code
// fences) byte-identical; only headings, fixed paragraphs, category names
// and catalog-entry descriptions are translated. Descriptions go through a
// batched, cached call to the Google Translate free endpoint; everything
// else comes from built-in dictionaries.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openclaw-community/readmeloc/cache"
	"github.com/openclaw-community/readmeloc/config"
	"github.com/openclaw-community/readmeloc/document"
	"github.com/openclaw-community/readmeloc/i18n"
	"github.com/openclaw-community/readmeloc/rules"
	"github.com/openclaw-community/readmeloc/translate"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flag
// ---------------------------------------------------------------------------

var rootDir string

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "readmeloc",
		Short: "Generate the translated counterpart of a catalog README",
		Long: `readmeloc — catalog README localizer.

Generates a translated README from a structured catalog document: the table
of contents, category headers, fixed paragraphs and entry descriptions are
translated while links, anchors, counts and code blocks stay byte-identical.

Entry descriptions are translated through the Google Translate free endpoint
in size-bounded batches, backed by a persistent cache so unchanged
descriptions never hit the network again.

Commands:
  generate    Produce the translated document (default paths: README.md →
              README_zh.md, cache in .zh-desc-cache.json)
  patch       Insert the language switcher line into the source README
  status      Show document and cache statistics
  version     Show version information

Configuration is read from .readmeloc.yaml in the project root when present.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flag — inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")

	root.AddCommand(
		newGenerateCmd(),
		newPatchCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("readmeloc version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// generate
// ---------------------------------------------------------------------------

func newGenerateCmd() *cobra.Command {
	var noTranslateDesc bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Produce the translated document",
		Long: `Read the source README, translate entry descriptions (batched and
cached), apply the built-in dictionaries to headings, categories and fixed
paragraphs, and write the translated document with the language switcher
line prepended. Unrecognized content passes through byte-identical.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(noTranslateDesc)
		},
	}

	cmd.Flags().BoolVar(&noTranslateDesc, "no-translate-desc", false,
		"Skip description translation (keep English descriptions)")

	return cmd
}

func runGenerate(noTranslateDesc bool) error {
	cfg, err := config.Load(rootDir)
	if err != nil {
		return err
	}
	rs, err := buildRules(cfg)
	if err != nil {
		return err
	}

	srcPath := cfg.SourcePath(rootDir)
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", srcPath, err)
	}
	lines := strings.Split(string(data), "\n")

	descs := map[string]string{}
	if noTranslateDesc {
		logInfo(i18n.T("Description translation disabled — keeping original descriptions."))
	} else {
		descs = translateDescriptions(cfg, lines)
	}

	out := document.Translate(lines, rs, cfg.Switcher, descs)
	content := cfg.Switcher + "\n\n" + strings.Join(out, "\n")

	outPath := cfg.OutputPath(rootDir)
	if err := os.WriteFile(outPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	logSuccess(i18n.T("Generated %s"), cfg.Output)
	return nil
}

// translateDescriptions runs the batching translator over the distinct
// catalog-entry descriptions. Never fails: translation trouble degrades to
// untranslated descriptions.
func translateDescriptions(cfg *config.Config, lines []string) map[string]string {
	collected := document.CollectDescriptions(lines)
	cachePath := cfg.CachePath(rootDir)

	cached, err := cache.Load(cachePath)
	if err != nil {
		logWarning(i18n.T("Cache could not be read, starting empty: %v"), err)
	}

	client := translate.NewGoogle(cfg.SourceLang, cfg.TargetLang, cfg.Proxy)
	tr := translate.New(client, translate.Options{
		MaxBatchChars: cfg.MaxBatchChars,
		BatchDelay:    cfg.BatchDelay(),
		Persist: func(m map[string]string) error {
			return cache.Save(cachePath, m)
		},
		OnLog:   logInfo,
		OnError: logWarning,
	})

	return tr.TranslateAll(context.Background(), collected, cached)
}

// buildRules merges the config dictionary overrides over the defaults.
func buildRules(cfg *config.Config) (*rules.Set, error) {
	rs := rules.Defaults()
	rs.MergeHeadings(cfg.Headings)
	rs.MergeCategories(cfg.Categories)

	var custom [][2]string
	for _, p := range cfg.Paragraphs {
		custom = append(custom, [2]string{p.Pattern, p.Template})
	}
	if err := rs.PrependParagraphs(custom); err != nil {
		return nil, err
	}
	return rs, nil
}

// ---------------------------------------------------------------------------
// patch (insert the language switcher into the source README)
// ---------------------------------------------------------------------------

func newPatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patch",
		Short: "Insert the language switcher line into the source README",
		Long: `Prepend the locale-switcher line to the source document, in place.
Idempotent: a document that already contains the switcher is left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatch()
		},
	}
}

func runPatch() error {
	cfg, err := config.Load(rootDir)
	if err != nil {
		return err
	}

	srcPath := cfg.SourcePath(rootDir)
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", srcPath, err)
	}

	patched, ok := patchDocument(string(data), cfg.Switcher)
	if !ok {
		logInfo(i18n.T("Source document already has the language switcher — skipping."))
		return nil
	}

	if err := os.WriteFile(srcPath, []byte(patched), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", srcPath, err)
	}
	logSuccess(i18n.T("Added language switcher to %s."), cfg.Source)
	return nil
}

// patchDocument prepends the switcher line followed by a blank line.
// Returns ok=false when the document already contains the switcher.
func patchDocument(content, switcher string) (string, bool) {
	if strings.Contains(content, switcher) {
		return content, false
	}
	return switcher + "\n\n" + content, true
}

// ---------------------------------------------------------------------------
// status (read-only: document + cache statistics)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show document and cache statistics",
		Long: `Show the resolved paths, document statistics (entries, distinct
descriptions, categories) and translation cache coverage. Does not modify
any files and issues no network calls.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}
}

func runStatus() error {
	cfg, err := config.Load(rootDir)
	if err != nil {
		return err
	}

	srcPath := cfg.SourcePath(rootDir)
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", srcPath, err)
	}
	lines := strings.Split(string(data), "\n")
	st := document.Scan(lines)

	cached, cerr := cache.Load(cfg.CachePath(rootDir))
	if cerr != nil {
		logWarning(i18n.T("Cache could not be read, starting empty: %v"), cerr)
	}
	covered := 0
	descs := document.CollectDescriptions(lines)
	for _, d := range descs {
		if _, ok := cached[d]; ok {
			covered++
		}
	}

	fmt.Fprintf(os.Stderr, "\n%sDocument%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintf(os.Stderr, "  Source:      %s\n", srcPath)
	fmt.Fprintf(os.Stderr, "  Output:      %s\n", cfg.OutputPath(rootDir))
	fmt.Fprintf(os.Stderr, "  Cache:       %s\n", cfg.CachePath(rootDir))
	fmt.Fprintf(os.Stderr, "  Locales:     %s → %s\n", cfg.SourceLang, cfg.TargetLang)
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "  Entries:     %d\n", st.Entries)
	fmt.Fprintf(os.Stderr, "  Categories:  %d\n", st.Categories)
	fmt.Fprintf(os.Stderr, "  Descriptions: %d distinct\n", st.Descriptions)

	percent := 0
	if len(descs) > 0 {
		percent = covered * 100 / len(descs)
	}
	statusColor := colorGreen
	if percent < 50 {
		statusColor = colorRed
	} else if percent < 100 {
		statusColor = colorYellow
	}
	fmt.Fprintf(os.Stderr, "  Cached:      %s%d/%d (%d%%)%s\n",
		statusColor, covered, len(descs), percent, colorReset)
	fmt.Fprintln(os.Stderr)

	return nil
}
