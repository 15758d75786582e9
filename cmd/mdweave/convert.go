package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/mdweave/internal/convert"
	"github.com/dgallion1/mdweave/internal/extractor"
	"github.com/dgallion1/mdweave/internal/history"
	"github.com/dgallion1/mdweave/internal/outpath"
	"github.com/dgallion1/mdweave/internal/pagetext"
	"github.com/dgallion1/mdweave/internal/pipeline"
)

var (
	convertOutput      string
	convertOutputDir   string
	convertTitle       string
	convertStdout      bool
	convertStripNoise  bool
	convertPattern     string
	convertLayout      bool
	convertFrontmatter bool
	convertNoHistory   bool
)

var convertCmd = &cobra.Command{
	Use:   "convert FILE",
	Short: "Convert one document to Markdown",
	Long: `Convert extracts text from FILE, recovers its heading structure, and writes
the assembled Markdown. Without -o the output lands in the configured output
directory under the source's name, never overwriting an existing file.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "exact output path (overwrites)")
	convertCmd.Flags().StringVar(&convertOutputDir, "output-dir", "", "directory for the converted file")
	convertCmd.Flags().StringVar(&convertTitle, "title", "", "override the document title")
	convertCmd.Flags().BoolVar(&convertStdout, "stdout", false, "print Markdown to stdout instead of writing a file")
	convertCmd.Flags().BoolVar(&convertStripNoise, "strip-noise", true, "strip running headers, footers, and page numbers")
	convertCmd.Flags().StringVar(&convertPattern, "heading-pattern", "", "custom heading regexp")
	convertCmd.Flags().BoolVar(&convertLayout, "layout", true, "use font and spacing signals for heading detection")
	convertCmd.Flags().BoolVar(&convertFrontmatter, "frontmatter", false, "prepend YAML frontmatter")
	convertCmd.Flags().BoolVar(&convertNoHistory, "no-history", false, "skip recording this run in the history database")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	srcPath := args[0]
	start := time.Now()
	cfg := cliConfig(cmd)

	opts := convert.Options{
		StripNoise:       cfg.StripNoise,
		HeadingPattern:   cfg.HeadingPattern,
		UseLayoutSignals: cfg.UseLayoutSignals,
		Frontmatter:      cfg.Frontmatter,
		SourceName:       filepath.Base(srcPath),
	}
	flags := cmd.Flags()
	if flags.Changed("strip-noise") {
		opts.StripNoise = convertStripNoise
	}
	if flags.Changed("heading-pattern") {
		opts.HeadingPattern = convertPattern
	}
	if flags.Changed("layout") {
		opts.UseLayoutSignals = convertLayout
	}
	if flags.Changed("frontmatter") {
		opts.Frontmatter = convertFrontmatter
	}

	src, err := extractor.ForFile(srcPath)
	if err != nil {
		return err
	}
	if pdf, ok := src.(*extractor.PDFSource); ok {
		pdf.FallbackPdftotext = cfg.PDFFallbackPdftotext
	}
	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", srcPath, err)
	}
	defer f.Close()

	doc, err := src.Extract(f, filepath.Base(srcPath))
	if err != nil {
		return fmt.Errorf("extract %s: %w", srcPath, err)
	}

	title := convertTitle
	if title == "" {
		title = doc.Title
	}
	if title == "" {
		title = extractor.Stem(srcPath)
	}

	res, err := convert.Convert(doc.Pages, title, opts)
	if err != nil {
		return convert.ScanHint(err, doc.Quality)
	}

	if convertStdout {
		fmt.Fprint(cmd.OutOrStdout(), res.Markdown)
		recordRun(cmd, cfg.HistoryDB, srcPath, "", doc, res, time.Since(start))
		return nil
	}

	outPath := convertOutput
	if outPath == "" {
		dir := cfg.OutputDir
		if flags.Changed("output-dir") {
			dir = convertOutputDir
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir %s: %w", dir, err)
		}
		outPath = outpath.UniquePath(dir, extractor.Stem(srcPath))
	}
	if err := os.WriteFile(outPath, []byte(res.Markdown), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	recordRun(cmd, cfg.HistoryDB, srcPath, outPath, doc, res, time.Since(start))
	printSummary(cmd, srcPath, outPath, doc, res, time.Since(start))
	return nil
}

// recordRun appends the conversion to the history database. Failures are
// reported but never fail the conversion itself.
func recordRun(cmd *cobra.Command, dbPath, srcPath, outPath string, doc *pagetext.Document, res *convert.Result, elapsed time.Duration) {
	if convertNoHistory || dbPath == "" {
		return
	}
	store, err := history.Open(dbPath)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), dimStyle.Render("history: "+err.Error()))
		return
	}
	defer store.Close()

	rec := &history.Conversion{
		ID:          pipeline.NewID(),
		SourcePath:  srcPath,
		OutputPath:  outPath,
		Title:       res.Title,
		Format:      extractor.FormatOf(srcPath),
		Status:      history.StatusCompleted,
		Pages:       len(doc.Pages),
		Sections:    len(res.Sections),
		OutputBytes: int64(len(res.Markdown)),
		DurationMS:  elapsed.Milliseconds(),
		SourceHash:  pipeline.ContentHashHex([]byte(doc.Text())),
	}
	if err := store.Record(rec, res.Markdown); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), dimStyle.Render("history: "+err.Error()))
	}
}

func printSummary(cmd *cobra.Command, srcPath, outPath string, doc *pagetext.Document, res *convert.Result, elapsed time.Duration) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s %s %s\n",
		successStyle.Render("✓"),
		filepath.Base(srcPath),
		dimStyle.Render("→"),
		outPath)

	body := fmt.Sprintf("%s %s\n%s %d   %s %d   %s %s",
		dimStyle.Render("Title:"), titleStyle.Render(res.Title),
		dimStyle.Render("Pages:"), len(doc.Pages),
		dimStyle.Render("Sections:"), len(res.Sections),
		dimStyle.Render("Took:"), elapsed.Round(time.Millisecond))
	fmt.Fprintln(out, boxStyle.Render(body))
}
