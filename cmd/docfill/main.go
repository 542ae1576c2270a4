package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/javajack/docfill"
)

var version = "0.1.0-dev"

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "docfill",
		Short: "Fill .docx and .xlsx form templates from a fill plan",
		Long: `docfill writes key/value facts, checkbox states and repeating list
records into human-authored Word and Excel form templates.

A fill plan is JSON (or YAML with a .yaml/.yml extension):

  {"kv": [{"anchor": "姓名", "val": "张三"}],
   "checkbox": [{"keyword": "党员", "status": "是"}],
   "lists": [{"keyword": "奖惩情况", "headers": ["时间", "奖项"], "data": [["2019", "一等奖学金"]]}]}`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "", "YAML configuration file (see `docfill config`)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Log fill decisions to stderr (-vv for per-entry detail)")

	fillCmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill a template and write the result",
		RunE:  runFill,
	}
	fillCmd.Flags().StringP("template", "t", "", "Template file (.docx, .xlsx)")
	fillCmd.Flags().StringP("plan", "p", "", "Fill plan file")
	fillCmd.Flags().StringP("out", "o", "", "Output file")
	fillCmd.Flags().Bool("no-normalize", false, "Write lists as given, without moving single-value sections to kv")
	markRequired(fillCmd, "template", "plan", "out")

	normalizeCmd := &cobra.Command{
		Use:   "normalize",
		Short: "Print the plan as it will be written after normalization",
		RunE:  runNormalize,
	}
	normalizeCmd.Flags().StringP("template", "t", "", "Template file (.docx, .xlsx)")
	normalizeCmd.Flags().StringP("plan", "p", "", "Fill plan file")
	markRequired(normalizeCmd, "template", "plan")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Report plan entries that would be skipped or rejected",
		RunE:  runValidate,
	}
	validateCmd.Flags().StringP("template", "t", "", "Template file (.docx, .xlsx)")
	validateCmd.Flags().StringP("plan", "p", "", "Fill plan file")
	markRequired(validateCmd, "template", "plan")

	describeCmd := &cobra.Command{
		Use:   "describe <template>",
		Short: "Show the table structure of a template",
		Args:  cobra.ExactArgs(1),
		RunE:  runDescribe,
	}

	outlineCmd := &cobra.Command{
		Use:   "outline <template>",
		Short: "Print the template outline handed to the plan generator",
		Args:  cobra.ExactArgs(1),
		RunE:  runOutline,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the default configuration",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), docfill.DefaultConfigYAML())
		},
	}

	rootCmd.AddCommand(fillCmd, normalizeCmd, validateCmd, describeCmd, outlineCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("Error:"), err)
		os.Exit(1)
	}
}

func markRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
}

// commonOptions builds the logger and configuration shared by every command.
func commonOptions(cmd *cobra.Command) ([]docfill.Option, *docfill.Config, error) {
	verbose, _ := cmd.Flags().GetCount("verbose")
	level := slog.LevelWarn
	switch {
	case verbose >= 2:
		level = slog.LevelDebug
	case verbose == 1:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := docfill.DefaultConfig()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := docfill.LoadConfig(path)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}
	return []docfill.Option{docfill.WithLogger(logger), docfill.WithConfig(cfg)}, cfg, nil
}

func runFill(cmd *cobra.Command, _ []string) error {
	tmpl, _ := cmd.Flags().GetString("template")
	planPath, _ := cmd.Flags().GetString("plan")
	out, _ := cmd.Flags().GetString("out")
	noNormalize, _ := cmd.Flags().GetBool("no-normalize")

	opts, _, err := commonOptions(cmd)
	if err != nil {
		return err
	}
	plan, err := docfill.LoadPlan(planPath)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	opts = append(opts,
		docfill.WithTemplate(tmpl),
		docfill.WithNormalize(!noNormalize),
		docfill.WithProgress(func(percent int, message string) {
			fmt.Fprintln(stderr, dimStyle.Render(fmt.Sprintf("[%3d%%] %s", percent, message)))
		}),
	)

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create output file %q: %w", out, err)
	}
	defer f.Close()

	report, err := docfill.NewFiller(opts...).FillWriter(plan, f)
	if err != nil {
		f.Close()
		os.Remove(out)
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s %s\n", okStyle.Render("Wrote"), out)
	fmt.Fprintf(w, "  kv: %d written, %d skipped\n", report.KVWritten, report.KVSkipped)
	fmt.Fprintf(w, "  checkboxes: %d changed\n", report.CheckboxesChanged)
	fmt.Fprintf(w, "  lists: %d written, %d skipped, %d rows inserted\n",
		report.ListsWritten, report.ListsSkipped, report.RowsInserted)
	for _, kw := range report.Reclassified {
		fmt.Fprintf(w, "  %s\n", warnStyle.Render(fmt.Sprintf("list %q written as kv", kw)))
	}
	return nil
}

func runNormalize(cmd *cobra.Command, _ []string) error {
	tmpl, _ := cmd.Flags().GetString("template")
	planPath, _ := cmd.Flags().GetString("plan")

	_, cfg, err := commonOptions(cmd)
	if err != nil {
		return err
	}
	plan, err := docfill.LoadPlan(planPath)
	if err != nil {
		return err
	}
	doc, err := docfill.OpenTemplate(tmpl, cfg)
	if err != nil {
		return err
	}
	defer doc.Close()

	out, err := docfill.NormalizePlan(plan, doc, cfg).JSON()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func runValidate(cmd *cobra.Command, _ []string) error {
	tmpl, _ := cmd.Flags().GetString("template")
	planPath, _ := cmd.Flags().GetString("plan")

	opts, _, err := commonOptions(cmd)
	if err != nil {
		return err
	}
	plan, err := docfill.LoadPlan(planPath)
	if err != nil {
		return err
	}
	issues, err := docfill.Validate(tmpl, plan, opts...)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(issues) == 0 {
		fmt.Fprintln(w, okStyle.Render("Plan is valid"))
		return nil
	}
	errors := 0
	for _, issue := range issues {
		style := warnStyle
		if issue.Severity == docfill.SeverityError {
			style = errStyle
			errors++
		}
		fmt.Fprintln(w, style.Render(issue.String()))
	}
	if errors > 0 {
		return fmt.Errorf("%d error(s) in plan", errors)
	}
	return nil
}

func runDescribe(cmd *cobra.Command, args []string) error {
	opts, _, err := commonOptions(cmd)
	if err != nil {
		return err
	}
	out, err := docfill.Describe(args[0], opts...)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func runOutline(cmd *cobra.Command, args []string) error {
	_, cfg, err := commonOptions(cmd)
	if err != nil {
		return err
	}
	doc, err := docfill.OpenTemplate(args[0], cfg)
	if err != nil {
		return err
	}
	defer doc.Close()

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, titleStyle.Render(args[0]))
	fmt.Fprintln(w, docfill.Outline(doc))
	return nil
}
