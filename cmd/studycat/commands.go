package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"studycat/internal/record"
	"studycat/internal/study/models"
	"studycat/internal/study/service"
	genomestore "studycat/internal/study/store/genome"
	studystore "studycat/internal/study/store/study"
	id "studycat/pkg/domain"
	dErrors "studycat/pkg/domain-errors"
)

// openFunc connects to the catalog. The returned closer releases it.
type openFunc func(ctx context.Context, databaseURL string, logger *slog.Logger) (*service.Service, func() error, error)

type cli struct {
	out         io.Writer
	logger      *slog.Logger
	open        openFunc
	databaseURL string
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "studycat",
		Short:         "Validate study metadata records and curate a study catalog",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(c.out)
	root.PersistentFlags().StringVar(&c.databaseURL, "database-url", os.Getenv("DATABASE_URL"),
		"Postgres URL of the catalog (catalog commands only)")

	root.AddCommand(
		c.validateCmd(),
		c.toolsCmd(),
		c.convertCmd(),
		c.importFieldCmd(),
		c.representativesCmd(),
		c.filterCmd(),
		c.exportCmd(),
		c.tokenCmd(),
	)
	return root
}

// validationDoc is the YAML shape of one validation result.
type validationDoc struct {
	File    string            `yaml:"file"`
	Valid   bool              `yaml:"valid"`
	Error   string            `yaml:"error,omitempty"`
	Missing []string          `yaml:"missing,omitempty"`
	Unknown []string          `yaml:"unknown,omitempty"`
	Empty   []string          `yaml:"empty,omitempty"`
	Tools   map[string]string `yaml:"tools,omitempty"`
}

func (c *cli) validateCmd() *cobra.Command {
	var format string
	var concurrency int
	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check records for missing known keys",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			svc := service.New(studystore.NewInMemory(), genomestore.NewInMemory(),
				service.WithLogger(c.logger),
				service.WithValidateConcurrency(concurrency),
			)

			readers := make(map[string]io.Reader, len(args))
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				defer f.Close()
				readers[path] = f
			}
			results, err := svc.ValidateRecords(cmd.Context(), readers)
			if err != nil {
				return err
			}

			invalid := 0
			docs := make([]validationDoc, 0, len(results))
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			for _, v := range results {
				if !v.Valid {
					invalid++
				}
				if format == "yaml" {
					docs = append(docs, toValidationDoc(v))
					continue
				}
				switch {
				case v.Error != "":
					fmt.Fprintf(tw, "%s\tERROR\t%s\n", v.Name, v.Error)
				case v.Valid:
					fmt.Fprintf(tw, "%s\tOK\t%s\n", v.Name, v.Report.Summary())
				default:
					fmt.Fprintf(tw, "%s\tINVALID\t%s\n", v.Name, v.Report.Summary())
				}
			}
			if format == "yaml" {
				if err := writeYAML(c.out, docs); err != nil {
					return err
				}
			} else if err := tw.Flush(); err != nil {
				return err
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d records invalid", invalid, len(results))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or yaml")
	cmd.Flags().IntVar(&concurrency, "concurrency", service.DefaultValidateConcurrency, "records checked in parallel")
	return cmd
}

func toValidationDoc(v service.Validation) validationDoc {
	doc := validationDoc{
		File:    v.Name,
		Valid:   v.Valid,
		Error:   v.Error,
		Missing: v.Report.Missing,
		Unknown: v.Report.Unknown,
		Empty:   v.Report.Empty,
	}
	for stage, tool := range v.Tools {
		if doc.Tools == nil {
			doc.Tools = map[string]string{}
		}
		doc.Tools[string(stage)] = tool.String()
	}
	return doc
}

func (c *cli) toolsCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "tools FILE",
		Short: "List the software recorded for each pipeline stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			rec, err := readRecordFile(args[0])
			if err != nil {
				return err
			}
			tools := rec.Tools()
			if format == "yaml" {
				doc := make(map[string]record.ToolRef, len(tools))
				for stage, tool := range tools {
					doc[string(stage)] = tool
				}
				return writeYAML(c.out, doc)
			}

			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "STAGE\tTOOL\tVERSION")
			for _, stage := range record.Stages() {
				tool, ok := tools[stage]
				if !ok {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", stage, tool.Name, tool.Version)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or yaml")
	return cmd
}

func (c *cli) convertCmd() *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "convert FILE",
		Short: "Rewrite a record as tab-separated text or YAML",
		Long:  "Files ending in .yaml or .yml are read as YAML, anything else as tab-separated text.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := service.ParseExportFormat(to)
			if err != nil {
				return err
			}
			rec, err := readRecordFile(args[0])
			if err != nil {
				return err
			}
			if format == service.FormatYAML {
				return record.EncodeYAML(c.out, rec)
			}
			return record.Encode(c.out, rec)
		},
	}
	cmd.Flags().StringVar(&to, "to", "yaml", "output format: text or yaml")
	return cmd
}

func (c *cli) importFieldCmd() *cobra.Command {
	var studyName, field, fieldType string
	cmd := &cobra.Command{
		Use:   "import-field FILE",
		Short: "Set one metadata field on registered genomes from an accession<TAB>value file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ft, err := id.ParseFieldType(fieldType)
			if err != nil {
				return err
			}
			return c.withStudy(cmd.Context(), studyName, func(ctx context.Context, svc *service.Service, st *models.Study) error {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()

				result, err := svc.ImportField(ctx, st.ID, service.ImportRequest{Field: field, Type: ft, Data: f})
				if err != nil {
					return err
				}
				fmt.Fprintf(c.out, "%s: updated %d, cleared %d, skipped %d\n",
					result.Field, len(result.Updated), result.Cleared, len(result.Skipped))
				for _, acc := range result.Skipped {
					fmt.Fprintf(c.out, "skipped\t%s\n", acc)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&studyName, "study", "", "study name")
	cmd.Flags().StringVar(&field, "field", "", "genome field to set")
	cmd.Flags().StringVar(&fieldType, "type", string(id.FieldTypeText), "value type: TEXT, BOOLEAN, INTEGER or FLOAT")
	_ = cmd.MarkFlagRequired("study")
	_ = cmd.MarkFlagRequired("field")
	return cmd
}

func (c *cli) representativesCmd() *cobra.Command {
	var studyName string
	cmd := &cobra.Command{
		Use:   "representatives FILE",
		Short: "Replace cluster representatives from a cluster file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStudy(cmd.Context(), studyName, func(ctx context.Context, svc *service.Service, st *models.Study) error {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()

				result, err := svc.AssignRepresentatives(ctx, st.ID, f)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.out, "clusters %d, representatives %d, assigned %d, skipped %d\n",
					result.Clusters, result.Representatives, result.Assigned, len(result.Skipped))
				for _, acc := range result.Skipped {
					fmt.Fprintf(c.out, "skipped\t%s\n", acc)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&studyName, "study", "", "study name")
	_ = cmd.MarkFlagRequired("study")
	return cmd
}

func (c *cli) filterCmd() *cobra.Command {
	var studyName, format string
	filter := models.DefaultQualityFilter()
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "List genomes passing CheckM quality thresholds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return c.withStudy(cmd.Context(), studyName, func(ctx context.Context, svc *service.Service, st *models.Study) error {
				result, err := svc.FilterGenomes(ctx, st.ID, filter)
				if err != nil {
					return err
				}
				if format == "yaml" {
					return writeYAML(c.out, result)
				}

				tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ACCESSION\tCOMPLETENESS\tCONTAMINATION\tQUALITY\tMIMAG\tNOTE")
				for _, g := range result.Kept {
					note := ""
					if g.Retained {
						note = "retained representative"
					}
					fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%s\t%s\n",
						g.Genome.Accession, g.Completeness, g.Contamination, g.Quality, g.MIMAG, note)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "kept %d, filtered %d, no estimate %d\n",
					len(result.Kept), len(result.Filtered), len(result.NoEstimate))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&studyName, "study", "", "study name")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or yaml")
	cmd.Flags().Float64Var(&filter.MinCompleteness, "min-completeness", filter.MinCompleteness, "minimum CheckM completeness")
	cmd.Flags().Float64Var(&filter.MaxContamination, "max-contamination", filter.MaxContamination, "maximum CheckM contamination")
	cmd.Flags().Float64Var(&filter.MinQuality, "min-quality", filter.MinQuality, "minimum completeness - weight*contamination")
	cmd.Flags().Float64Var(&filter.Weight, "weight", filter.Weight, "contamination weight in the quality score")
	cmd.Flags().BoolVar(&filter.RetainRepresentatives, "retain-representatives", filter.RetainRepresentatives,
		"keep cluster representatives that fail the thresholds")
	_ = cmd.MarkFlagRequired("study")
	return cmd
}

func (c *cli) exportCmd() *cobra.Command {
	var studyName, format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print a study's stored record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ef, err := service.ParseExportFormat(format)
			if err != nil {
				return err
			}
			return c.withStudy(cmd.Context(), studyName, func(ctx context.Context, svc *service.Service, st *models.Study) error {
				return svc.ExportRecord(ctx, st.ID, c.out, ef)
			})
		},
	}
	cmd.Flags().StringVar(&studyName, "study", "", "study name")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or yaml")
	_ = cmd.MarkFlagRequired("study")
	return cmd
}

// withStudy opens the catalog, resolves the study by name and runs fn.
func (c *cli) withStudy(ctx context.Context, name string, fn func(context.Context, *service.Service, *models.Study) error) error {
	svc, closeFn, err := c.open(ctx, c.databaseURL, c.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeFn(); err != nil {
			c.logger.Warn("closing catalog failed", "error", err)
		}
	}()

	st, err := svc.GetStudyByName(ctx, name)
	if err != nil {
		return err
	}
	return fn(ctx, svc, st)
}

func readRecordFile(path string) (*record.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return record.DecodeYAML(f)
	default:
		return record.Parse(f)
	}
}

func checkFormat(format string) error {
	switch format {
	case "text", "yaml":
		return nil
	default:
		return dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("unknown format %q", format))
	}
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Join(fmt.Errorf("encode yaml: %w", err), enc.Close())
	}
	return enc.Close()
}
