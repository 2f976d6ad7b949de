package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/justsurfingit/cover-letter-studio/internal/config"
	"github.com/justsurfingit/cover-letter-studio/internal/models"
	"github.com/justsurfingit/cover-letter-studio/internal/services"
)

type submitOptions struct {
	resume             string
	jobDescription     string
	jobDescriptionFile string
	outDir             string
	generatorURL       string
	timeout            time.Duration
	fields             map[string]*string
}

// personal info flags, keyed by field
var fieldFlags = map[string]string{
	models.FieldFullName:           "full-name",
	models.FieldAddress:            "address",
	models.FieldPhone:              "phone",
	models.FieldEmail:              "email",
	models.FieldHiringManagerName:  "hiring-manager-name",
	models.FieldHiringManagerTitle: "hiring-manager-title",
	models.FieldCompanyName:        "company-name",
	models.FieldCompanyAddress:     "company-address",
	models.FieldPositionTitle:      "position-title",
	models.FieldHowHeardAbout:      "how-heard-about",
}

func newSubmitCmd(variant models.Variant) *cobra.Command {
	opts := &submitOptions{fields: map[string]*string{}}

	use := "cover-letter"
	if variant == models.VariantResume {
		use = "improve-resume"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("%s: send a resume and job description, save %s", variant.Title(), variant.Filename()),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSubmit(cmd, variant, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.resume, "resume", "", "Path to the resume (.doc or .docx)")
	f.StringVar(&opts.jobDescription, "job-description", "", "Job description text")
	f.StringVar(&opts.jobDescriptionFile, "job-description-file", "", "Read the job description from a file (- for stdin)")
	f.StringVar(&opts.outDir, "out", ".", "Directory the document is saved into")
	f.StringVar(&opts.generatorURL, "generator-url", "", "Document service base URL (default from GENERATOR_URL)")
	f.DurationVar(&opts.timeout, "timeout", 0, "Overall request timeout (default from GENERATOR_TIMEOUT)")
	_ = cmd.MarkFlagRequired("resume")
	cmd.MarkFlagsMutuallyExclusive("job-description", "job-description-file")

	if variant.SendsPersonalInfo() {
		for _, key := range models.PersonalInfoFields {
			opts.fields[key] = f.String(fieldFlags[key], "", "Personal info: "+key)
		}
	}
	return cmd
}

func runSubmit(cmd *cobra.Command, variant models.Variant, opts *submitOptions) error {
	cfg, err := config.LoadGenerator()
	if err != nil {
		return err
	}
	if opts.generatorURL == "" {
		opts.generatorURL = cfg.URL
	}
	if opts.timeout == 0 {
		opts.timeout = cfg.Timeout
	}

	session := services.NewFormSession("cli")

	data, err := os.ReadFile(opts.resume)
	if err != nil {
		return fmt.Errorf("read resume: %w", err)
	}
	file, err := models.NewResumeFile(filepath.Base(opts.resume), "", data)
	if err != nil {
		return fmt.Errorf("%s: %w", opts.resume, err)
	}
	session.SetFile(file)

	jd, err := readJobDescription(cmd, opts)
	if err != nil {
		return err
	}
	session.SetJobDescription(jd)

	for _, key := range models.PersonalInfoFields {
		if v, ok := opts.fields[key]; ok {
			if err := session.SetField(key, *v); err != nil {
				return err
			}
		}
	}

	out := cmd.OutOrStdout()
	if variant.SendsPersonalInfo() {
		if missing := session.Snapshot().PersonalInfo.MissingRecommended(); len(missing) > 0 {
			flags := make([]string, 0, len(missing))
			for _, key := range missing {
				flags = append(flags, "--"+fieldFlags[key])
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  Recommended fields are empty: %s\n", strings.Join(flags, ", "))
		}
	}

	generator := services.NewGeneratorService(opts.generatorURL, opts.timeout, cfg.MaxDocumentBytes)
	dispatcher := services.NewDispatcher(generator, nil)
	dl := &services.FileDownloader{Dir: opts.outDir}

	fmt.Fprintf(out, "⏳ Generating %s via %s...\n", variant.Filename(), opts.generatorURL)
	err = dispatcher.Submit(cmd.Context(), session, variant, dl)

	var verr *services.ValidationError
	var terr *services.TransportError
	switch {
	case err == nil:
		fmt.Fprintf(out, "✅ Saved %s\n", dl.Path)
		return nil
	case errors.As(err, &verr):
		return errors.New(verr.Msg)
	case errors.As(err, &terr):
		return fmt.Errorf("%s (%v)", terr.UserMessage(), terr)
	default:
		return err
	}
}

func readJobDescription(cmd *cobra.Command, opts *submitOptions) (string, error) {
	switch opts.jobDescriptionFile {
	case "":
		return opts.jobDescription, nil
	case "-":
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read job description from stdin: %w", err)
		}
		return string(b), nil
	default:
		b, err := os.ReadFile(opts.jobDescriptionFile)
		if err != nil {
			return "", fmt.Errorf("read job description: %w", err)
		}
		return string(b), nil
	}
}
