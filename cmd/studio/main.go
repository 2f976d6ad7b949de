// Command studio submits a resume and job description to the document service
// from the terminal and saves the returned .docx.
//
//	studio cover-letter --resume cv.docx --job-description-file jd.txt --full-name "Ada Lovelace"
//	studio improve-resume --resume cv.docx --job-description "Senior Go engineer"
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/justsurfingit/cover-letter-studio/internal/models"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "studio",
		Short:         "Generate cover letters and improve resumes with the document service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSubmitCmd(models.VariantCoverLetter))
	root.AddCommand(newSubmitCmd(models.VariantResume))
	return root
}
