// Package main provides the entry point for the ATS resume optimizer CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ats",
	Short: "AI resume optimizer",
	Long:  "ATS tailors a resume to a specific job description with a generative engine, producing an optimized resume, a cover letter, a LinkedIn summary, and a keyword match analysis.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
