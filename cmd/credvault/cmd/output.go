package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"

	"github.com/loganmanery/credvault/pkg/models"
)

var (
	success = color.New(color.FgGreen)
	warning = color.New(color.FgYellow)
)

const timeLayout = "2006-01-02 15:04"

// printSummaries renders credentials as a table
func printSummaries(w io.Writer, entries []models.Summary) {
	if len(entries) == 0 {
		warning.Fprintln(w, "No credentials found.")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "WEBSITE", "USERNAME", "UPDATED")

	for _, e := range entries {
		t.Row(strconv.FormatInt(e.ID, 10), e.Website, e.Username, e.UpdatedAt.Local().Format(timeLayout))
	}

	fmt.Fprintln(w, t.Render())
}
