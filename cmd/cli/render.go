package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"ingredient-safety/internal/core/faq"
	"ingredient-safety/internal/pkg/common"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	nameStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	levelStyles = map[common.SafetyLevel]lipgloss.Style{
		common.SafetyLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		common.SafetyModerate: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		common.SafetyHigh:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
	}
)

type analyzeOutput struct {
	Ingredients []common.IngredientRecord `json:"ingredients"`
	Summary     common.AnalysisSummary    `json:"summary"`
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func levelBadge(r common.IngredientRecord) string {
	return levelStyles[r.SafetyLevel].Render(fmt.Sprintf("%2d %-8s", r.EWGScore, r.SafetyLevel))
}

func printRecords(w io.Writer, records []common.IngredientRecord, summary common.AnalysisSummary) {
	if len(records) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No ingredients found."))
		return
	}

	fmt.Fprintf(w, "\n%s\n\n", headerStyle.Render(fmt.Sprintf("Ingredient safety (%d)", len(records))))
	for _, r := range records {
		fmt.Fprintf(w, "  %s  %s  %s\n", levelBadge(r), nameStyle.Render(r.Name), dimStyle.Render(r.Function))
		fmt.Fprintf(w, "              %s\n", r.ReasonForConcern)
	}

	fmt.Fprintf(w, "\n  Low %d · Moderate %d · High %d · average %.2f\n",
		summary.Levels[common.SafetyLow],
		summary.Levels[common.SafetyModerate],
		summary.Levels[common.SafetyHigh],
		summary.AverageScore,
	)
	if summary.HighestConcern != "" {
		fmt.Fprintf(w, "  Highest concern: %s (%d)\n", nameStyle.Render(summary.HighestConcern), summary.HighestScore)
	}
	fmt.Fprintln(w)
}

func printRecord(w io.Writer, r common.IngredientRecord) {
	fmt.Fprintf(w, "\n%s  %s\n\n", nameStyle.Render(r.Name), levelBadge(r))
	rows := [][2]string{
		{"Function", r.Function},
		{"Concern", r.ReasonForConcern},
		{"Common use", r.CommonUse},
		{"Scientific name", r.ScientificName},
		{"Benefits", r.Benefits},
		{"Restrictions", r.Restrictions},
		{"Alternatives", r.NaturalAlternatives},
		{"Research", r.ResearchLinks},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		fmt.Fprintf(w, "  %-16s %s\n", dimStyle.Render(row[0]), row[1])
	}
	fmt.Fprintln(w)
}

func printAnswer(w io.Writer, a faq.Answer) {
	if a.Matched {
		fmt.Fprintf(w, "\n%s\n", headerStyle.Render(a.Topic))
	}
	fmt.Fprintf(w, "\n%s\n", a.Answer)
	if len(a.RelatedTopics) > 0 {
		fmt.Fprintf(w, "\n%s %v\n", dimStyle.Render("Related:"), a.RelatedTopics)
	}
	fmt.Fprintln(w)
}
