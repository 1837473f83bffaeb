package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"mentor-matching/internal/matching"
	"mentor-matching/internal/models"
	"mentor-matching/pkg/registry"
)

var (
	strongColor = color.New(color.FgGreen, color.Bold)
	middleColor = color.New(color.FgYellow)
	weakColor   = color.New(color.FgRed)
)

// colorStrength labels pct and colours it by band.
func colorStrength(pct int) string {
	label := matching.StrengthLabel(pct)
	switch label {
	case matching.StrengthExcellent, matching.StrengthGreat:
		return strongColor.Sprint(label)
	case matching.StrengthGood, matching.StrengthFair:
		return middleColor.Sprint(label)
	default:
		return weakColor.Sprint(label)
	}
}

func writeRankTable(w io.Writer, results []matching.MatchResult, total int) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Rank", "Candidate", "Name", "Score", "Match", "Strength", "Reasons"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	data := make([][]string, 0, len(results))
	for i, r := range results {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			r.Candidate.ID,
			r.Candidate.DisplayName(),
			strconv.Itoa(r.Score),
			fmt.Sprintf("%d%%", r.Percentage),
			colorStrength(r.Percentage),
			strings.Join(r.Reasons, "; "),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d of %d matches at or above %d%%\n", len(results), total, matching.RelevanceFloor)
	return err
}

func writeScore(w io.Writer, subject *models.Profile, r *matching.MatchResult) error {
	if _, err := fmt.Fprintf(w, "%s -> %s: %d points, %d%% (%s)\n",
		subject.ID, r.Candidate.ID, r.Score, r.Percentage, colorStrength(r.Percentage)); err != nil {
		return err
	}
	if len(r.Reasons) == 0 {
		_, err := fmt.Fprintln(w, "No matching reasons")
		return err
	}

	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()
	table.Header([]string{"Category", "Reason"})
	data := make([][]string, 0, len(r.Reasons))
	for _, reason := range r.Reasons {
		data = append(data, []string{matching.ReasonCategory(reason), reason})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeLevels(w io.Writer) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Rank", "Education level"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	var data [][]string
	for _, level := range matching.EducationLevels() {
		rank, err := matching.EncodeEducation(level)
		if err != nil {
			return err
		}
		data = append(data, []string{strconv.Itoa(rank), level})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeTasks(w io.Writer, reg *registry.ActivityRegistry) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Task type", "Name", "Status", "Timeout", "Retries", "Error codes"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	data := make([][]string, 0, len(reg.Activities))
	for _, a := range reg.Activities {
		data = append(data, []string{
			a.TaskType,
			a.DisplayName,
			a.ImplementationStatus,
			a.Timeout,
			strconv.Itoa(a.Retries),
			strconv.Itoa(len(a.ErrorCodes)),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Registry %s: %d task types\n", reg.Version, len(reg.Activities))
	return err
}
