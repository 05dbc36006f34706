package output

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// CSVAuthorWriter writes author reports as CSV.
type CSVAuthorWriter struct{}

// Write outputs the author report as CSV.
func (w *CSVAuthorWriter) Write(report *AuthorReport, options OutputOptions) error {
	items := limitTop(report.Items, options.Top)

	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	writer := csv.NewWriter(out)

	headers := []string{"Author", "Email", "Commits", "Files", "Added", "Deleted", "Partial", "MeanEntropy", "Languages"}
	if err := writer.Write(headers); err != nil {
		return err
	}

	for _, item := range items {
		row := []string{
			item.Author,
			item.Email,
			fmt.Sprintf("%d", item.Commits),
			fmt.Sprintf("%d", item.Files),
			fmt.Sprintf("%d", item.AddedLines),
			fmt.Sprintf("%d", item.DeletedLines),
			fmt.Sprintf("%d", item.Partial),
			fmt.Sprintf("%.6f", item.MeanEntropy),
			strings.Join(sortedLanguages(item.Languages), ";"),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// CSVLanguageWriter writes language reports as CSV.
type CSVLanguageWriter struct{}

// Write outputs the language report as CSV.
func (w *CSVLanguageWriter) Write(report *LanguageReport, options OutputOptions) error {
	items := limitTop(report.Items, options.Top)

	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	writer := csv.NewWriter(out)

	if err := writer.Write([]string{"Language", "Files", "Records", "Added", "Deleted"}); err != nil {
		return err
	}
	for _, item := range items {
		row := []string{
			item.Language,
			fmt.Sprintf("%d", item.Files),
			fmt.Sprintf("%d", item.Records),
			fmt.Sprintf("%d", item.AddedLines),
			fmt.Sprintf("%d", item.DeletedLines),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// CSVCommitWriter writes commit reports as CSV.
type CSVCommitWriter struct{}

// Write outputs the commit report as CSV.
func (w *CSVCommitWriter) Write(report *CommitReport, options OutputOptions) error {
	items := limitTop(report.Items, options.Top)

	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	writer := csv.NewWriter(out)

	headers := []string{"SHA", "Author", "Email", "Files", "Directories", "Subsystems", "Added", "Deleted", "Partial", "Entropy"}
	if err := writer.Write(headers); err != nil {
		return err
	}
	for _, item := range items {
		row := []string{
			item.CommitID,
			item.Author,
			item.Email,
			fmt.Sprintf("%d", item.FileCount),
			fmt.Sprintf("%d", item.DirectoryCount),
			fmt.Sprintf("%d", item.SubsystemCount),
			fmt.Sprintf("%d", item.LinesAdded),
			fmt.Sprintf("%d", item.LinesDeleted),
			fmt.Sprintf("%d", item.Partial),
			fmt.Sprintf("%.6f", item.ChangeEntropy),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
