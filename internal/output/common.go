package output

import (
	"io"
	"os"
)

const reportDateTimeLayout = "2006-01-02T15:04:05"

func limitTop[T any](items []T, top int) []T {
	if top <= 0 || top >= len(items) {
		return items
	}
	return items[:top]
}

// openOutputWriter returns the file at outputPath, or stdout when the path is empty.
// The returned file is nil for stdout.
func openOutputWriter(options OutputOptions) (io.Writer, *os.File, error) {
	if options.OutputPath == "" {
		if options.Stdout != nil {
			return options.Stdout, nil, nil
		}
		return os.Stdout, nil, nil
	}
	file, err := os.Create(options.OutputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}
