package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/tealeg/xlsx"

	"minutes-whisper/internal/app/converter"
)

// WriteDocument saves a rendered minutes document as UTF-8 text.
func WriteDocument(outputFilePath, document string) error {
	if err := os.WriteFile(outputFilePath, []byte(document), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputFilePath, err)
	}
	return nil
}

// ToExcel writes one row per transcribed chunk with its time span.
func ToExcel(segments []converter.Segment, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Transcript")
	if err != nil {
		return err
	}

	headerRow := sheet.AddRow()
	headerRow.AddCell().Value = "Chunk"
	headerRow.AddCell().Value = "Start"
	headerRow.AddCell().Value = "End"
	headerRow.AddCell().Value = "Text"

	for _, s := range segments {
		row := sheet.AddRow()
		row.AddCell().SetInt(s.Index + 1)
		row.AddCell().Value = s.Start.String()
		row.AddCell().Value = s.End.String()
		row.AddCell().Value = strings.TrimSpace(s.Text)
	}

	return file.Save(outputFilePath)
}
