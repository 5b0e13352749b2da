package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/paul-ww/ocmf-go/internal/format"
	"github.com/paul-ww/ocmf-go/internal/ocmf"
	"github.com/paul-ww/ocmf-go/internal/output"
	"github.com/paul-ww/ocmf-go/internal/qr"
	"github.com/paul-ww/ocmf-go/internal/transparency"
	"github.com/spf13/cobra"
)

var decodeQRImage bool

var decodeCmd = &cobra.Command{
	Use:   "decode [input]",
	Short: "Parse and display an OCMF record",
	Long: `Decodes an OCMF record and displays its payload and signature sections.
Input can be a file path, a raw record string, or piped via stdin; hex-wrapped
records and transparency XML containers are detected automatically. With --qr
the input is an image file containing the record as a QR code.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().BoolVar(&decodeQRImage, "qr", false, "Treat input as an image file with a QR code")
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	raw, err := readRecordInput(args, decodeQRImage)
	if err != nil {
		return err
	}
	opts := outputOptions()

	switch format.Detect(raw) {
	case format.FormatOCMF, format.FormatHexOCMF:
		rec, err := ocmf.Parse(raw)
		if err != nil {
			return fmt.Errorf("parsing record: %w", err)
		}
		output.PrintRecord(rec, opts)

	case format.FormatXML:
		datasets, err := transparency.Parse([]byte(raw))
		if err != nil {
			return fmt.Errorf("parsing transparency container: %w", err)
		}
		for _, ds := range datasets {
			rec, err := ds.Record()
			if err != nil {
				return fmt.Errorf("parsing record from container: %w", err)
			}
			output.PrintRecord(rec, opts)
		}

	default:
		return fmt.Errorf("input is not an OCMF record, hex-wrapped record, or transparency XML")
	}

	return nil
}

// readRecordInput resolves the positional argument to raw record material,
// optionally by scanning a QR code image. Image files are routed to the QR
// scanner by extension even without --qr.
func readRecordInput(args []string, qrImage bool) (string, error) {
	input := ""
	if len(args) > 0 {
		input = args[0]
	}
	if qrImage || isImagePath(input) {
		if input == "" {
			return "", fmt.Errorf("--qr requires an image file path")
		}
		return qr.ScanFile(input)
	}
	return format.ReadInput(input)
}

func isImagePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}
