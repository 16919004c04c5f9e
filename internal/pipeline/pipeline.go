package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/telveo/xj/internal/converter"
	"github.com/telveo/xj/internal/encoder"
	"github.com/telveo/xj/internal/errors"
	"github.com/telveo/xj/internal/parser"
)

// Stdout is the destination for "-" outputs. Variable so tests can
// capture it.
var Stdout io.Writer = os.Stdout

// ConvertFile converts one XML file to JSON. An empty outputPath derives
// the output name from the input ("doc.xml" -> "doc.json"); "-" writes to
// stdout. The output directory is created when missing.
func ConvertFile(inputPath, outputPath string, opts converter.Options) error {
	slog.Debug("parsing XML file", "path", inputPath)
	root, err := parser.ParseFile(inputPath)
	if err != nil {
		return err
	}

	value := converter.Document(root, opts)

	if outputPath == "-" {
		if err := encoder.Encode(Stdout, value, opts.PrettyPrint); err != nil {
			return err
		}
		slog.Info("JSON output written to stdout", "input", inputPath)
		return nil
	}

	if outputPath == "" {
		outputPath = replaceExt(inputPath, ".json")
	}
	if dir := filepath.Dir(outputPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.NewOutputError(
				fmt.Sprintf("failed to create output directory '%s'", dir),
				err,
			)
		}
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return errors.NewOutputError(
			fmt.Sprintf("failed to create output file '%s'", outputPath),
			err,
		)
	}
	if err := encoder.Encode(out, value, opts.PrettyPrint); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return errors.NewOutputError(
			fmt.Sprintf("failed to write output file '%s'", outputPath),
			err,
		)
	}

	logSizes(inputPath, outputPath)
	return nil
}

// ConvertDir converts every *.xml file directly inside inputDir, writing
// the results to outputDir (inputDir itself when empty). Each file
// converts independently; one failure never aborts the batch. An error is
// returned when no XML files exist or when not every file converted.
func ConvertDir(inputDir, outputDir string, opts converter.Options) error {
	info, err := os.Stat(inputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewInputError(
				fmt.Sprintf("input directory '%s' does not exist", inputDir),
				errors.ErrFileNotFound,
			)
		}
		return errors.NewInputError(
			fmt.Sprintf("failed to access directory '%s'", inputDir),
			err,
		)
	}
	if !info.IsDir() {
		return errors.NewInputError(
			fmt.Sprintf("'%s' is not a directory", inputDir),
			errors.ErrNotDirectory,
		)
	}

	if outputDir == "" {
		outputDir = inputDir
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return errors.NewInputError(
			fmt.Sprintf("failed to read directory '%s'", inputDir),
			err,
		)
	}

	var xmlFiles []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.EqualFold(filepath.Ext(entry.Name()), ".xml") {
			xmlFiles = append(xmlFiles, entry.Name())
		}
	}
	if len(xmlFiles) == 0 {
		return errors.NewInputError(
			fmt.Sprintf("no XML files found in directory '%s'", inputDir),
			errors.ErrNoXMLFiles,
		)
	}

	slog.Info("found XML files to convert", "count", len(xmlFiles), "dir", inputDir)

	converted := 0
	for _, name := range xmlFiles {
		inputPath := filepath.Join(inputDir, name)
		outputPath := filepath.Join(outputDir, replaceExt(name, ".json"))

		slog.Info("converting", "file", name)
		if err := ConvertFile(inputPath, outputPath, opts); err != nil {
			slog.Error("conversion failed", "file", name, "error", errors.UserFriendlyError(err))
			continue
		}
		converted++
	}

	slog.Info("batch conversion completed", "converted", converted, "total", len(xmlFiles))
	if converted != len(xmlFiles) {
		return errors.NewOutputError(
			fmt.Sprintf("converted %d of %d files", converted, len(xmlFiles)),
			errors.ErrBatchIncomplete,
		)
	}
	return nil
}

// replaceExt swaps the file extension of path for ext.
func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// logSizes reports the input and output file sizes after a conversion.
func logSizes(inputPath, outputPath string) {
	inputInfo, err := os.Stat(inputPath)
	if err != nil {
		return
	}
	outputInfo, err := os.Stat(outputPath)
	if err != nil {
		return
	}
	slog.Info("converted",
		"input", inputPath,
		"output", outputPath,
		"input_bytes", inputInfo.Size(),
		"output_bytes", outputInfo.Size(),
	)
}
