package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	stderrors "errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/telveo/xj/internal/converter"
	"github.com/telveo/xj/internal/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "doc.xml")
	output := filepath.Join(dir, "doc.json")
	writeFile(t, input, `<library><book isbn="1"><title>Go</title></book><book isbn="2"><title>XML</title></book></library>`)

	err := ConvertFile(input, output, converter.Default())
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	out := string(data)
	assert.Equal(t, "Go", gjson.Get(out, "library.book.0.title").String())
	assert.Equal(t, "2", gjson.Get(out, `library.book.1.\@isbn`).String())
	assert.Equal(t, int64(2), gjson.Get(out, "library.book.#").Int())
}

func TestConvertFile_AutoDerivedOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "report.xml")
	writeFile(t, input, `<report status="ok"/>`)

	require.NoError(t, ConvertFile(input, "", converter.Default()))

	data, err := os.ReadFile(filepath.Join(dir, "report.json"))
	require.NoError(t, err)
	assert.Equal(t, "ok", gjson.Get(string(data), `report.\@status`).String())
}

func TestConvertFile_Stdout(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "doc.xml")
	writeFile(t, input, `<a>hi</a>`)

	var buf bytes.Buffer
	oldStdout := Stdout
	Stdout = &buf
	defer func() { Stdout = oldStdout }()

	opts := converter.Default()
	opts.PrettyPrint = false
	require.NoError(t, ConvertFile(input, "-", opts))

	assert.Equal(t, `{"a":"hi"}`+"\n", buf.String())
}

func TestConvertFile_CreatesOutputDirectory(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "doc.xml")
	output := filepath.Join(dir, "nested", "deep", "doc.json")
	writeFile(t, input, `<a/>`)

	require.NoError(t, ConvertFile(input, output, converter.Default()))

	_, err := os.Stat(output)
	assert.NoError(t, err)
}

func TestConvertFile_Options(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "doc.xml")
	output := filepath.Join(dir, "doc.json")
	writeFile(t, input, `<ns:a xmlns:ns="u"><ns:empty/></ns:a>`)

	opts := converter.Options{
		StripNamespaces:     true,
		EmptyElementsAsNull: true,
		PreserveRoot:        true,
	}
	require.NoError(t, ConvertFile(input, output, opts))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	out := string(data)
	assert.True(t, gjson.Get(out, "a.empty").Exists())
	assert.Equal(t, gjson.Null, gjson.Get(out, "a.empty").Type)
}

func TestConvertFile_ParseErrorPropagates(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "bad.xml")
	writeFile(t, input, `<a><b></a>`)

	err := ConvertFile(input, "", converter.Default())
	assert.True(t, stderrors.Is(err, errors.ErrMalformedXML))
}

func TestConvertDir(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeFile(t, filepath.Join(inputDir, "one.xml"), `<a>1</a>`)
	writeFile(t, filepath.Join(inputDir, "two.XML"), `<b>2</b>`)
	writeFile(t, filepath.Join(inputDir, "skip.txt"), `not xml`)

	require.NoError(t, ConvertDir(inputDir, outputDir, converter.Default()))

	one, err := os.ReadFile(filepath.Join(outputDir, "one.json"))
	require.NoError(t, err)
	assert.Equal(t, "1", gjson.Get(string(one), "a").String())

	two, err := os.ReadFile(filepath.Join(outputDir, "two.json"))
	require.NoError(t, err)
	assert.Equal(t, "2", gjson.Get(string(two), "b").String())

	_, err = os.Stat(filepath.Join(outputDir, "skip.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestConvertDir_DefaultsToInputDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "doc.xml"), `<a/>`)

	require.NoError(t, ConvertDir(dir, "", converter.Default()))

	_, err := os.Stat(filepath.Join(dir, "doc.json"))
	assert.NoError(t, err)
}

func TestConvertDir_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "good.xml"), `<a>ok</a>`)
	writeFile(t, filepath.Join(dir, "bad.xml"), `<a><b></a>`)

	err := ConvertDir(dir, "", converter.Default())
	assert.True(t, stderrors.Is(err, errors.ErrBatchIncomplete))

	// The good file converted anyway; the batch never aborts early.
	_, statErr := os.Stat(filepath.Join(dir, "good.json"))
	assert.NoError(t, statErr)
}

func TestConvertDir_NoXMLFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "readme.txt"), "hello")

	err := ConvertDir(dir, "", converter.Default())
	assert.True(t, stderrors.Is(err, errors.ErrNoXMLFiles))
}

func TestConvertDir_MissingDirectory(t *testing.T) {
	err := ConvertDir(filepath.Join(t.TempDir(), "missing"), "", converter.Default())
	assert.True(t, stderrors.Is(err, errors.ErrFileNotFound))
}

func TestConvertDir_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.xml")
	writeFile(t, file, `<a/>`)

	err := ConvertDir(file, "", converter.Default())
	assert.True(t, stderrors.Is(err, errors.ErrNotDirectory))
}

func TestReplaceExt(t *testing.T) {
	assert.Equal(t, "doc.json", replaceExt("doc.xml", ".json"))
	assert.Equal(t, "doc.json", replaceExt("doc.XML", ".json"))
	assert.Equal(t, "noext.json", replaceExt("noext", ".json"))
	assert.Equal(t, filepath.Join("a", "b.json"), replaceExt(filepath.Join("a", "b.xml"), ".json"))
}
