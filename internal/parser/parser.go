package parser

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	stderrors "errors"

	"github.com/telveo/xj/internal/errors"
	"github.com/telveo/xj/internal/models"
)

// Parse reads a single XML document from r and builds its Element tree.
// Comments, directives, and processing instructions are dropped. Character
// data counts as an element's own text only until its first child element;
// tail text between and after children is discarded.
func Parse(r io.Reader) (*models.Element, error) {
	dec := xml.NewDecoder(r)

	var root *models.Element
	var stack []*models.Element
	for {
		tok, err := dec.Token()
		if err != nil {
			if stderrors.Is(err, io.EOF) {
				break
			}
			var syntaxErr *xml.SyntaxError
			if stderrors.As(err, &syntaxErr) {
				return nil, errors.NewParseError(
					fmt.Sprintf("malformed XML on line %d: %s", syntaxErr.Line, syntaxErr.Msg),
					errors.ErrMalformedXML,
				)
			}
			return nil, errors.NewParseError("failed to read XML input", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &models.Element{Name: t.Name}
			for _, a := range t.Attr {
				if isNamespaceDecl(a.Name) {
					continue
				}
				el.Attrs = append(el.Attrs, models.Attr{Name: a.Name, Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.NewParseError("multiple root elements", errors.ErrMalformedXML)
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			current := stack[len(stack)-1]
			if len(current.Children) == 0 {
				current.Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, errors.NewParseError("no root element found", errors.ErrEmptyInput)
	}
	if len(stack) != 0 {
		// The decoder normally reports this itself before EOF.
		return nil, errors.NewParseError("unexpected end of input", errors.ErrMalformedXML)
	}
	return root, nil
}

// isNamespaceDecl reports whether a is an xmlns declaration rather than a
// data attribute. Declarations carry no converted value.
func isNamespaceDecl(n xml.Name) bool {
	return n.Space == "xmlns" || (n.Space == "" && n.Local == "xmlns")
}

// ParseString parses an XML document from a string
func ParseString(xmlString string) (*models.Element, error) {
	if strings.TrimSpace(xmlString) == "" {
		return nil, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(xmlString))
}

// ParseFile parses an XML document from a file path
func ParseFile(filePath string) (*models.Element, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}

	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to access file '%s'", filePath),
			err,
		)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.NewInputError(
			fmt.Sprintf("'%s' is not a regular file", filePath),
			errors.ErrNotRegularFile,
		)
	}
	if info.Size() == 0 {
		return nil, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}
	if !strings.HasSuffix(strings.ToLower(filePath), ".xml") {
		slog.Warn("input file doesn't have .xml extension", "path", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			slog.Warn("error closing file", "path", filePath, "error", err)
		}
	}()

	return Parse(file)
}
