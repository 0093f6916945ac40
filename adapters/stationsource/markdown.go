package stationsource

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"

	"fishtrack/domain/stationmap"
)

// MarkdownSource loads a station mapping from the default mapping file
// format named in the CLI surface (./data/station_names.md): a single
// markdown table with the same old_name, new_name, receiver_id columns
// the CSV loader expects.
type MarkdownSource struct {
	path string
}

// NewMarkdownSource returns a MarkdownSource reading path.
func NewMarkdownSource(path string) *MarkdownSource {
	return &MarkdownSource{path: path}
}

// LoadStationMapping parses the markdown table at path into a Mapping.
func (s *MarkdownSource) LoadStationMapping(ctx context.Context) (*stationmap.Mapping, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("stationsource: read %s: %w", s.path, err)
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := markdown.Parse(data, p)

	var header []string
	var rows []stationmap.Row
	var currentRow []string
	inHeader := false

	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		switch n := node.(type) {
		case *ast.TableHeader:
			inHeader = entering
		case *ast.TableRow:
			if entering {
				currentRow = nil
				return ast.GoToNext
			}
			if inHeader {
				header = append([]string(nil), currentRow...)
			} else {
				rows = append(rows, rowFromCells(header, currentRow))
			}
		case *ast.TableCell:
			if entering {
				currentRow = append(currentRow, cellText(n))
			}
		}
		return ast.GoToNext
	})

	if header == nil {
		return nil, fmt.Errorf("stationsource: %s contains no table", s.path)
	}

	return stationmap.New(rows), nil
}

func cellText(cell *ast.TableCell) string {
	var sb strings.Builder
	ast.WalkFunc(cell, func(node ast.Node, entering bool) ast.WalkStatus {
		if entering {
			if text, ok := node.(*ast.Text); ok {
				sb.Write(text.Literal)
			}
		}
		return ast.GoToNext
	})
	return strings.TrimSpace(sb.String())
}

func rowFromCells(header, cells []string) stationmap.Row {
	get := func(name string) string {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) && i < len(cells) {
				return cells[i]
			}
		}
		return ""
	}
	return stationmap.Row{
		OldName:    get("old_name"),
		NewName:    get("new_name"),
		ReceiverID: get("receiver_id"),
	}
}
