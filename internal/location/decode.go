package location

import (
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

// Decode reads a JSON array of location objects. When typeFilter is non-empty,
// rows whose "type" differs are skipped. Every kept row needs a name and a
// positive extra.baseDropRate.
func Decode(raw []byte, typeFilter string) (*Table, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("locations: invalid json")
	}
	parsed := gjson.ParseBytes(raw)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("locations: root must be an array")
	}
	typeFilter = strings.TrimSpace(typeFilter)
	var (
		rows   []Row
		idx    int
		rowErr error
	)
	parsed.ForEach(func(_, node gjson.Result) bool {
		idx++
		if typeFilter != "" && node.Get("type").String() != typeFilter {
			return true
		}
		row, err := decodeRow(idx, node)
		if err != nil {
			rowErr = err
			return false
		}
		rows = append(rows, row)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	return NewTable(rows)
}

// LoadFile reads and decodes a locations file.
func LoadFile(path, typeFilter string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read locations failed: %w", err)
	}
	table, err := Decode(raw, typeFilter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

func decodeRow(idx int, node gjson.Result) (Row, error) {
	name := node.Get("name")
	if name.Type != gjson.String || name.String() == "" {
		return Row{}, fmt.Errorf("locations: entry #%d missing name", idx)
	}
	rate := node.Get("extra.baseDropRate")
	if rate.Type != gjson.Number {
		return Row{}, fmt.Errorf("locations: %q missing extra.baseDropRate", name.String())
	}
	if rate.Float() <= 0 {
		return Row{}, fmt.Errorf("locations: %q baseDropRate must be > 0", name.String())
	}
	return Row{
		ID:           node.Get("jsonId").String(),
		Name:         name.String(),
		Image:        node.Get("image").String(),
		Type:         node.Get("type").String(),
		Path:         node.Get("fields.path").String(),
		BaseDropRate: rate.Float(),
	}, nil
}
