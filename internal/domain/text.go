package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// alphabet holds the cell characters in value order: value 1 is '1',
// value 10 is 'A', up to MaxSize.
const alphabet = "123456789ABCDEFGHIJKLMNOP"

// ValueRune returns the character for value v, or '.' for empty.
func ValueRune(v uint8) byte {
	if v == 0 {
		return '.'
	}
	return alphabet[v-1]
}

// ParseBoard builds a board from a row-major cell string. Use '.' or '0'
// for empty cells. Whitespace is ignored, so multi-line input is fine.
func ParseBoard(geo Geometry, s string) (*Board, error) {
	if !geo.Valid() {
		return nil, fmt.Errorf("unsupported geometry %dx%d boxes", geo.BoxRows, geo.BoxCols)
	}
	var cells []byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case ' ', '\t', '\n', '\r', '|', '+', '-':
			continue
		}
		cells = append(cells, ch)
	}
	if len(cells) != geo.CellCount() {
		return nil, fmt.Errorf("expected %d cells, got %d", geo.CellCount(), len(cells))
	}
	b := NewBoard(geo)
	size := geo.Size()
	for pos, ch := range cells {
		if ch == '.' || ch == '0' {
			continue
		}
		idx := strings.IndexByte(alphabet, ch)
		if idx < 0 || idx >= size {
			return nil, fmt.Errorf("invalid character %q at position %d", ch, pos)
		}
		b.Values[pos] = uint8(idx + 1)
	}
	return b, nil
}

// String returns the board as a single row-major line, '.' for empty.
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow(len(b.Values))
	for _, v := range b.Values {
		sb.WriteByte(ValueRune(v))
	}
	return sb.String()
}

// Format returns a human-readable representation with box separators.
func (b *Board) Format() string {
	size := b.Geometry.Size()
	var sb strings.Builder
	line := boxLine(b.Geometry)
	sb.WriteString(line)
	for r := 0; r < size; r++ {
		sb.WriteString("| ")
		for c := 0; c < size; c++ {
			sb.WriteByte(ValueRune(b.At(r, c)))
			if (c+1)%b.Geometry.BoxCols == 0 {
				sb.WriteString(" | ")
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
		if (r+1)%b.Geometry.BoxRows == 0 {
			sb.WriteString(line)
		}
	}
	return sb.String()
}

// boardJSON is the wire form of a Board. Values go as the textual cell
// string rather than a raw byte slice, which encoding/json would base64.
type boardJSON struct {
	Geometry Geometry `json:"geometry"`
	Cells    string   `json:"cells"`
	Fixed    []bool   `json:"fixed,omitempty"`
}

func (b Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(boardJSON{Geometry: b.Geometry, Cells: b.String(), Fixed: b.Fixed})
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var raw boardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseBoard(raw.Geometry, raw.Cells)
	if err != nil {
		return err
	}
	*b = *parsed
	b.Fixed = raw.Fixed
	return nil
}

func boxLine(geo Geometry) string {
	var sb strings.Builder
	for i := 0; i < geo.BoxRows; i++ {
		sb.WriteByte('+')
		sb.WriteString(strings.Repeat("-", geo.BoxCols*2+1))
	}
	sb.WriteString("+\n")
	return sb.String()
}
