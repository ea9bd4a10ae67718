package votable

import (
	"fmt"
	"io"

	"github.com/astrogo/votable/internal/buf"
)

const (
	defaultRowBufferSize = 1 << 8
	minRowBufferSize     = 1 << 8
	maxRowBufferSize     = 1 << 24
	maxIndent            = 80
)

// Converter renders one cell value as already-escaped element text.
// It receives the raw value and that cell's mask entry.
type Converter func(value, mask any) (string, error)

// TabledataOption configures WriteTabledata.
type TabledataOption func(*tabledataConfig)

type tabledataConfig struct {
	writeNullValues bool
	indent          int
	bufferSize      int
}

// WriteNullValues makes masked cells render their converted value in
// full instead of collapsing to <TD/>.
func WriteNullValues(write bool) TabledataOption {
	return func(cfg *tabledataConfig) {
		cfg.writeNullValues = write
	}
}

// Indent sets the number of leading spaces per row block, clamped to
// [0, 80].
func Indent(n int) TabledataOption {
	return func(cfg *tabledataConfig) {
		cfg.indent = n
	}
}

// RowBufferSize hints the initial row buffer allocation, clamped to
// [256 B, 16 MiB].
func RowBufferSize(n int) TabledataOption {
	return func(cfg *tabledataConfig) {
		cfg.bufferSize = n
	}
}

// WriteTabledata serializes a row-major table as TABLEDATA rows:
// one <TR> block per row with one <TD> per cell.
//
// mask must have the same shape as rows. A cell whose mask entry is true
// (or, for []bool masks, all true) is written as the empty element <TD/>
// unless WriteNullValues is set. Cell text comes from the column's
// converter and is copied verbatim; converters are expected to escape.
// A nil converter slot falls back to Stringify.
//
// Each row is built in memory and flushed to w in a single Write, so
// peak memory is bounded by one serialized row. Rows already flushed
// when an error occurs are left as written.
func WriteTabledata(w io.Writer, rows, mask [][]any, converters []Converter, opts ...TabledataOption) error {
	if w == nil {
		return fmt.Errorf("votable: nil writer")
	}
	if len(mask) != len(rows) {
		return fmt.Errorf("votable: mask has %d rows, table has %d", len(mask), len(rows))
	}
	cfg := tabledataConfig{bufferSize: defaultRowBufferSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.indent = clamp(cfg.indent, 0, maxIndent)
	cfg.bufferSize = clamp(cfg.bufferSize, minRowBufferSize, maxRowBufferSize)

	row := buf.NewSize(cfg.bufferSize)
	for i := range rows {
		if len(rows[i]) != len(converters) {
			return fmt.Errorf("votable: row %d has %d cells, want %d", i, len(rows[i]), len(converters))
		}
		if len(mask[i]) != len(converters) {
			return fmt.Errorf("votable: mask row %d has %d cells, want %d", i, len(mask[i]), len(converters))
		}

		row.Reset()
		row.AppendRepeat(' ', cfg.indent)
		row.AppendString(" <TR>\n")

		for j := range rows[i] {
			elide := false
			if !cfg.writeNullValues {
				masked, err := allMasked(mask[i][j])
				if err != nil {
					return fmt.Errorf("votable: row %d col %d: %w", i, j, err)
				}
				elide = masked
			}

			row.AppendRepeat(' ', cfg.indent)
			if elide {
				row.AppendString("  <TD/>\n")
				continue
			}

			conv := converters[j]
			if conv == nil {
				conv = Stringify
			}
			text, err := conv(rows[i][j], mask[i][j])
			if err != nil {
				return fmt.Errorf("votable: row %d col %d: %w", i, j, err)
			}
			row.AppendString("  <TD>")
			row.AppendString(text)
			row.AppendString("</TD>\n")
		}

		row.AppendRepeat(' ', cfg.indent)
		row.AppendString(" </TR>\n")

		if _, err := w.Write(row.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// allMasked reduces one cell's mask entry. Scalar bools report
// themselves; a compound mask counts as masked only when every position
// is masked. nil means unmasked.
func allMasked(mask any) (bool, error) {
	switch m := mask.(type) {
	case nil:
		return false, nil
	case bool:
		return m, nil
	case []bool:
		for _, masked := range m {
			if !masked {
				return false, nil
			}
		}
		return true, nil
	default:
		return false, fmt.Errorf("unsupported mask type %T", mask)
	}
}
