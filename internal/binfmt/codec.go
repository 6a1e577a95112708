// Package binfmt reads and writes table snapshots in a fixed little-endian
// binary layout. One file per table:
//
//	magic "TOPQLBIN" | version u8 | colcount u32
//	per column: namelen u16 | name | typecode u8
//	rowcount u32
//	per row, values in column order:
//	  INT     -> i64
//	  VARCHAR -> len u32 | bytes
//	  BOOLEAN -> u8 (0 or 1)
package binfmt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tuannm99/topql/internal/alias/bx"
	"github.com/tuannm99/topql/internal/storage"
)

const (
	magic   = "TOPQLBIN"
	version = 1
)

// FormatError reports a malformed or truncated snapshot file.
type FormatError struct {
	Msg string
}

func (e *FormatError) Error() string { return "binfmt: " + e.Msg }

func formatErrorf(format string, args ...any) *FormatError {
	return &FormatError{Msg: fmt.Sprintf(format, args...)}
}

// Store persists table snapshots as <name>.bin files under one directory.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("binfmt: create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

// Path returns the snapshot file path for a table name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+".bin")
}

// Save writes a full snapshot of t, replacing any previous one.
func (s *Store) Save(t *storage.Table) error {
	data := Encode(t.Columns(), t.Rows())
	if err := os.WriteFile(s.Path(t.Name()), data, 0o644); err != nil {
		return fmt.Errorf("binfmt: write snapshot for '%s': %w", t.Name(), err)
	}
	return nil
}

// Load reads the snapshot for name and returns its schema and rows.
func (s *Store) Load(name string) ([]storage.Column, []storage.Row, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return nil, nil, fmt.Errorf("binfmt: read snapshot for '%s': %w", name, err)
	}
	return Decode(data)
}

// ListTables returns the table names that have snapshots, sorted by the
// directory walk order of Glob (lexical).
func (s *Store) ListTables() ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.bin"))
	if err != nil {
		return nil, fmt.Errorf("binfmt: scan data dir: %w", err)
	}
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		names = append(names, strings.TrimSuffix(filepath.Base(p), ".bin"))
	}
	return names, nil
}

// Remove deletes the snapshot for name. Missing files are not an error.
func (s *Store) Remove(name string) error {
	err := os.Remove(s.Path(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("binfmt: remove snapshot for '%s': %w", name, err)
	}
	return nil
}

// Encode serializes a schema and its rows. Row values are read positionally
// by column; callers must pass rows that carry every column.
func Encode(cols []storage.Column, rows []storage.Row) []byte {
	buf := make([]byte, 0, 64+len(rows)*16)
	buf = append(buf, magic...)
	buf = append(buf, version)

	buf = bx.AppendU32(buf, uint32(len(cols)))
	for _, c := range cols {
		buf = bx.AppendU16(buf, uint16(len(c.Name)))
		buf = append(buf, c.Name...)
		buf = append(buf, byte(c.Type))
	}

	buf = bx.AppendU32(buf, uint32(len(rows)))
	for _, row := range rows {
		for _, c := range cols {
			switch c.Type {
			case storage.TypeInt:
				buf = bx.AppendI64(buf, row[c.Name].(int64))
			case storage.TypeText:
				s := row[c.Name].(string)
				buf = bx.AppendU32(buf, uint32(len(s)))
				buf = append(buf, s...)
			case storage.TypeBool:
				if row[c.Name].(bool) {
					buf = append(buf, 1)
				} else {
					buf = append(buf, 0)
				}
			}
		}
	}
	return buf
}

// Decode parses a snapshot produced by Encode. Every read is bounds checked;
// a short or corrupt file yields a FormatError, never a panic.
func Decode(data []byte) ([]storage.Column, []storage.Row, error) {
	r := reader{data: data}

	head, err := r.bytes(len(magic))
	if err != nil {
		return nil, nil, err
	}
	if string(head) != magic {
		return nil, nil, formatErrorf("bad magic %q", head)
	}
	ver, err := r.byte()
	if err != nil {
		return nil, nil, err
	}
	if ver != version {
		return nil, nil, formatErrorf("unsupported version %d", ver)
	}

	colCount, err := r.u32()
	if err != nil {
		return nil, nil, err
	}
	cols := make([]storage.Column, 0, colCount)
	for i := uint32(0); i < colCount; i++ {
		nameLen, err := r.u16()
		if err != nil {
			return nil, nil, err
		}
		name, err := r.bytes(int(nameLen))
		if err != nil {
			return nil, nil, err
		}
		code, err := r.byte()
		if err != nil {
			return nil, nil, err
		}
		typ := storage.ColumnType(code)
		switch typ {
		case storage.TypeInt, storage.TypeText, storage.TypeBool:
		default:
			return nil, nil, formatErrorf("unknown type code %d for column '%s'", code, name)
		}
		cols = append(cols, storage.Column{Name: string(name), Type: typ})
	}

	rowCount, err := r.u32()
	if err != nil {
		return nil, nil, err
	}
	rows := make([]storage.Row, 0, rowCount)
	for i := uint32(0); i < rowCount; i++ {
		row := make(storage.Row, len(cols))
		for _, c := range cols {
			switch c.Type {
			case storage.TypeInt:
				v, err := r.i64()
				if err != nil {
					return nil, nil, err
				}
				row[c.Name] = v
			case storage.TypeText:
				n, err := r.u32()
				if err != nil {
					return nil, nil, err
				}
				b, err := r.bytes(int(n))
				if err != nil {
					return nil, nil, err
				}
				row[c.Name] = string(b)
			case storage.TypeBool:
				b, err := r.byte()
				if err != nil {
					return nil, nil, err
				}
				row[c.Name] = b != 0
			}
		}
		rows = append(rows, row)
	}
	return cols, rows, nil
}

// reader is a bounds-checked cursor over the snapshot bytes.
type reader struct {
	data []byte
	off  int
}

func (r *reader) bytes(n int) ([]byte, error) {
	if n < 0 || r.off+n > len(r.data) {
		return nil, formatErrorf("truncated file: need %d bytes at offset %d, have %d", n, r.off, len(r.data)-r.off)
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) byte() (byte, error) {
	b, err := r.bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) u16() (uint16, error) {
	b, err := r.bytes(2)
	if err != nil {
		return 0, err
	}
	return bx.U16(b), nil
}

func (r *reader) u32() (uint32, error) {
	b, err := r.bytes(4)
	if err != nil {
		return 0, err
	}
	return bx.U32(b), nil
}

func (r *reader) i64() (int64, error) {
	b, err := r.bytes(8)
	if err != nil {
		return 0, err
	}
	return bx.I64(b), nil
}
