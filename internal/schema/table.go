package schema

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Column counts per record kind.
const (
	classColumns    = 7
	propertyColumns = 12
)

// TableError reports a malformed Schema Table line.
type TableError struct {
	Line int
	Msg  string
}

func (e *TableError) Error() string {
	return fmt.Sprintf("schema table line %d: %s", e.Line, e.Msg)
}

// WriteTable encodes records as the canonical Schema Table.
// Domain and range columns are compacted with ns; a nil ns uses the defaults.
func WriteTable(w io.Writer, records []Record, ns *Namespaces) error {
	data, err := MarshalTable(records, ns)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// MarshalTable returns the canonical Schema Table bytes for records.
func MarshalTable(records []Record, ns *Namespaces) ([]byte, error) {
	if ns == nil {
		ns = DefaultNamespaces()
	}
	var buf bytes.Buffer
	for i, r := range records {
		var cols []string
		switch r.Kind {
		case KindClass:
			cols = []string{
				r.URI, string(KindClass), r.Name, r.Label, r.Comment,
				strings.Join(r.Parents, "|"),
				strconv.Itoa(int(r.Usage)),
			}
		case KindProperty:
			cols = []string{
				r.URI, string(KindProperty), r.Name, r.Label, r.Comment,
				r.Parent(),
				ns.Compact(r.Domain), ns.Compact(r.Range),
				r.Inverse,
				strconv.Itoa(keyOrderOrDefault(r.KeyOrder)),
				strconv.Itoa(int(r.Usage)),
				strconv.Itoa(int(r.Cardinality)),
			}
		default:
			return nil, fmt.Errorf("record %d (%s): unknown kind %q", i, r.URI, r.Kind)
		}
		for j, c := range cols {
			if j > 0 {
				buf.WriteByte('\t')
			}
			buf.WriteString(cleanField(c))
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// ReadTable decodes a Schema Table. Prefixed domain/range columns are
// expanded with ns; a nil ns uses the defaults. Blank lines are skipped.
func ReadTable(r io.Reader, ns *Namespaces) ([]Record, error) {
	if ns == nil {
		ns = DefaultNamespaces()
	}
	var records []Record
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		cols := strings.Split(text, "\t")
		if len(cols) < 2 {
			return nil, &TableError{Line: line, Msg: "missing kind column"}
		}
		rec, err := decodeRecord(cols, ns)
		if err != nil {
			return nil, &TableError{Line: line, Msg: err.Error()}
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read schema table: %w", err)
	}
	return records, nil
}

func decodeRecord(cols []string, ns *Namespaces) (Record, error) {
	switch Kind(cols[1]) {
	case KindClass:
		if len(cols) != classColumns {
			return Record{}, fmt.Errorf("class record has %d columns, want %d", len(cols), classColumns)
		}
		usage, err := parseUsage(cols[6])
		if err != nil {
			return Record{}, err
		}
		rec := Record{
			URI: cols[0], Kind: KindClass, Name: cols[2],
			Label: cols[3], Comment: cols[4], Usage: usage,
		}
		if cols[5] != "" {
			rec.Parents = strings.Split(cols[5], "|")
		}
		return rec, nil

	case KindProperty:
		if len(cols) != propertyColumns {
			return Record{}, fmt.Errorf("property record has %d columns, want %d", len(cols), propertyColumns)
		}
		rank, err := strconv.Atoi(cols[9])
		if err != nil {
			return Record{}, fmt.Errorf("key order %q: %w", cols[9], err)
		}
		usage, err := parseUsage(cols[10])
		if err != nil {
			return Record{}, err
		}
		card, err := strconv.Atoi(cols[11])
		if err != nil || (card != int(Single) && card != int(Multiple)) {
			return Record{}, fmt.Errorf("invalid cardinality %q", cols[11])
		}
		rec := Record{
			URI: cols[0], Kind: KindProperty, Name: cols[2],
			Label: cols[3], Comment: cols[4],
			Domain:      ns.Expand(cols[6]),
			Range:       ns.Expand(cols[7]),
			Inverse:     cols[8],
			KeyOrder:    rank,
			Usage:       usage,
			Cardinality: Cardinality(card),
		}
		if cols[5] != "" {
			rec.Parents = []string{cols[5]}
		}
		return rec, nil

	default:
		return Record{}, fmt.Errorf("unknown record kind %q", cols[1])
	}
}

func parseUsage(s string) (UsageFlag, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("usage flag %q: %w", s, err)
	}
	u := UsageFlag(n)
	if !u.Valid() {
		return 0, fmt.Errorf("usage flag %d out of range", n)
	}
	return u, nil
}

func keyOrderOrDefault(rank int) int {
	if rank == 0 {
		return DefaultKeyOrder
	}
	return rank
}

// cleanField keeps a column on one line: NFC-normalized, with raw tabs and
// newlines replaced by their two-character escape markers.
func cleanField(s string) string {
	s = norm.NFC.String(s)
	if !strings.ContainsAny(s, "\t\r\n") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", `\n`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\r", `\n`)
	return strings.ReplaceAll(s, "\t", `\t`)
}
