package catalogue

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/discochess/gamefeatures/internal/codec"
	"github.com/discochess/gamefeatures/internal/moves"
)

// ErrUnknownFormat indicates a catalogue file whose format cannot be determined.
var ErrUnknownFormat = errors.New("catalogue: unknown format")

// Format identifies a catalogue encoding.
type Format string

const (
	// FormatJSON holds records keyed "ECO code", "name", "type", "clean_moves",
	// either as an array of records or as columns mapping row index to value.
	FormatJSON Format = "json"

	// FormatYAML is a list of records keyed eco_code, name, type, moves.
	FormatYAML Format = "yaml"

	// FormatTSV is tab-separated eco, name, pgn rows; type is derived from the ECO volume.
	FormatTSV Format = "tsv"
)

// record is the on-disk shape shared by the JSON and YAML formats.
type record struct {
	Code  string `json:"ECO code" yaml:"eco_code"`
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type" yaml:"type"`
	Moves string `json:"clean_moves" yaml:"moves"`
}

// FormatFromPath infers the format from a file name, ignoring any
// compression extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(codec.Strip(path))) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".tsv", ".txt":
		return FormatTSV, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Decode reads a catalogue in the given format.
func Decode(r io.Reader, f Format) (*Catalogue, error) {
	var (
		entries []Entry
		err     error
	)
	switch f {
	case FormatJSON:
		entries, err = decodeJSON(r)
	case FormatYAML:
		entries, err = decodeYAML(r)
	case FormatTSV:
		entries, err = decodeTSV(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return nil, err
	}
	return New(entries)
}

func decodeJSON(r io.Reader) ([]Entry, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding JSON catalogue: %w", err)
	}

	var records []record
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '{' {
		var err error
		if records, err = fromColumns(trimmed); err != nil {
			return nil, err
		}
	} else if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decoding JSON catalogue: %w", err)
	}
	return fromRecords(records)
}

// fromColumns reads the column layout {"ECO code": {"0": "C60", ...}, ...},
// ordering rows by their numeric index.
func fromColumns(data []byte) ([]record, error) {
	var columns map[string]map[string]string
	if err := json.Unmarshal(data, &columns); err != nil {
		return nil, fmt.Errorf("decoding JSON catalogue columns: %w", err)
	}

	rows := make(map[int]*record)
	set := func(column string, field func(*record) *string) error {
		for key, v := range columns[column] {
			i, err := strconv.Atoi(key)
			if err != nil {
				return fmt.Errorf("%w: row index %q", ErrMalformedEntry, key)
			}
			rec, ok := rows[i]
			if !ok {
				rec = &record{}
				rows[i] = rec
			}
			*field(rec) = v
		}
		return nil
	}
	for column, field := range map[string]func(*record) *string{
		"ECO code":    func(r *record) *string { return &r.Code },
		"name":        func(r *record) *string { return &r.Name },
		"type":        func(r *record) *string { return &r.Type },
		"clean_moves": func(r *record) *string { return &r.Moves },
	} {
		if err := set(column, field); err != nil {
			return nil, err
		}
	}

	index := make([]int, 0, len(rows))
	for i := range rows {
		index = append(index, i)
	}
	sort.Ints(index)

	records := make([]record, len(index))
	for n, i := range index {
		records[n] = *rows[i]
	}
	return records, nil
}

func decodeYAML(r io.Reader) ([]Entry, error) {
	var records []record
	if err := yaml.NewDecoder(r).Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("decoding YAML catalogue: %w", err)
	}
	return fromRecords(records)
}

func fromRecords(records []record) ([]Entry, error) {
	entries := make([]Entry, 0, len(records))
	for i, rec := range records {
		seq, err := moves.ParseMovetext(rec.Moves)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w: %v", i, rec.Code, ErrMalformedEntry, err)
		}
		entries = append(entries, Entry{
			Code:  strings.TrimSpace(rec.Code),
			Name:  strings.TrimSpace(rec.Name),
			Type:  strings.TrimSpace(rec.Type),
			Moves: seq,
		})
	}
	return entries, nil
}

func decodeTSV(r io.Reader) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		cols := strings.Split(line, "\t")
		if len(cols) < 3 {
			return nil, fmt.Errorf("line %d: %w: want 3 columns, got %d", lineNo, ErrMalformedEntry, len(cols))
		}
		if lineNo == 1 && strings.EqualFold(cols[0], "eco") {
			continue // header
		}

		seq, err := moves.ParseMovetext(cols[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %v", lineNo, ErrMalformedEntry, err)
		}
		code := strings.TrimSpace(cols[0])
		entries = append(entries, Entry{
			Code:  code,
			Name:  strings.TrimSpace(cols[1]),
			Type:  VolumeType(code),
			Moves: seq,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading TSV catalogue: %w", err)
	}
	return entries, nil
}
