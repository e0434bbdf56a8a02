package settings

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	keyFiletype = "Filetype"
	keyVersion  = "Version"
)

var (
	ErrMissingHeader = errors.New("record header missing")
	ErrMissingKey    = errors.New("record key missing")

	// ErrUnstorable is returned for values that would not read back unchanged.
	ErrUnstorable = errors.New("value cannot be stored in a record")
)

// Record is a typed, versioned key/value file:
//
//	Filetype: <tag>
//	Version: <n>
//	key: value
//
// Blank lines and lines starting with '#' are ignored.
type Record struct {
	Filetype string
	Version  uint32
	fields   []field
}

type field struct {
	key   string
	value string
}

func NewRecord(filetype string, version uint32) *Record {
	return &Record{Filetype: filetype, Version: version}
}

// ReadRecord parses a record. The header keys must come first and in order.
func ReadRecord(r io.Reader) (*Record, error) {
	scanner := bufio.NewScanner(r)
	rec := &Record{}
	headerSeen := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("line %d: expected \"key: value\"", lineNo)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch headerSeen {
		case 0:
			if key != keyFiletype {
				return nil, fmt.Errorf("line %d: %w", lineNo, ErrMissingHeader)
			}
			rec.Filetype = value
			headerSeen++
			continue
		case 1:
			if key != keyVersion {
				return nil, fmt.Errorf("line %d: %w", lineNo, ErrMissingHeader)
			}
			version, err := strconv.ParseUint(value, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad version: %w", lineNo, err)
			}
			rec.Version = uint32(version)
			headerSeen++
			continue
		}
		rec.fields = append(rec.fields, field{key: key, value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if headerSeen < 2 {
		return nil, ErrMissingHeader
	}
	return rec, nil
}

// SetString sets key. Values with line breaks or surrounding whitespace are
// refused since ReadRecord trims every line.
func (rec *Record) SetString(key, value string) error {
	if strings.ContainsAny(value, "\r\n") || strings.TrimSpace(value) != value {
		return fmt.Errorf("%s %q: %w", key, value, ErrUnstorable)
	}
	rec.set(key, value)
	return nil
}

func (rec *Record) set(key, value string) {
	for i := range rec.fields {
		if rec.fields[i].key == key {
			rec.fields[i].value = value
			return
		}
	}
	rec.fields = append(rec.fields, field{key: key, value: value})
}

func (rec *Record) SetUint32(key string, value uint32) {
	rec.set(key, strconv.FormatUint(uint64(value), 10))
}

func (rec *Record) String(key string) (string, error) {
	for _, f := range rec.fields {
		if f.key == key {
			return f.value, nil
		}
	}
	return "", fmt.Errorf("%s: %w", key, ErrMissingKey)
}

func (rec *Record) Uint32(key string) (uint32, error) {
	raw, err := rec.String(key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return uint32(v), nil
}

func (rec *Record) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", keyFiletype, rec.Filetype)
	fmt.Fprintf(&b, "%s: %d\n", keyVersion, rec.Version)
	for _, f := range rec.fields {
		fmt.Fprintf(&b, "%s: %s\n", f.key, f.value)
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}
