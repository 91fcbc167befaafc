package parcelsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"parcel-sorting-service/internal/domain"
	"strconv"
	"strings"
	"time"
)

// Accepted delivery date layouts, tried in order.
var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
}

// CSVFile reads parcels from a file with a header row followed by
// number,deliveryDate,postcode records.
type CSVFile struct {
	Path string
	// Location for dates without a zone offset. Nil means time.Local.
	Location *time.Location
}

func NewCSVFile(path string) *CSVFile {
	return &CSVFile{Path: path}
}

func (f *CSVFile) ListParcels(ctx context.Context) ([]*domain.Parcel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("list parcels: open %q: %w", f.Path, err)
	}
	defer file.Close()

	parcels, err := DecodeParcels(file, f.Location)
	if err != nil {
		return nil, fmt.Errorf("list parcels: %q: %w", f.Path, err)
	}

	return parcels, nil
}

// DecodeParcels parses parcel records. The first record is a header and is
// skipped. Parcel numbers must be unique.
func DecodeParcels(r io.Reader, loc *time.Location) ([]*domain.Parcel, error) {
	if loc == nil {
		loc = time.Local
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return []*domain.Parcel{}, nil
		}
		return nil, fmt.Errorf("decode parcels: header: %w", err)
	}

	parcels := make([]*domain.Parcel, 0, 64)
	seen := make(map[int]struct{})
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode parcels: %w", err)
		}
		line, _ := reader.FieldPos(0)

		p, err := decodeParcel(record, loc)
		if err != nil {
			return nil, fmt.Errorf("decode parcels: line %d: %w", line, err)
		}

		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("decode parcels: line %d: %w", line,
				domain.NewValidationError("number", fmt.Sprintf("duplicate parcel number %d", p.ID)))
		}
		seen[p.ID] = struct{}{}

		parcels = append(parcels, p)
	}

	return parcels, nil
}

func decodeParcel(record []string, loc *time.Location) (*domain.Parcel, error) {
	id, err := strconv.Atoi(strings.TrimSpace(record[0]))
	if err != nil {
		return nil, domain.NewValidationError("number", fmt.Sprintf("%q is not an integer", record[0]))
	}

	date, err := ParseDeliveryDate(record[1], loc)
	if err != nil {
		return nil, err
	}

	dest, err := domain.ParseLiteralPostcode(record[2])
	if err != nil {
		return nil, err
	}

	return domain.NewParcel(id, date, dest)
}

// ParseDeliveryDate parses s with the first matching layout in dateLayouts.
func ParseDeliveryDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, domain.NewFormatError(s, "delivery date must be YYYY-MM-DD, YYYY-MM-DD hh:mm:ss or RFC 3339")
}
