package driver

import (
	"database/sql"

	"github.com/relkit/relkit/query"
	"github.com/relkit/relkit/schema"
	"github.com/relkit/relkit/sqlerr"
)

// DecodeAll drains rows, decoding each against the declared output
// shape. Arity or type mismatches are DecodeErrors; nothing is silently
// coerced. The caller owns closing rows.
func DecodeAll(shape []query.OutCol, rows Rows) ([][]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, sqlerr.Decode("reading result columns").Wrap(err)
	}
	if len(cols) != len(shape) {
		return nil, sqlerr.Decode("result has %d columns, shape declares %d", len(cols), len(shape))
	}

	var out [][]any
	for rows.Next() {
		rec, err := DecodeRow(shape, rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeRow scans one row into values typed per the shape. Nullable
// columns decode to nil when absent; a NULL in a non-nullable slot is a
// DecodeError.
func DecodeRow(shape []query.OutCol, scan func(dest ...any) error) ([]any, error) {
	dest := make([]any, len(shape))
	for i, col := range shape {
		dest[i] = scanTarget(col.Type)
	}
	if err := scan(dest...); err != nil {
		return nil, sqlerr.Decode("scanning row").Wrap(err)
	}

	out := make([]any, len(shape))
	for i, col := range shape {
		v, present, err := extract(col.Type, dest[i])
		if err != nil {
			return nil, err
		}
		if !present {
			if !col.Nullable {
				return nil, sqlerr.Decode("NULL in non-nullable column %q", col.Name).WithColumn(col.Name)
			}
			out[i] = nil
			continue
		}
		out[i] = v
	}
	return out, nil
}

func scanTarget(t schema.ColumnType) any {
	switch t {
	case schema.Int:
		return new(sql.NullInt64)
	case schema.Float:
		return new(sql.NullFloat64)
	case schema.Text:
		return new(sql.NullString)
	case schema.Bool:
		return new(sql.NullBool)
	case schema.Time:
		return new(sql.NullTime)
	default:
		return new([]byte)
	}
}

func extract(t schema.ColumnType, target any) (any, bool, error) {
	switch t {
	case schema.Int:
		v := target.(*sql.NullInt64)
		return v.Int64, v.Valid, nil
	case schema.Float:
		v := target.(*sql.NullFloat64)
		return v.Float64, v.Valid, nil
	case schema.Text:
		v := target.(*sql.NullString)
		return v.String, v.Valid, nil
	case schema.Bool:
		v := target.(*sql.NullBool)
		return v.Bool, v.Valid, nil
	case schema.Time:
		v := target.(*sql.NullTime)
		return v.Time, v.Valid, nil
	case schema.Bytes:
		v := target.(*[]byte)
		return *v, *v != nil, nil
	default:
		return nil, false, sqlerr.Decode("unknown column type %v", t)
	}
}
