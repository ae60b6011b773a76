package periodq

import (
	"database/sql"
	"fmt"
	"reflect"

	"github.com/iancoleman/strcase"
)

// Bind scans every row into out, which must be a pointer to a slice of
// structs. A column maps to the field carrying a matching `bind` tag, or,
// when untagged, to the field whose snake-cased name equals the column name.
// Columns with no matching field are discarded.
func Bind(rows *sql.Rows, out interface{}) error {
	columns, err := rows.Columns()
	if err != nil {
		return err
	}

	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("bind target should be a pointer to a slice of structs, got %T", out)
	}
	slice := v.Elem()
	elemType := slice.Type().Elem()
	if elemType.Kind() != reflect.Struct {
		return fmt.Errorf("bind target should be a pointer to a slice of structs, got %T", out)
	}

	for rows.Next() {
		elem := reflect.New(elemType).Elem()
		scanInto := make([]interface{}, len(columns))
		for i, column := range columns {
			if index, ok := fieldIndex(elemType, column); ok {
				scanInto[i] = elem.Field(index).Addr().Interface()
			} else {
				scanInto[i] = new(interface{})
			}
		}
		if err := rows.Scan(scanInto...); err != nil {
			return err
		}
		slice = reflect.Append(slice, elem)
	}
	v.Elem().Set(slice)

	return rows.Err()
}

func fieldIndex(t reflect.Type, column string) (int, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if tag, exists := f.Tag.Lookup("bind"); exists {
			if tag == column {
				return i, true
			}
			continue
		}
		if strcase.ToSnake(f.Name) == column {
			return i, true
		}
	}
	return 0, false
}
