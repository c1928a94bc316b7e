package pgchain

import (
	"database/sql/driver"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mgutz/pgchain/common"
)

var typeOfTime = reflect.TypeOf(time.Time{})

func isUint(k reflect.Kind) bool {
	return k == reflect.Uint ||
		k == reflect.Uint8 ||
		k == reflect.Uint16 ||
		k == reflect.Uint32 ||
		k == reflect.Uint64
}

func isInt(k reflect.Kind) bool {
	return k == reflect.Int ||
		k == reflect.Int8 ||
		k == reflect.Int16 ||
		k == reflect.Int32 ||
		k == reflect.Int64
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 ||
		k == reflect.Float64
}

// Interpolate takes SQL with $N placeholders and the args bound to them and
// inlines the args as literals. Values that cannot be written as literals are
// passed through with new, renumbered placeholders.
//
// Supported literals:
//   - nil and nil pointers as NULL
//   - integers (signed and unsigned), floats, booleans
//   - strings that are valid UTF-8
//   - time.Time
//   - non-empty slices of integers or strings, as "(a,b,c)" for IN
//   - driver.Valuer results of the above
//
// If any arg is a []byte the SQL and args are returned unchanged.
func Interpolate(sql string, vals []interface{}) (string, []interface{}, error) {
	for _, v := range vals {
		switch v.(type) {
		case []byte, *[]byte:
			return sql, vals, nil
		}
	}

	if len(vals) == 0 {
		if Strict && strings.Contains(sql, "$") {
			logger.Warn("Interpolating SQL containing $ without args", "sql", sql)
		}
		return sql, nil, nil
	}

	buf := bufPool.Get()
	defer bufPool.Put(buf)

	var newArgs []interface{}
	var newPos int64

	for i := 0; i < len(sql); {
		ch := sql[i]
		if ch != '$' {
			buf.WriteByte(ch)
			i++
			continue
		}

		j := i + 1
		for j < len(sql) && '0' <= sql[j] && sql[j] <= '9' {
			j++
		}
		// $ not followed by digits, eg a dollar quote tag
		if j == i+1 {
			buf.WriteByte('$')
			i++
			continue
		}

		pos := atoi(sql[i+1 : j])
		if pos < 1 || pos > len(vals) {
			logger.Error("Interpolation error", "err", ErrArgumentMismatch, "sql", sql, "args", vals)
			return "", nil, ErrArgumentMismatch
		}

		v := vals[pos-1]
		inlined, err := writeLiteral(buf, v)
		if err != nil {
			return "", nil, err
		}
		if !inlined {
			newPos++
			writePlaceholder(buf, newPos)
			newArgs = append(newArgs, v)
		}
		i = j
	}

	return buf.String(), newArgs, nil
}

// writeLiteral writes v as a SQL literal. It returns false if v must be
// passed through as a bind arg.
func writeLiteral(buf common.BufferWriter, v interface{}) (bool, error) {
	if valuer, ok := v.(driver.Valuer); ok {
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Ptr && rv.IsNil() {
			buf.WriteString("NULL")
			return true, nil
		}
		val, err := valuer.Value()
		if err != nil {
			return false, err
		}
		if _, ok := val.([]byte); ok {
			return false, nil
		}
		v = val
	}

	if v == nil {
		buf.WriteString("NULL")
		return true, nil
	}

	valueOfV := reflect.ValueOf(v)
	kindOfV := valueOfV.Kind()

	if kindOfV == reflect.Ptr {
		if valueOfV.IsNil() {
			buf.WriteString("NULL")
			return true, nil
		}
		valueOfV = valueOfV.Elem()
		kindOfV = valueOfV.Kind()
	}

	switch {
	case kindOfV == reflect.String:
		str := valueOfV.String()
		if !utf8.ValidString(str) {
			return false, ErrNotUTF8
		}
		return true, Dialect.WriteStringLiteral(buf, str)
	case isInt(kindOfV):
		buf.WriteString(strconv.FormatInt(valueOfV.Int(), 10))
	case isUint(kindOfV):
		buf.WriteString(strconv.FormatUint(valueOfV.Uint(), 10))
	case isFloat(kindOfV):
		buf.WriteString(strconv.FormatFloat(valueOfV.Float(), 'f', -1, 64))
	case kindOfV == reflect.Bool:
		if valueOfV.Bool() {
			buf.WriteString(`'t'`)
		} else {
			buf.WriteString(`'f'`)
		}
	case kindOfV == reflect.Struct && valueOfV.Type() == typeOfTime:
		Dialect.WriteFormattedTime(buf, valueOfV.Interface().(time.Time))
	case kindOfV == reflect.Slice:
		return true, writeSliceLiteral(buf, valueOfV)
	default:
		return false, nil
	}
	return true, nil
}

func writeSliceLiteral(buf common.BufferWriter, valueOfV reflect.Value) error {
	sliceLen := valueOfV.Len()
	if sliceLen == 0 {
		return ErrInvalidSliceLength
	}

	kindOfSubtype := valueOfV.Type().Elem().Kind()
	if !isInt(kindOfSubtype) && !isUint(kindOfSubtype) && kindOfSubtype != reflect.String {
		return ErrInvalidSliceValue
	}

	buf.WriteByte('(')
	for i := 0; i < sliceLen; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		elem := valueOfV.Index(i)
		switch {
		case isInt(kindOfSubtype):
			buf.WriteString(strconv.FormatInt(elem.Int(), 10))
		case isUint(kindOfSubtype):
			buf.WriteString(strconv.FormatUint(elem.Uint(), 10))
		default:
			str := elem.String()
			if !utf8.ValidString(str) {
				return ErrNotUTF8
			}
			if err := Dialect.WriteStringLiteral(buf, str); err != nil {
				return err
			}
		}
	}
	buf.WriteByte(')')
	return nil
}

func interpolate(builder Builder) (string, []interface{}, error) {
	sql, args, err := builder.ToSQL()
	if err != nil {
		return "", nil, err
	}
	if builder.IsInterpolated() {
		return Interpolate(sql, args)
	}
	return sql, args, nil
}
