package codec

import "time"

// Extended-type tags carried on the wire as {"__type__": tag, "__value__": string}.
const (
	TagDatetime = "datetime"
	TagDate     = "date"
	TagDecimal  = "decimal"
)

const (
	extTypeKey  = "__type__"
	extValueKey = "__value__"

	dateLayout = "2006-01-02"
)

// Date is a calendar date in canonical YYYY-MM-DD form.
type Date string

// String returns the canonical form.
func (d Date) String() string { return string(d) }

// Decimal is an arbitrary-precision decimal in its canonical string form.
// No native Go type preserves it losslessly, so it stays a string on both sides.
type Decimal string

// String returns the canonical form.
func (d Decimal) String() string { return string(d) }

// encodeValue recursively replaces extended values with their tagged wire form.
// Only []interface{} and map[string]interface{} containers are walked; values of
// other concrete types pass through to the JSON marshaller untouched.
func encodeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case time.Time:
		return tagged(TagDatetime, val.UTC().Format(time.RFC3339Nano))
	case Date:
		return tagged(TagDate, string(val))
	case Decimal:
		return tagged(TagDecimal, string(val))
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = encodeValue(item)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = encodeValue(item)
		}
		return out
	default:
		return v
	}
}

// decodeValue recursively replaces tagged wire forms with native values.
func decodeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case []interface{}:
		for i, item := range val {
			val[i] = decodeValue(item)
		}
		return val
	case map[string]interface{}:
		if tag, raw, ok := taggedValue(val); ok {
			return decodeExtended(tag, raw)
		}
		for k, item := range val {
			val[k] = decodeValue(item)
		}
		return val
	default:
		return v
	}
}

// decodeExtended maps a tag to its native value. Unknown tags decode to the
// raw canonical string so that new tags never break older clients.
func decodeExtended(tag, raw string) interface{} {
	switch tag {
	case TagDatetime:
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return raw
		}
		return t
	case TagDate:
		if _, err := time.Parse(dateLayout, raw); err != nil {
			return raw
		}
		return Date(raw)
	case TagDecimal:
		return Decimal(raw)
	default:
		return raw
	}
}

func tagged(tag, value string) map[string]interface{} {
	return map[string]interface{}{extTypeKey: tag, extValueKey: value}
}

// taggedValue reports whether m is exactly a {"__type__", "__value__"} pair.
func taggedValue(m map[string]interface{}) (tag, value string, ok bool) {
	if len(m) != 2 {
		return "", "", false
	}
	tag, tagOK := m[extTypeKey].(string)
	value, valueOK := m[extValueKey].(string)
	if !tagOK || !valueOK {
		return "", "", false
	}
	return tag, value, true
}
