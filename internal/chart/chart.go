// Package chart decodes market-chart responses into a generic tree and
// exposes its named sample arrays.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
)

// ErrParse is returned for bodies that are not a usable market-chart document.
var ErrParse = errors.New("parse error")

// Names of the sample arrays in a market-chart document.
const (
	Prices       = "prices"
	MarketCaps   = "market_caps"
	TotalVolumes = "total_volumes"
)

// Tree is a decoded JSON object. Numbers are kept as json.Number so that
// millisecond timestamps survive without float rounding.
type Tree map[string]interface{}

// Point is one [timestamp_ms, value] sample.
type Point struct {
	TimestampMS int64
	Value       float64
}

// Unix returns the sample time in seconds.
func (p Point) Unix() int64 {
	return p.TimestampMS / 1000
}

// Parse decodes body into a Tree. The top level must be a single JSON
// object; anything after it other than whitespace is an error.
func Parse(body []byte) (Tree, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var tree Tree
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if tree == nil {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrParse)
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after top-level object", ErrParse)
	}
	return tree, nil
}

// Has reports whether the tree has a field called name.
func (t Tree) Has(name string) bool {
	_, ok := t[name]
	return ok
}

// Points returns the [timestamp_ms, value] pairs stored under name, in order.
// A missing field yields an empty slice; a field of the wrong shape is an ErrParse.
func (t Tree) Points(name string) ([]Point, error) {
	raw, ok := t[name]
	if !ok || raw == nil {
		return nil, nil
	}
	arr, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an array", ErrParse, name)
	}

	out := make([]Point, 0, len(arr))
	for i, el := range arr {
		pair, ok := el.([]interface{})
		if !ok || len(pair) < 2 {
			return nil, fmt.Errorf("%w: %s[%d] is not a [timestamp, value] pair", ErrParse, name, i)
		}
		ts, err := toInt64(pair[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %s[%d] timestamp: %v", ErrParse, name, i, err)
		}
		v, err := toFloat64(pair[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %s[%d] value: %v", ErrParse, name, i, err)
		}
		out = append(out, Point{TimestampMS: ts, Value: v})
	}
	return out, nil
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, err
		}
		return int64(f), nil
	case float64:
		return int64(n), nil
	case int64:
		return n, nil
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

// toFloat64 maps JSON null to 0, which the upstream uses for missing values.
func toFloat64(v interface{}) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case json.Number:
		return n.Float64()
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(n, 64)
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}
