package starmod

import (
	"fmt"

	"go.starlark.net/starlark"
)

// mapToDict converts a Go map into a Starlark dict for passing action
// params into a script.
func mapToDict(m map[string]any) *starlark.Dict {
	dict := starlark.NewDict(len(m))
	for k, v := range m {
		dict.SetKey(starlark.String(k), toStarlark(v))
	}
	return dict
}

func toStarlark(v any) starlark.Value {
	switch val := v.(type) {
	case nil:
		return starlark.None
	case string:
		return starlark.String(val)
	case bool:
		return starlark.Bool(val)
	case float64:
		return starlark.Float(val)
	case int:
		return starlark.MakeInt(val)
	case int64:
		return starlark.MakeInt64(val)
	case map[string]any:
		return mapToDict(val)
	case []any:
		elems := make([]starlark.Value, 0, len(val))
		for _, e := range val {
			elems = append(elems, toStarlark(e))
		}
		return starlark.NewList(elems)
	default:
		return starlark.String(fmt.Sprintf("%v", v))
	}
}

// dictToMap converts a Starlark dict with string keys back into a Go map.
// Non-string keys are stringified rather than dropped.
func dictToMap(dict *starlark.Dict) map[string]any {
	res := make(map[string]any, dict.Len())
	for _, k := range dict.Keys() {
		v, _, _ := dict.Get(k)
		key, ok := starlark.AsString(k)
		if !ok {
			key = k.String()
		}
		res[key] = fromStarlark(v)
	}
	return res
}

func fromStarlark(v starlark.Value) any {
	switch val := v.(type) {
	case starlark.NoneType:
		return nil
	case starlark.String:
		return string(val)
	case starlark.Bool:
		return bool(val)
	case starlark.Int:
		i, _ := val.Int64()
		return i
	case starlark.Float:
		return float64(val)
	case *starlark.Dict:
		return dictToMap(val)
	case *starlark.List:
		out := make([]any, 0, val.Len())
		for i := 0; i < val.Len(); i++ {
			out = append(out, fromStarlark(val.Index(i)))
		}
		return out
	case starlark.Tuple:
		out := make([]any, 0, len(val))
		for _, e := range val {
			out = append(out, fromStarlark(e))
		}
		return out
	default:
		return v.String()
	}
}
