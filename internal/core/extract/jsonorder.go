package extract

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// jsonObject 保留 JSON 物件鍵的文件順序
type jsonObject struct {
	keys   []string
	values map[string]interface{}
}

// decodeOrdered 逐 token 解析 JSON，物件解成 *jsonObject，數字保留為 json.Number
func decodeOrdered(content string) (interface{}, error) {
	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected extra JSON data")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (interface{}, error) {
	t, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := t.(json.Delim)
	if !ok {
		return t, nil
	}

	switch delim {
	case '{':
		obj := &jsonObject{values: make(map[string]interface{})}
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("invalid object key %v", kt)
			}
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			if _, dup := obj.values[key]; !dup {
				obj.keys = append(obj.keys, key)
			}
			obj.values[key] = val
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		list := []interface{}{}
		for dec.More() {
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return list, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %v", delim)
}

// plainValue 將 *jsonObject 還原為一般 map，供欄位轉換使用
func plainValue(v interface{}) interface{} {
	switch x := v.(type) {
	case *jsonObject:
		return plainObject(x)
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, item := range x {
			out[i] = plainValue(item)
		}
		return out
	default:
		return v
	}
}

func plainObject(o *jsonObject) map[string]interface{} {
	out := make(map[string]interface{}, len(o.values))
	for k, v := range o.values {
		out[k] = plainValue(v)
	}
	return out
}
