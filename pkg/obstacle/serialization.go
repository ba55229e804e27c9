package obstacle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// EncodeList converts the obstacle sequence into the stored JSON array.
// A nil slice is written as [] so readers never see null.
func EncodeList(obstacles []Obstacle) (string, error) {
	return encodeStored(obstacles, nil)
}

// encodeStored writes the obstacles followed by the unreadable elements as they were read.
func encodeStored(obstacles []Obstacle, unreadable []json.RawMessage) (string, error) {
	elems := make([]json.RawMessage, 0, len(obstacles)+len(unreadable))
	for i := range obstacles {
		data, err := json.Marshal(obstacles[i])
		if err != nil {
			return "", fmt.Errorf("failed to encode obstacles: %w", err)
		}
		elems = append(elems, data)
	}
	elems = append(elems, unreadable...)

	data, err := json.Marshal(elems)
	if err != nil {
		return "", fmt.Errorf("failed to encode obstacles: %w", err)
	}
	return string(data), nil
}

// DecodeList parses a stored value into the obstacle sequence.
//
// A JSON array is decoded element by element. Elements that cannot be read as an
// obstacle are returned untouched in unreadable so a later write can keep them; they
// never hide their readable siblings. A single JSON object, left behind by older writers
// that stored one record instead of the array, is wrapped into a one-element sequence and
// recovered is set to true. JSON null decodes to an empty sequence. Anything else is an error.
func DecodeList(raw string) (obstacles []Obstacle, unreadable []json.RawMessage, recovered bool, err error) {
	data := bytes.TrimSpace([]byte(raw))
	if len(data) == 0 {
		return []Obstacle{}, nil, false, nil
	}

	switch data[0] {
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(data, &elems); err != nil {
			return nil, nil, false, fmt.Errorf("failed to decode obstacle list: %w", err)
		}
		list := make([]Obstacle, 0, len(elems))
		for _, elem := range elems {
			var o Obstacle
			if err := json.Unmarshal(elem, &o); err != nil {
				unreadable = append(unreadable, elem)
				continue
			}
			list = append(list, o)
		}
		return list, unreadable, false, nil

	case '{':
		var single Obstacle
		if err := json.Unmarshal(data, &single); err != nil {
			return nil, nil, false, fmt.Errorf("failed to decode obstacle: %w", err)
		}
		return []Obstacle{single}, nil, true, nil

	default:
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, nil, false, fmt.Errorf("failed to decode stored value: %w", err)
		}
		if v == nil {
			return []Obstacle{}, nil, false, nil
		}
		return nil, nil, false, fmt.Errorf("stored value is a %T, expected an obstacle array", v)
	}
}

// UnmarshalJSON accepts IDs written either as strings or as JSON numbers, and
// coordinates written either as numbers or as numeric strings.
// Early builds of the mobile app typed the ID as a number and stored raw text-field input.
func (o *Obstacle) UnmarshalJSON(data []byte) error {
	type plain Obstacle
	var aux struct {
		plain
		ID        json.RawMessage `json:"id"`
		Longitude json.RawMessage `json:"longitude"`
		Latitude  json.RawMessage `json:"latitude"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	id, err := decodeID(aux.ID)
	if err != nil {
		return err
	}
	lon, err := decodeCoord("longitude", aux.Longitude)
	if err != nil {
		return err
	}
	lat, err := decodeCoord("latitude", aux.Latitude)
	if err != nil {
		return err
	}

	*o = Obstacle(aux.plain)
	o.ID = id
	o.Longitude = lon
	o.Latitude = lat
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("invalid obstacle id: %w", err)
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("invalid obstacle id %s: must be a string or number", string(raw))
	}
	return n.String(), nil
}

// decodeCoord reads a coordinate. Missing, null and empty-string values read as 0.
func decodeCoord(field string, raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("invalid %s: %w", field, err)
		}
		if s == "" {
			return 0, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("invalid %s %q: must be a number", field, s)
		}
		return v, nil
	}

	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("invalid %s %s: must be a number", field, string(raw))
	}
	return v, nil
}
